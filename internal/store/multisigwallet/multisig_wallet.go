package multisigwallet

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, wallet *model.MultiSigWallet) (*model.MultiSigWallet, error) {
	return wallet, db.Create(wallet).Error
}

func (s *store) GetByAddress(db *gorm.DB, address string) (*model.MultiSigWallet, error) {
	var wallet model.MultiSigWallet
	err := db.Where("address = ?", address).First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
