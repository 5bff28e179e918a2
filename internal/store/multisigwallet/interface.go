package multisigwallet

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, wallet *model.MultiSigWallet) (*model.MultiSigWallet, error)
	GetByAddress(db *gorm.DB, address string) (*model.MultiSigWallet, error)
}
