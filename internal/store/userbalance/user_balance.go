package userbalance

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Get(db *gorm.DB, userID, currency string) (*model.UserBalance, error) {
	var balance model.UserBalance
	err := db.Where("user_id = ? AND currency = ?", userID, currency).First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}
