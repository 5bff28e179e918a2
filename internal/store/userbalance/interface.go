package userbalance

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type IStore interface {
	Get(db *gorm.DB, userID, currency string) (*model.UserBalance, error)
}
