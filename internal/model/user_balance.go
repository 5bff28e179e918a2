package model

import "time"

// UserBalance is the custodial balance of a user in the smallest unit of Currency.
type UserBalance struct {
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar(32);primaryKey"`
	Currency  string    `json:"currency" gorm:"column:currency;type:varchar(10);primaryKey"`
	Amount    string    `json:"amount" gorm:"column:amount;type:numeric(78,0);not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (UserBalance) TableName() string {
	return "user_balances"
}
