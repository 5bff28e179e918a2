package model

import (
	"time"

	"github.com/dwarvesf/justthetip/internal/consts"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending      WithdrawalStatus = "PENDING"
	WithdrawalStatusAutoApproved WithdrawalStatus = "AUTO_APPROVED"
	WithdrawalStatusCompleted    WithdrawalStatus = "COMPLETED"
	WithdrawalStatusFailed       WithdrawalStatus = "FAILED"
	WithdrawalStatusRejected     WithdrawalStatus = "REJECTED"
	WithdrawalStatusExpired      WithdrawalStatus = "EXPIRED"
)

func (s WithdrawalStatus) IsTerminal() bool {
	switch s {
	case WithdrawalStatusCompleted, WithdrawalStatusFailed, WithdrawalStatusRejected, WithdrawalStatusExpired:
		return true
	}
	return false
}

type WithdrawalRequest struct {
	ID              string           `json:"id" gorm:"column:id;type:varchar(36);primaryKey"`
	UserID          string           `json:"user_id" gorm:"column:user_id;type:varchar(32);not null;index"`
	Username        string           `json:"username" gorm:"column:username;type:varchar(100)"`
	ToAddress       string           `json:"to_address" gorm:"column:to_address;type:varchar(128);not null"`
	Amount          string           `json:"amount" gorm:"column:amount;type:numeric(78,0);not null"`
	Currency        string           `json:"currency" gorm:"column:currency;type:varchar(10);not null"`
	Status          WithdrawalStatus `json:"status" gorm:"column:status;type:varchar(20);not null;index"`
	RequestedAt     time.Time        `json:"requested_at" gorm:"column:requested_at;not null"`
	ExpiresAt       time.Time        `json:"expires_at" gorm:"column:expires_at;not null"`
	ApprovedBy      string           `json:"approved_by,omitempty" gorm:"column:approved_by;type:varchar(32);not null"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty" gorm:"column:approved_at"`
	RejectedBy      string           `json:"rejected_by,omitempty" gorm:"column:rejected_by;type:varchar(32);not null"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty" gorm:"column:rejected_at"`
	RejectionReason string           `json:"rejection_reason,omitempty" gorm:"column:rejection_reason;type:text"`
	TxSignature     string           `json:"tx_signature,omitempty" gorm:"column:tx_signature;type:varchar(128)"`
	CreatedAt       time.Time        `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time        `json:"updated_at" gorm:"column:updated_at"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

// AmountValue returns the requested amount with the decimals of its currency.
func (w *WithdrawalRequest) AmountValue() *Web3BigInt {
	decimals, _ := consts.DecimalsOf(w.Currency)
	return &Web3BigInt{Value: w.Amount, Decimal: decimals}
}

func (w *WithdrawalRequest) IsExpired(now time.Time) bool {
	return now.After(w.ExpiresAt)
}
