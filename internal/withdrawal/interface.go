package withdrawal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/model"
)

// IQueue drives a withdrawal from request through approval, execution or expiry.
type IQueue interface {
	// RequestWithdrawal records a withdrawal of amount (human units) and executes it
	// right away when it does not exceed the currency's auto-approve threshold.
	RequestWithdrawal(ctx context.Context, userID, username, toAddress string, amount decimal.Decimal, currency string) (*model.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, id, adminID string) (*model.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, id, adminID, reason string) (*model.WithdrawalRequest, error)
	GetPendingWithdrawals(ctx context.Context) ([]*model.WithdrawalRequest, error)
	GetUserWithdrawals(ctx context.Context, userID string, limit int) ([]*model.WithdrawalRequest, error)
	CleanupExpired(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}
