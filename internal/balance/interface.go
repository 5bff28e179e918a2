package balance

import (
	"context"

	"github.com/dwarvesf/justthetip/internal/model"
)

type IBalance interface {
	// GetUserBalance returns the custodial balance in smallest units, zero when the user holds none.
	GetUserBalance(ctx context.Context, userID, currency string) (*model.Web3BigInt, error)
}
