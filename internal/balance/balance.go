package balance

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/apperrors"
	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/store"
)

type balance struct {
	db    *gorm.DB
	store *store.Store
}

func New(db *gorm.DB, s *store.Store) IBalance {
	return &balance{db: db, store: s}
}

func (b *balance) GetUserBalance(ctx context.Context, userID, currency string) (*model.Web3BigInt, error) {
	decimals, ok := consts.DecimalsOf(currency)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrUnsupportedCurrency, currency)
	}

	row, err := b.store.UserBalance.Get(b.db.WithContext(ctx), userID, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Web3BigInt{Value: "0", Decimal: decimals}, nil
		}
		return nil, errors.Wrap(err, "get user balance")
	}

	return &model.Web3BigInt{Value: row.Amount, Decimal: decimals}, nil
}
