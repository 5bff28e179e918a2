package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Web3BigInt is an on-chain amount in the smallest unit of its currency
// (lamports, satoshis, wei) together with the number of decimals of that unit.
type Web3BigInt struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

// NewWeb3BigIntFromDecimal converts a human amount (1.5 SOL) into smallest units.
// Digits below the smallest unit are truncated; callers reject such amounts first
// with validation.FitsDecimals.
func NewWeb3BigIntFromDecimal(amount decimal.Decimal, decimals int) *Web3BigInt {
	return &Web3BigInt{
		Value:   amount.Shift(int32(decimals)).Truncate(0).String(),
		Decimal: decimals,
	}
}

func (w *Web3BigInt) bigInt() *big.Int {
	num, ok := new(big.Int).SetString(w.Value, 10)
	if !ok {
		return big.NewInt(0)
	}
	return num
}

// ToDecimal converts the smallest-unit value back to a human amount.
func (w *Web3BigInt) ToDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(w.bigInt(), int32(-w.Decimal))
}

// IsValid reports whether Value is a base-10 integer.
func (w *Web3BigInt) IsValid() bool {
	_, ok := new(big.Int).SetString(w.Value, 10)
	return ok
}

func (w *Web3BigInt) IsPositive() bool {
	return w.IsValid() && w.bigInt().Sign() > 0
}

// Cmp compares two amounts by their human value so differing decimals still compare correctly.
func (w *Web3BigInt) Cmp(number *Web3BigInt) int {
	return w.ToDecimal().Cmp(number.ToDecimal())
}
