package validation

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/consts"
)

var amountPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ValidateAmount parses a human amount ("1.5") and bounds it by maxAmount.
// A zero maxAmount disables the upper bound.
func ValidateAmount(raw string, maxAmount decimal.Decimal) Result[decimal.Decimal] {
	input := strings.TrimSpace(raw)
	if input == "" {
		return fail[decimal.Decimal]("amount is required")
	}
	if !amountPattern.MatchString(input) {
		return fail[decimal.Decimal]("amount must be a number")
	}

	amount, err := decimal.NewFromString(input)
	if err != nil {
		return fail[decimal.Decimal]("amount must be a number")
	}
	if !amount.IsPositive() {
		return fail[decimal.Decimal]("amount must be greater than 0")
	}
	if maxAmount.IsPositive() && amount.GreaterThan(maxAmount) {
		return fail[decimal.Decimal]("amount exceeds maximum of %s", maxAmount.String())
	}
	if decimalPlaces(amount) > consts.MaxInputDecimals {
		return fail[decimal.Decimal]("amount has more than %d decimal places", consts.MaxInputDecimals)
	}

	return ok(amount)
}

// decimalPlaces ignores trailing zeros, so "1.500000000" has one.
func decimalPlaces(d decimal.Decimal) int {
	s := d.String()
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}
	return len(s) - idx - 1
}

// FitsDecimals reports whether amount can be expressed in the smallest unit of a
// currency with the given decimals without dropping digits.
func FitsDecimals(amount decimal.Decimal, decimals int) bool {
	return amount.Shift(int32(decimals)).IsInteger()
}
