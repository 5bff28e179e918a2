package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/consts"
)

const maxMemoLength = 200

// TransactionParams is the raw input of a tip or withdrawal command.
// Exactly one of RecipientID (tips) and ToAddress (withdrawals) is set.
type TransactionParams struct {
	SenderID    string          `json:"sender_id"`
	RecipientID string          `json:"recipient_id,omitempty"`
	ToAddress   string          `json:"to_address,omitempty"`
	Amount      string          `json:"amount"`
	Currency    string          `json:"currency"`
	Memo        string          `json:"memo,omitempty"`
	MaxAmount   decimal.Decimal `json:"-"`
}

type SanitizedTransaction struct {
	SenderID    string          `json:"sender_id"`
	RecipientID string          `json:"recipient_id,omitempty"`
	ToAddress   string          `json:"to_address,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Memo        string          `json:"memo,omitempty"`
}

type TransactionResult struct {
	Valid     bool                  `json:"valid"`
	Errors    []string              `json:"errors,omitempty"`
	Sanitized *SanitizedTransaction `json:"sanitized,omitempty"`
}

// ValidateTransaction runs every applicable check and reports all violations at once.
func ValidateTransaction(params TransactionParams) TransactionResult {
	var (
		errs      []string
		sanitized SanitizedTransaction
	)

	if r := ValidateUserID(params.SenderID); r.Valid {
		sanitized.SenderID = r.Sanitized
	} else {
		errs = append(errs, "sender: "+r.Error)
	}

	switch {
	case params.RecipientID == "" && params.ToAddress == "":
		errs = append(errs, "recipient or to_address is required")
	case params.RecipientID != "" && params.ToAddress != "":
		errs = append(errs, "recipient and to_address cannot both be set")
	}

	if params.RecipientID != "" {
		if r := ValidateUserID(params.RecipientID); r.Valid {
			sanitized.RecipientID = r.Sanitized
		} else {
			errs = append(errs, "recipient: "+r.Error)
		}
		if sanitized.SenderID != "" && sanitized.SenderID == sanitized.RecipientID {
			errs = append(errs, "cannot send to yourself")
		}
	}

	chain, supported := consts.ChainOf(params.Currency)
	if supported {
		sanitized.Currency = params.Currency
	} else {
		errs = append(errs, "unsupported currency: "+params.Currency)
	}

	if r := ValidateAmount(params.Amount, params.MaxAmount); r.Valid {
		sanitized.Amount = r.Sanitized
		if decimals, known := consts.DecimalsOf(params.Currency); known && !FitsDecimals(r.Sanitized, decimals) {
			errs = append(errs, fmt.Sprintf("amount has more than %d decimal places for %s", decimals, params.Currency))
		}
	} else {
		errs = append(errs, r.Error)
	}

	if params.ToAddress != "" && supported {
		if r := ValidateAddress(params.ToAddress, chain); r.Valid {
			sanitized.ToAddress = r.Sanitized
		} else {
			errs = append(errs, r.Error)
		}
	}

	if params.Memo != "" {
		if r := ValidateUserInput(params.Memo, maxMemoLength); r.Valid {
			sanitized.Memo = r.Sanitized
		} else {
			errs = append(errs, "memo: "+r.Error)
		}
	}

	if len(errs) > 0 {
		return TransactionResult{Valid: false, Errors: errs}
	}
	return TransactionResult{Valid: true, Sanitized: &sanitized}
}
