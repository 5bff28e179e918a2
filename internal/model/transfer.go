package model

// TransferInstruction is handed to the executor once a withdrawal or proposal is cleared.
type TransferInstruction struct {
	// Reference is the withdrawal or proposal id, reused as idempotency key.
	Reference   string `json:"reference"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Memo        string `json:"memo,omitempty"`
}
