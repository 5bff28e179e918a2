package model

import (
	"slices"
	"time"

	"github.com/lib/pq"

	"github.com/dwarvesf/justthetip/internal/consts"
)

type MultiSigWallet struct {
	Address   string         `json:"address" gorm:"column:address;type:varchar(64);primaryKey"`
	Signers   pq.StringArray `json:"signers" gorm:"column:signers;type:text[];not null"`
	Threshold int            `json:"threshold" gorm:"column:threshold;not null"`
	CreatedBy string         `json:"created_by" gorm:"column:created_by;type:varchar(32)"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
}

func (MultiSigWallet) TableName() string {
	return "multisig_wallets"
}

// HasSigner reports whether wallet is one of the configured signer addresses.
func (w *MultiSigWallet) HasSigner(wallet string) bool {
	return slices.Contains(w.Signers, wallet)
}

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusApproved ProposalStatus = "APPROVED"
	ProposalStatusExecuted ProposalStatus = "EXECUTED"
	ProposalStatusFailed   ProposalStatus = "FAILED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
	ProposalStatusExpired  ProposalStatus = "EXPIRED"
)

func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case ProposalStatusExecuted, ProposalStatusFailed, ProposalStatusRejected, ProposalStatusExpired:
		return true
	}
	return false
}

// TransactionData is the transfer a proposal asks the signers to authorize.
// Amount is in the smallest unit of Currency.
type TransactionData struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Recipient string `json:"recipient"`
	Memo      string `json:"memo,omitempty"`
}

func (d TransactionData) AmountValue() *Web3BigInt {
	decimals, _ := consts.DecimalsOf(d.Currency)
	return &Web3BigInt{Value: d.Amount, Decimal: decimals}
}

type MultiSigProposal struct {
	ID                 string          `json:"id" gorm:"column:id;type:varchar(36);primaryKey"`
	MultisigAddress    string          `json:"multisig_address" gorm:"column:multisig_address;type:varchar(64);not null;index"`
	ProposerID         string          `json:"proposer_id" gorm:"column:proposer_id;type:varchar(32);not null"`
	TransactionData    TransactionData `json:"transaction_data" gorm:"column:transaction_data;type:jsonb;serializer:json"`
	Status             ProposalStatus  `json:"status" gorm:"column:status;type:varchar(20);not null;index"`
	Approvals          pq.StringArray  `json:"approvals" gorm:"column:approvals;type:text[];not null"`
	Rejections         pq.StringArray  `json:"rejections" gorm:"column:rejections;type:text[];not null"`
	RequiredApprovals  int             `json:"required_approvals" gorm:"column:required_approvals;not null"`
	RequiredRejections int             `json:"required_rejections" gorm:"column:required_rejections;not null"`
	RejectionReason    string          `json:"rejection_reason,omitempty" gorm:"column:rejection_reason;type:text"`
	TxSignature        string          `json:"tx_signature,omitempty" gorm:"column:tx_signature;type:varchar(128)"`
	ExecutionError     string          `json:"execution_error,omitempty" gorm:"column:execution_error;type:text"`
	ExecutedAt         *time.Time      `json:"executed_at,omitempty" gorm:"column:executed_at"`
	CreatedAt          time.Time       `json:"created_at" gorm:"column:created_at"`
	ExpiresAt          time.Time       `json:"expires_at" gorm:"column:expires_at;not null"`
	UpdatedAt          time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (MultiSigProposal) TableName() string {
	return "multisig_proposals"
}

func (p *MultiSigProposal) HasApproved(signerID string) bool {
	return slices.Contains(p.Approvals, signerID)
}

func (p *MultiSigProposal) HasRejected(signerID string) bool {
	return slices.Contains(p.Rejections, signerID)
}

func (p *MultiSigProposal) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
