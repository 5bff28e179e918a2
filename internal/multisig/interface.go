package multisig

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/model"
)

// IManager runs M-of-N approval of high value transfers.
type IManager interface {
	CreateMultiSig(ctx context.Context, signers []string, threshold int, createdBy string) (*model.MultiSigWallet, error)
	// CreateProposal counts the proposer as the first approval.
	CreateProposal(ctx context.Context, multisigAddress string, data model.TransactionData, proposerID string) (*model.MultiSigProposal, error)
	ApproveProposal(ctx context.Context, id, signerID, signerWallet string) (*model.MultiSigProposal, error)
	RejectProposal(ctx context.Context, id, signerID, reason string) (*model.MultiSigProposal, error)
	// GetPendingProposals lists every vault's proposals when multisigAddress is empty.
	GetPendingProposals(ctx context.Context, multisigAddress string) ([]*model.MultiSigProposal, error)
	RequiresMultiSig(currency string, amount decimal.Decimal) bool
	CleanupExpired(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}
