package multisigproposal

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, proposal *model.MultiSigProposal) (*model.MultiSigProposal, error)
	GetByID(db *gorm.DB, id string) (*model.MultiSigProposal, error)

	// AddApproval appends signerID to approvals while the proposal is PENDING,
	// unexpired and signerID has not voted yet.
	AddApproval(db *gorm.DB, id, signerID string, now time.Time) (bool, error)
	AddRejection(db *gorm.DB, id, signerID, reason string, now time.Time) (bool, error)
	TransitionStatus(db *gorm.DB, id string, from model.ProposalStatus, updates map[string]interface{}) (bool, error)
	ExpireOne(db *gorm.DB, id string, now time.Time) (bool, error)
	ExpirePending(db *gorm.DB, now time.Time) (int64, error)
	// FailUnrecorded moves proposals left APPROVED since before approvedBefore to FAILED.
	FailUnrecorded(db *gorm.DB, approvedBefore time.Time, reason string) (int64, error)

	ListPending(db *gorm.DB, multisigAddress string) ([]*model.MultiSigProposal, error)
	CountPending(db *gorm.DB) (int64, error)
}
