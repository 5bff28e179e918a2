package withdrawalrequest

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, withdrawal *model.WithdrawalRequest) (*model.WithdrawalRequest, error)
	GetByID(db *gorm.DB, id string) (*model.WithdrawalRequest, error)

	// Claim reserves a PENDING, unclaimed and unexpired withdrawal for adminID.
	// It reports false when another action got there first.
	Claim(db *gorm.DB, id, adminID string, at time.Time) (bool, error)
	// TransitionStatus applies updates only while the record is still in status from.
	TransitionStatus(db *gorm.DB, id string, from model.WithdrawalStatus, updates map[string]interface{}) (bool, error)
	RejectPending(db *gorm.DB, id, adminID, reason string, at time.Time) (bool, error)
	ExpireOne(db *gorm.DB, id string, now time.Time) (bool, error)
	ExpirePending(db *gorm.DB, now time.Time) (int64, error)
	// FailUnrecorded moves withdrawals that were handed to the signer before
	// claimedBefore but never got an outcome stored to FAILED.
	FailUnrecorded(db *gorm.DB, claimedBefore time.Time, reason string) (int64, error)

	ListPending(db *gorm.DB) ([]*model.WithdrawalRequest, error)
	ListByUser(db *gorm.DB, userID string, limit int) ([]*model.WithdrawalRequest, error)
	CountPending(db *gorm.DB) (int64, error)
}
