package withdrawalrequest

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

const unclaimed = "approved_by = '' AND rejected_by = ''"

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, withdrawal *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	return withdrawal, db.Create(withdrawal).Error
}

func (s *store) GetByID(db *gorm.DB, id string) (*model.WithdrawalRequest, error) {
	var withdrawal model.WithdrawalRequest
	err := db.Where("id = ?", id).First(&withdrawal).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (s *store) Claim(db *gorm.DB, id, adminID string, at time.Time) (bool, error) {
	res := db.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ? AND expires_at >= ?", id, model.WithdrawalStatusPending, at).
		Where(unclaimed).
		Updates(map[string]interface{}{
			"approved_by": adminID,
			"approved_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *store) TransitionStatus(db *gorm.DB, id string, from model.WithdrawalStatus, updates map[string]interface{}) (bool, error) {
	res := db.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (s *store) RejectPending(db *gorm.DB, id, adminID, reason string, at time.Time) (bool, error) {
	res := db.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ? AND expires_at >= ?", id, model.WithdrawalStatusPending, at).
		Where(unclaimed).
		Updates(map[string]interface{}{
			"status":           model.WithdrawalStatusRejected,
			"rejected_by":      adminID,
			"rejected_at":      at,
			"rejection_reason": reason,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *store) ExpireOne(db *gorm.DB, id string, now time.Time) (bool, error) {
	res := db.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ? AND expires_at < ?", id, model.WithdrawalStatusPending, now).
		Where(unclaimed).
		Update("status", model.WithdrawalStatusExpired)
	return res.RowsAffected == 1, res.Error
}

func (s *store) ExpirePending(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&model.WithdrawalRequest{}).
		Where("status = ? AND expires_at < ?", model.WithdrawalStatusPending, now).
		Where(unclaimed).
		Update("status", model.WithdrawalStatusExpired)
	return res.RowsAffected, res.Error
}

func (s *store) FailUnrecorded(db *gorm.DB, claimedBefore time.Time, reason string) (int64, error) {
	res := db.Model(&model.WithdrawalRequest{}).
		Where("approved_at < ?", claimedBefore).
		Where("(status = ? AND approved_by <> '') OR status = ?", model.WithdrawalStatusPending, model.WithdrawalStatusAutoApproved).
		Updates(map[string]interface{}{
			"status":           model.WithdrawalStatusFailed,
			"rejection_reason": reason,
		})
	return res.RowsAffected, res.Error
}

func (s *store) ListPending(db *gorm.DB) ([]*model.WithdrawalRequest, error) {
	var withdrawals []*model.WithdrawalRequest
	return withdrawals, db.Where("status = ?", model.WithdrawalStatusPending).
		Order("requested_at asc").
		Find(&withdrawals).Error
}

func (s *store) ListByUser(db *gorm.DB, userID string, limit int) ([]*model.WithdrawalRequest, error) {
	var withdrawals []*model.WithdrawalRequest
	q := db.Where("user_id = ?", userID).Order("requested_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return withdrawals, q.Find(&withdrawals).Error
}

func (s *store) CountPending(db *gorm.DB) (int64, error) {
	var count int64
	return count, db.Model(&model.WithdrawalRequest{}).
		Where("status = ?", model.WithdrawalStatusPending).
		Count(&count).Error
}
