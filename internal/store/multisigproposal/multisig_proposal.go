package multisigproposal

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

const notVoted = "NOT (? = ANY(approvals)) AND NOT (? = ANY(rejections))"

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, proposal *model.MultiSigProposal) (*model.MultiSigProposal, error) {
	return proposal, db.Create(proposal).Error
}

func (s *store) GetByID(db *gorm.DB, id string) (*model.MultiSigProposal, error) {
	var proposal model.MultiSigProposal
	err := db.Where("id = ?", id).First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *store) AddApproval(db *gorm.DB, id, signerID string, now time.Time) (bool, error) {
	res := db.Model(&model.MultiSigProposal{}).
		Where("id = ? AND status = ? AND expires_at >= ?", id, model.ProposalStatusPending, now).
		Where(notVoted, signerID, signerID).
		Update("approvals", gorm.Expr("array_append(approvals, ?)", signerID))
	return res.RowsAffected == 1, res.Error
}

func (s *store) AddRejection(db *gorm.DB, id, signerID, reason string, now time.Time) (bool, error) {
	res := db.Model(&model.MultiSigProposal{}).
		Where("id = ? AND status = ? AND expires_at >= ?", id, model.ProposalStatusPending, now).
		Where(notVoted, signerID, signerID).
		Updates(map[string]interface{}{
			"rejections":       gorm.Expr("array_append(rejections, ?)", signerID),
			"rejection_reason": reason,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *store) TransitionStatus(db *gorm.DB, id string, from model.ProposalStatus, updates map[string]interface{}) (bool, error) {
	res := db.Model(&model.MultiSigProposal{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (s *store) ExpireOne(db *gorm.DB, id string, now time.Time) (bool, error) {
	res := db.Model(&model.MultiSigProposal{}).
		Where("id = ? AND status = ? AND expires_at < ?", id, model.ProposalStatusPending, now).
		Update("status", model.ProposalStatusExpired)
	return res.RowsAffected == 1, res.Error
}

func (s *store) ExpirePending(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&model.MultiSigProposal{}).
		Where("status = ? AND expires_at < ?", model.ProposalStatusPending, now).
		Update("status", model.ProposalStatusExpired)
	return res.RowsAffected, res.Error
}

func (s *store) FailUnrecorded(db *gorm.DB, approvedBefore time.Time, reason string) (int64, error) {
	res := db.Model(&model.MultiSigProposal{}).
		Where("status = ? AND updated_at < ?", model.ProposalStatusApproved, approvedBefore).
		Updates(map[string]interface{}{
			"status":          model.ProposalStatusFailed,
			"execution_error": reason,
		})
	return res.RowsAffected, res.Error
}

func (s *store) ListPending(db *gorm.DB, multisigAddress string) ([]*model.MultiSigProposal, error) {
	var proposals []*model.MultiSigProposal
	q := db.Where("status = ?", model.ProposalStatusPending)
	if multisigAddress != "" {
		q = q.Where("multisig_address = ?", multisigAddress)
	}
	return proposals, q.Order("created_at desc").Find(&proposals).Error
}

func (s *store) CountPending(db *gorm.DB) (int64, error) {
	var count int64
	return count, db.Model(&model.MultiSigProposal{}).
		Where("status = ?", model.ProposalStatusPending).
		Count(&count).Error
}
