package withdrawal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/store/auditlog"
)

type fakeWithdrawalStore struct {
	mu      sync.Mutex
	records map[string]model.WithdrawalRequest
	// the next failTransitions calls to TransitionStatus return transitionErr
	transitionErr   error
	failTransitions int
	transitions     int
}

func (f *fakeWithdrawalStore) failNextTransitions(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failTransitions = n
	f.transitionErr = err
}

func newFakeWithdrawalStore() *fakeWithdrawalStore {
	return &fakeWithdrawalStore{records: map[string]model.WithdrawalRequest{}}
}

func (f *fakeWithdrawalStore) Create(_ *gorm.DB, w *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[w.ID] = *w
	return w, nil
}

func (f *fakeWithdrawalStore) GetByID(_ *gorm.DB, id string) (*model.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &w, nil
}

func (f *fakeWithdrawalStore) Claim(_ *gorm.DB, id, adminID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.records[id]
	if !ok || w.Status != model.WithdrawalStatusPending || at.After(w.ExpiresAt) || w.ApprovedBy != "" || w.RejectedBy != "" {
		return false, nil
	}
	w.ApprovedBy = adminID
	w.ApprovedAt = &at
	f.records[id] = w
	return true, nil
}

func (f *fakeWithdrawalStore) TransitionStatus(_ *gorm.DB, id string, from model.WithdrawalStatus, updates map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions++
	if f.failTransitions > 0 {
		f.failTransitions--
		return false, f.transitionErr
	}
	w, ok := f.records[id]
	if !ok || w.Status != from {
		return false, nil
	}
	if v, ok := updates["status"]; ok {
		w.Status = v.(model.WithdrawalStatus)
	}
	if v, ok := updates["tx_signature"]; ok {
		w.TxSignature = v.(string)
	}
	if v, ok := updates["rejection_reason"]; ok {
		w.RejectionReason = v.(string)
	}
	f.records[id] = w
	return true, nil
}

func (f *fakeWithdrawalStore) RejectPending(_ *gorm.DB, id, adminID, reason string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.records[id]
	if !ok || w.Status != model.WithdrawalStatusPending || at.After(w.ExpiresAt) || w.ApprovedBy != "" || w.RejectedBy != "" {
		return false, nil
	}
	w.Status = model.WithdrawalStatusRejected
	w.RejectedBy = adminID
	w.RejectedAt = &at
	w.RejectionReason = reason
	f.records[id] = w
	return true, nil
}

func (f *fakeWithdrawalStore) ExpireOne(_ *gorm.DB, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.records[id]
	if !ok || w.Status != model.WithdrawalStatusPending || !now.After(w.ExpiresAt) || w.ApprovedBy != "" {
		return false, nil
	}
	w.Status = model.WithdrawalStatusExpired
	f.records[id] = w
	return true, nil
}

func (f *fakeWithdrawalStore) ExpirePending(_ *gorm.DB, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, w := range f.records {
		if w.Status == model.WithdrawalStatusPending && now.After(w.ExpiresAt) && w.ApprovedBy == "" && w.RejectedBy == "" {
			w.Status = model.WithdrawalStatusExpired
			f.records[id] = w
			count++
		}
	}
	return count, nil
}

func (f *fakeWithdrawalStore) FailUnrecorded(_ *gorm.DB, claimedBefore time.Time, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, w := range f.records {
		inFlight := (w.Status == model.WithdrawalStatusPending && w.ApprovedBy != "") || w.Status == model.WithdrawalStatusAutoApproved
		if inFlight && w.ApprovedAt != nil && w.ApprovedAt.Before(claimedBefore) {
			w.Status = model.WithdrawalStatusFailed
			w.RejectionReason = reason
			f.records[id] = w
			count++
		}
	}
	return count, nil
}

func (f *fakeWithdrawalStore) list(keep func(model.WithdrawalRequest) bool) []*model.WithdrawalRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.WithdrawalRequest
	for _, w := range f.records {
		if keep(w) {
			w := w
			out = append(out, &w)
		}
	}
	return out
}

func (f *fakeWithdrawalStore) ListPending(_ *gorm.DB) ([]*model.WithdrawalRequest, error) {
	out := f.list(func(w model.WithdrawalRequest) bool { return w.Status == model.WithdrawalStatusPending })
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (f *fakeWithdrawalStore) ListByUser(_ *gorm.DB, userID string, limit int) ([]*model.WithdrawalRequest, error) {
	out := f.list(func(w model.WithdrawalRequest) bool { return w.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeWithdrawalStore) CountPending(db *gorm.DB) (int64, error) {
	out, _ := f.ListPending(db)
	return int64(len(out)), nil
}

type fakeBalance struct {
	balances map[string]*model.Web3BigInt
}

func (f *fakeBalance) GetUserBalance(_ context.Context, userID, currency string) (*model.Web3BigInt, error) {
	if b, ok := f.balances[userID+":"+currency]; ok {
		return b, nil
	}
	return &model.Web3BigInt{Value: "0", Decimal: 9}, nil
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, instruction model.TransferInstruction) (string, error) {
	args := m.Called(ctx, instruction)
	return args.String(0), args.Error(1)
}

func (m *mockExecutor) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (f *fakeAuditor) Record(_ context.Context, entry model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditor) List(context.Context, auditlog.ListFilter) ([]*model.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditor) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeNotifier struct {
	withdrawals []string
}

func (f *fakeNotifier) NotifyPendingWithdrawal(_ context.Context, w *model.WithdrawalRequest) {
	f.withdrawals = append(f.withdrawals, w.ID)
}

func (f *fakeNotifier) NotifyProposalCreated(context.Context, *model.MultiSigProposal) {}
