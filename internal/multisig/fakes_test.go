package multisig

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/store/auditlog"
)

type fakeWalletStore struct {
	mu      sync.Mutex
	wallets map[string]model.MultiSigWallet
}

func (f *fakeWalletStore) Create(_ *gorm.DB, w *model.MultiSigWallet) (*model.MultiSigWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wallets[w.Address] = *w
	return w, nil
}

func (f *fakeWalletStore) GetByAddress(_ *gorm.DB, address string) (*model.MultiSigWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[address]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &w, nil
}

type fakeProposalStore struct {
	mu        sync.Mutex
	proposals map[string]model.MultiSigProposal
	// transitions out of failFrom return transitionErr while it is set
	failFrom      model.ProposalStatus
	transitionErr error
}

func (f *fakeProposalStore) failTransitionsFrom(from model.ProposalStatus, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFrom = from
	f.transitionErr = err
}

func cloneProposal(p model.MultiSigProposal) model.MultiSigProposal {
	p.Approvals = append(pq.StringArray{}, p.Approvals...)
	p.Rejections = append(pq.StringArray{}, p.Rejections...)
	return p
}

func (f *fakeProposalStore) Create(_ *gorm.DB, p *model.MultiSigProposal) (*model.MultiSigProposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proposals[p.ID] = cloneProposal(*p)
	return p, nil
}

func (f *fakeProposalStore) GetByID(_ *gorm.DB, id string) (*model.MultiSigProposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = cloneProposal(p)
	return &p, nil
}

func (f *fakeProposalStore) votable(id, signerID string, now time.Time) (model.MultiSigProposal, bool) {
	p, ok := f.proposals[id]
	if !ok || p.Status != model.ProposalStatusPending || now.After(p.ExpiresAt) {
		return p, false
	}
	if slices.Contains(p.Approvals, signerID) || slices.Contains(p.Rejections, signerID) {
		return p, false
	}
	return p, true
}

func (f *fakeProposalStore) AddApproval(_ *gorm.DB, id, signerID string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.votable(id, signerID, now)
	if !ok {
		return false, nil
	}
	p.Approvals = append(p.Approvals, signerID)
	f.proposals[id] = p
	return true, nil
}

func (f *fakeProposalStore) AddRejection(_ *gorm.DB, id, signerID, reason string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.votable(id, signerID, now)
	if !ok {
		return false, nil
	}
	p.Rejections = append(p.Rejections, signerID)
	p.RejectionReason = reason
	f.proposals[id] = p
	return true, nil
}

func (f *fakeProposalStore) TransitionStatus(_ *gorm.DB, id string, from model.ProposalStatus, updates map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transitionErr != nil && from == f.failFrom {
		return false, f.transitionErr
	}
	p, ok := f.proposals[id]
	if !ok || p.Status != from {
		return false, nil
	}
	if v, ok := updates["status"]; ok {
		p.Status = v.(model.ProposalStatus)
	}
	if v, ok := updates["updated_at"]; ok {
		p.UpdatedAt = v.(time.Time)
	}
	if v, ok := updates["tx_signature"]; ok {
		p.TxSignature = v.(string)
	}
	if v, ok := updates["execution_error"]; ok {
		p.ExecutionError = v.(string)
	}
	f.proposals[id] = p
	return true, nil
}

func (f *fakeProposalStore) ExpireOne(_ *gorm.DB, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[id]
	if !ok || p.Status != model.ProposalStatusPending || !now.After(p.ExpiresAt) {
		return false, nil
	}
	p.Status = model.ProposalStatusExpired
	f.proposals[id] = p
	return true, nil
}

func (f *fakeProposalStore) FailUnrecorded(_ *gorm.DB, approvedBefore time.Time, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, p := range f.proposals {
		if p.Status == model.ProposalStatusApproved && p.UpdatedAt.Before(approvedBefore) {
			p.Status = model.ProposalStatusFailed
			p.ExecutionError = reason
			f.proposals[id] = p
			count++
		}
	}
	return count, nil
}

func (f *fakeProposalStore) ExpirePending(_ *gorm.DB, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, p := range f.proposals {
		if p.Status == model.ProposalStatusPending && now.After(p.ExpiresAt) {
			p.Status = model.ProposalStatusExpired
			f.proposals[id] = p
			count++
		}
	}
	return count, nil
}

func (f *fakeProposalStore) ListPending(_ *gorm.DB, address string) ([]*model.MultiSigProposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.MultiSigProposal
	for _, p := range f.proposals {
		if p.Status == model.ProposalStatusPending && (address == "" || p.MultisigAddress == address) {
			p := cloneProposal(p)
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProposalStore) CountPending(db *gorm.DB) (int64, error) {
	out, _ := f.ListPending(db, "")
	return int64(len(out)), nil
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
	proposals []string
}

func (f *fakeNotifier) NotifyPendingWithdrawal(context.Context, *model.WithdrawalRequest) {}

func (f *fakeNotifier) NotifyProposalCreated(_ context.Context, p *model.MultiSigProposal) {
	f.proposals = append(f.proposals, p.ID)
}
