package multisig

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/apperrors"
	"github.com/dwarvesf/justthetip/internal/audit"
	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/executor"
	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/store"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/utils/webhook"
	"github.com/dwarvesf/justthetip/internal/validation"
)

const systemActor = "system"

type Manager struct {
	db                 *gorm.DB
	store              *store.Store
	executor           executor.IExecutor
	auditor            audit.IAuditor
	notifier           webhook.INotifier
	metrics            *monitoring.BusinessMetricsRecorder
	logger             *logger.Logger
	thresholds         map[string]decimal.Decimal
	proposalTTL        time.Duration
	rejectionThreshold int
	reconcileAfter     time.Duration
	outcomeBackOff     func() backoff.BackOff
	now                func() time.Time
	newAddress         func() (string, error)
}

func New(
	db *gorm.DB,
	s *store.Store,
	executor executor.IExecutor,
	auditor audit.IAuditor,
	notifier webhook.INotifier,
	metrics *monitoring.BusinessMetricsRecorder,
	cfg *config.AppConfig,
	logger *logger.Logger,
) (*Manager, error) {
	thresholds := make(map[string]decimal.Decimal, len(cfg.MultiSig.Thresholds))
	for currency, raw := range cfg.MultiSig.Thresholds {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parse multisig threshold for %s", currency)
		}
		thresholds[currency] = d
	}

	rejectionThreshold := cfg.MultiSig.RejectionThreshold
	if rejectionThreshold < 1 {
		rejectionThreshold = 1
	}

	return &Manager{
		db:                 db,
		store:              s,
		executor:           executor,
		auditor:            auditor,
		notifier:           notifier,
		metrics:            metrics,
		logger:             logger,
		thresholds:         thresholds,
		proposalTTL:        cfg.MultiSig.ProposalTTL,
		rejectionThreshold: rejectionThreshold,
		reconcileAfter:     cfg.Signer.ReconcileWindow(),
		outcomeBackOff:     store.OutcomeBackOff,
		now:                time.Now,
		newAddress:         newVaultAddress,
	}, nil
}

// newVaultAddress derives a fresh vault identity. The key stays with the signer service.
func newVaultAddress() (string, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return "", err
	}
	return key.PublicKey().String(), nil
}

func (m *Manager) CreateMultiSig(ctx context.Context, signers []string, threshold int, createdBy string) (*model.MultiSigWallet, error) {
	if len(signers) == 0 || threshold < 1 || threshold > len(signers) {
		return nil, errors.Wrapf(apperrors.ErrInvalidThreshold, "%d of %d signers", threshold, len(signers))
	}

	seen := make(map[string]struct{}, len(signers))
	cleaned := make(pq.StringArray, 0, len(signers))
	for _, signer := range signers {
		res := validation.ValidateAddress(signer, consts.ChainSolana)
		if !res.Valid {
			return nil, errors.Wrapf(apperrors.ErrInvalidAddress, "signer %q: %s", signer, res.Error)
		}
		if _, dup := seen[res.Sanitized]; dup {
			return nil, errors.Wrapf(apperrors.ErrInvalidThreshold, "duplicate signer %s", res.Sanitized)
		}
		seen[res.Sanitized] = struct{}{}
		cleaned = append(cleaned, res.Sanitized)
	}

	address, err := m.newAddress()
	if err != nil {
		return nil, errors.Wrap(err, "generate vault address")
	}

	wallet := &model.MultiSigWallet{
		Address:   address,
		Signers:   cleaned,
		Threshold: threshold,
		CreatedBy: createdBy,
		CreatedAt: m.now(),
	}
	if _, err := m.store.MultiSigWallet.Create(m.db.WithContext(ctx), wallet); err != nil {
		m.logger.Error("[CreateMultiSig][Create] failed to create multisig wallet", map[string]string{
			"created_by": createdBy,
			"error":      err.Error(),
		})
		return nil, errors.Wrap(err, "create multisig wallet")
	}

	m.logger.Info("[CreateMultiSig] multisig wallet created", map[string]string{
		"address":   address,
		"threshold": strconv.Itoa(threshold),
		"signers":   strconv.Itoa(len(cleaned)),
	})
	m.recordAudit(ctx, model.AuditLog{
		Action:   consts.AuditMultiSigCreated,
		Actor:    createdBy,
		TargetID: address,
		Details: map[string]string{
			"threshold": strconv.Itoa(threshold),
			"signers":   strconv.Itoa(len(cleaned)),
		},
	})

	return wallet, nil
}

func (m *Manager) CreateProposal(ctx context.Context, multisigAddress string, data model.TransactionData, proposerID string) (*model.MultiSigProposal, error) {
	wallet, err := m.getWallet(ctx, multisigAddress)
	if err != nil {
		return nil, err
	}

	chain, ok := consts.ChainOf(data.Currency)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrUnsupportedCurrency, data.Currency)
	}
	if !data.AmountValue().IsPositive() {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%s %s", data.Amount, data.Currency)
	}
	recipient := validation.ValidateAddress(data.Recipient, chain)
	if !recipient.Valid {
		return nil, errors.Wrap(apperrors.ErrInvalidAddress, recipient.Error)
	}
	data.Recipient = recipient.Sanitized

	now := m.now()
	proposal := &model.MultiSigProposal{
		ID:                 uuid.NewString(),
		MultisigAddress:    wallet.Address,
		ProposerID:         proposerID,
		TransactionData:    data,
		Status:             model.ProposalStatusPending,
		Approvals:          pq.StringArray{proposerID},
		Rejections:         pq.StringArray{},
		RequiredApprovals:  wallet.Threshold,
		RequiredRejections: m.rejectionThreshold,
		CreatedAt:          now,
		ExpiresAt:          now.Add(m.proposalTTL),
		UpdatedAt:          now,
	}
	if _, err := m.store.MultiSigProposal.Create(m.db.WithContext(ctx), proposal); err != nil {
		m.logger.Error("[CreateProposal][Create] failed to create proposal", map[string]string{
			"multisig_address": multisigAddress,
			"error":            err.Error(),
		})
		return nil, errors.Wrap(err, "create proposal")
	}

	m.logger.Info("[CreateProposal] proposal created", map[string]string{
		"id":                 proposal.ID,
		"multisig_address":   wallet.Address,
		"required_approvals": strconv.Itoa(proposal.RequiredApprovals),
	})
	m.recordAudit(ctx, proposalAudit(consts.AuditProposalCreated, proposerID, proposal, nil))
	m.metrics.RecordProposal(string(proposal.Status))
	m.notifier.NotifyProposalCreated(ctx, proposal)

	if len(proposal.Approvals) >= proposal.RequiredApprovals {
		return m.finalizeApproval(ctx, proposal.ID, proposerID)
	}
	return proposal, nil
}

func (m *Manager) ApproveProposal(ctx context.Context, id, signerID, signerWallet string) (*model.MultiSigProposal, error) {
	proposal, err := m.getActionable(ctx, id)
	if err != nil {
		return proposal, err
	}

	wallet, err := m.getWallet(ctx, proposal.MultisigAddress)
	if err != nil {
		return nil, err
	}
	if !wallet.HasSigner(signerWallet) {
		return nil, errors.Wrapf(apperrors.ErrUnauthorized, "wallet %s cannot sign for %s", signerWallet, wallet.Address)
	}
	if err := checkNotVoted(proposal, signerID); err != nil {
		return nil, err
	}

	added, err := m.store.MultiSigProposal.AddApproval(m.db.WithContext(ctx), id, signerID, m.now())
	if err != nil {
		return nil, errors.Wrap(err, "add approval")
	}
	if !added {
		return m.explainLostRace(ctx, id, signerID)
	}

	m.logger.Info("[ApproveProposal] approval added", map[string]string{
		"id":        id,
		"signer_id": signerID,
	})
	return m.finalizeApproval(ctx, id, signerID)
}

// finalizeApproval re-reads the proposal and, once enough approvals are in,
// moves it to APPROVED and executes it. Only the caller winning that move executes.
func (m *Manager) finalizeApproval(ctx context.Context, id, actor string) (*model.MultiSigProposal, error) {
	proposal, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(proposal.Approvals) < proposal.RequiredApprovals {
		m.recordAudit(ctx, proposalAudit(consts.AuditProposalApproved, actor, proposal, map[string]string{
			"approvals": strconv.Itoa(len(proposal.Approvals)),
		}))
		return proposal, nil
	}

	moved, err := m.store.MultiSigProposal.TransitionStatus(m.db.WithContext(ctx), id, model.ProposalStatusPending, map[string]interface{}{
		"status":     model.ProposalStatusApproved,
		"updated_at": m.now(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "approve proposal")
	}
	if !moved {
		// another approval crossed the threshold first
		current, err := m.get(ctx, id)
		if err != nil {
			return nil, err
		}
		m.recordAudit(ctx, proposalAudit(consts.AuditProposalApproved, actor, current, map[string]string{
			"approvals": strconv.Itoa(len(current.Approvals)),
		}))
		return current, nil
	}
	proposal.Status = model.ProposalStatusApproved
	m.metrics.RecordProposal(string(proposal.Status))

	execErr := m.execute(ctx, proposal)
	m.recordAudit(ctx, proposalAudit(consts.AuditProposalApproved, actor, proposal, map[string]string{
		"approvals": strconv.Itoa(len(proposal.Approvals)),
	}))
	if execErr != nil {
		return proposal, execErr
	}
	return proposal, nil
}

func (m *Manager) execute(ctx context.Context, p *model.MultiSigProposal) error {
	// a started transfer is never cancelled
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	signature, execErr := m.executor.Execute(ctx, model.TransferInstruction{
		Reference:   p.ID,
		Source:      p.MultisigAddress,
		Destination: p.TransactionData.Recipient,
		Amount:      p.TransactionData.Amount,
		Currency:    p.TransactionData.Currency,
		Memo:        p.TransactionData.Memo,
	})

	now := m.now()
	updates := map[string]interface{}{"updated_at": now}
	if execErr != nil {
		p.Status = model.ProposalStatusFailed
		p.ExecutionError = execErr.Error()
		updates["status"] = p.Status
		updates["execution_error"] = p.ExecutionError
		m.metrics.RecordExecution("multisig", "error", time.Since(start).Seconds())
		m.logger.Error("[ExecuteProposal][Execute] transfer failed", map[string]string{
			"id":    p.ID,
			"error": execErr.Error(),
		})
	} else {
		p.Status = model.ProposalStatusExecuted
		p.TxSignature = signature
		p.ExecutedAt = &now
		updates["status"] = p.Status
		updates["tx_signature"] = signature
		updates["executed_at"] = now
		m.metrics.RecordExecution("multisig", "success", time.Since(start).Seconds())
		m.logger.Info("[ExecuteProposal][Execute] transfer executed", map[string]string{
			"id":           p.ID,
			"tx_signature": signature,
		})
	}
	m.metrics.RecordProposal(string(p.Status))

	moved, err := store.RetryWrite(ctx, m.outcomeBackOff(), func() (bool, error) {
		return m.store.MultiSigProposal.TransitionStatus(m.db.WithContext(ctx), p.ID, model.ProposalStatusApproved, updates)
	})
	if err == nil && !moved {
		err = errors.Errorf("proposal %s is no longer APPROVED", p.ID)
	}
	if err != nil {
		m.logger.Error("[ExecuteProposal][TransitionStatus] transfer outcome not recorded", map[string]string{
			"id":           p.ID,
			"status":       string(p.Status),
			"tx_signature": signature,
			"error":        err.Error(),
		})
		m.recordAudit(ctx, proposalAudit(consts.AuditProposalReconcile, systemActor, p, map[string]string{
			"error": err.Error(),
		}))
		return errors.Wrap(apperrors.ErrOutcomeNotRecorded, err.Error())
	}

	if execErr != nil {
		return apperrors.NewExecutionError(execErr)
	}
	return nil
}

func (m *Manager) RejectProposal(ctx context.Context, id, signerID, reason string) (*model.MultiSigProposal, error) {
	proposal, err := m.getActionable(ctx, id)
	if err != nil {
		return proposal, err
	}
	if err := checkNotVoted(proposal, signerID); err != nil {
		return nil, err
	}

	added, err := m.store.MultiSigProposal.AddRejection(m.db.WithContext(ctx), id, signerID, reason, m.now())
	if err != nil {
		return nil, errors.Wrap(err, "add rejection")
	}
	if !added {
		return m.explainLostRace(ctx, id, signerID)
	}

	proposal, err = m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(proposal.Rejections) >= proposal.RequiredRejections {
		moved, err := m.store.MultiSigProposal.TransitionStatus(m.db.WithContext(ctx), id, model.ProposalStatusPending, map[string]interface{}{
			"status":     model.ProposalStatusRejected,
			"updated_at": m.now(),
		})
		if err != nil {
			return nil, errors.Wrap(err, "reject proposal")
		}
		if moved {
			proposal.Status = model.ProposalStatusRejected
			m.metrics.RecordProposal(string(proposal.Status))
		}
	}

	m.logger.Info("[RejectProposal] rejection added", map[string]string{
		"id":        id,
		"signer_id": signerID,
		"status":    string(proposal.Status),
	})
	m.recordAudit(ctx, proposalAudit(consts.AuditProposalRejected, signerID, proposal, map[string]string{
		"reason":     reason,
		"rejections": strconv.Itoa(len(proposal.Rejections)),
	}))

	return proposal, nil
}

func checkNotVoted(p *model.MultiSigProposal, signerID string) error {
	if p.HasApproved(signerID) {
		return errors.Wrapf(apperrors.ErrAlreadyApproved, "signer %s on proposal %s", signerID, p.ID)
	}
	if p.HasRejected(signerID) {
		return errors.Wrapf(apperrors.ErrAlreadyRejected, "signer %s on proposal %s", signerID, p.ID)
	}
	return nil
}

// getActionable loads a proposal that still accepts votes. An overdue proposal
// is forced to EXPIRED and returned together with apperrors.ErrExpired.
func (m *Manager) getActionable(ctx context.Context, id string) (*model.MultiSigProposal, error) {
	proposal, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != model.ProposalStatusPending {
		return nil, errors.Wrapf(apperrors.ErrInvalidState, "proposal %s is %s", id, proposal.Status)
	}
	if proposal.IsExpired(m.now()) {
		return m.expire(ctx, proposal)
	}
	return proposal, nil
}

func (m *Manager) expire(ctx context.Context, proposal *model.MultiSigProposal) (*model.MultiSigProposal, error) {
	expired, err := m.store.MultiSigProposal.ExpireOne(m.db.WithContext(ctx), proposal.ID, m.now())
	if err != nil {
		return nil, errors.Wrap(err, "expire proposal")
	}
	if expired {
		proposal.Status = model.ProposalStatusExpired
		m.metrics.RecordProposal(string(proposal.Status))
		m.recordAudit(ctx, proposalAudit(consts.AuditProposalExpired, systemActor, proposal, nil))
	}
	return proposal, errors.Wrapf(apperrors.ErrExpired, "proposal %s expired at %s", proposal.ID, proposal.ExpiresAt.Format(time.RFC3339))
}

func (m *Manager) explainLostRace(ctx context.Context, id, signerID string) (*model.MultiSigProposal, error) {
	current, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != model.ProposalStatusPending {
		return nil, errors.Wrapf(apperrors.ErrInvalidState, "proposal %s is %s", id, current.Status)
	}
	if current.IsExpired(m.now()) {
		return m.expire(ctx, current)
	}
	if err := checkNotVoted(current, signerID); err != nil {
		return nil, err
	}
	return nil, errors.Wrapf(apperrors.ErrInvalidState, "proposal %s changed concurrently", id)
}

func (m *Manager) get(ctx context.Context, id string) (*model.MultiSigProposal, error) {
	proposal, err := m.store.MultiSigProposal.GetByID(m.db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "proposal %s", id)
		}
		return nil, errors.Wrap(err, "get proposal")
	}
	return proposal, nil
}

func (m *Manager) getWallet(ctx context.Context, address string) (*model.MultiSigWallet, error) {
	wallet, err := m.store.MultiSigWallet.GetByAddress(m.db.WithContext(ctx), address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "multisig wallet %s", address)
		}
		return nil, errors.Wrap(err, "get multisig wallet")
	}
	return wallet, nil
}

func (m *Manager) GetPendingProposals(ctx context.Context, multisigAddress string) ([]*model.MultiSigProposal, error) {
	proposals, err := m.store.MultiSigProposal.ListPending(m.db.WithContext(ctx), multisigAddress)
	if err != nil {
		return nil, errors.Wrap(err, "list pending proposals")
	}
	return proposals, nil
}

// RequiresMultiSig reports whether amount (human units) reaches the currency's multisig threshold.
func (m *Manager) RequiresMultiSig(currency string, amount decimal.Decimal) bool {
	threshold, ok := m.thresholds[currency]
	if !ok {
		return false
	}
	return amount.GreaterThanOrEqual(threshold)
}

// CleanupExpired expires overdue PENDING proposals and fails APPROVED ones whose
// transfer outcome was never stored. It returns how many proposals it closed.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	now := m.now()
	count, err := m.store.MultiSigProposal.ExpirePending(m.db.WithContext(ctx), now)
	if err != nil {
		return 0, errors.Wrap(err, "expire pending proposals")
	}
	if count > 0 {
		m.logger.Info("[CleanupExpired] expired pending proposals", map[string]string{
			"count": strconv.FormatInt(count, 10),
		})
		m.recordAudit(ctx, model.AuditLog{
			Action:  consts.AuditProposalExpired,
			Actor:   systemActor,
			Details: map[string]string{"count": strconv.FormatInt(count, 10)},
		})
	}
	m.metrics.RecordSweep("multisig_expiry_sweep", count)

	failed, err := m.store.MultiSigProposal.FailUnrecorded(m.db.WithContext(ctx), now.Add(-m.reconcileAfter), consts.ReconcileReason)
	if err != nil {
		return count, errors.Wrap(err, "fail unrecorded proposals")
	}
	if failed > 0 {
		m.logger.Warn("[CleanupExpired] failed proposals without a stored outcome", map[string]string{
			"count": strconv.FormatInt(failed, 10),
		})
		m.recordAudit(ctx, model.AuditLog{
			Action: consts.AuditProposalReconcile,
			Actor:  systemActor,
			Details: map[string]string{
				"count":  strconv.FormatInt(failed, 10),
				"reason": consts.ReconcileReason,
			},
		})
	}
	m.metrics.RecordReconciled("multisig_expiry_sweep", failed)

	return count + failed, nil
}

func (m *Manager) CountPending(ctx context.Context) (int64, error) {
	return m.store.MultiSigProposal.CountPending(m.db.WithContext(ctx))
}

func proposalAudit(action, actor string, p *model.MultiSigProposal, details map[string]string) model.AuditLog {
	if p.TxSignature != "" {
		if details == nil {
			details = map[string]string{}
		}
		details["tx_signature"] = p.TxSignature
	}
	return model.AuditLog{
		Action:   action,
		Actor:    actor,
		TargetID: p.ID,
		Amount:   p.TransactionData.Amount,
		Currency: p.TransactionData.Currency,
		Status:   string(p.Status),
		Details:  details,
	}
}

func (m *Manager) recordAudit(ctx context.Context, entry model.AuditLog) {
	if err := m.auditor.Record(context.WithoutCancel(ctx), entry); err != nil {
		m.logger.Error("[MultiSig][Audit] failed to record audit entry", map[string]string{
			"action": entry.Action,
			"actor":  entry.Actor,
			"error":  err.Error(),
		})
	}
}
