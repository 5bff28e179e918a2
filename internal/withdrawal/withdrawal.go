package withdrawal

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/apperrors"
	"github.com/dwarvesf/justthetip/internal/audit"
	"github.com/dwarvesf/justthetip/internal/balance"
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

// SystemApprover is recorded as approver of auto-approved withdrawals.
const SystemApprover = "system"

type Queue struct {
	db         *gorm.DB
	store      *store.Store
	balance    balance.IBalance
	executor   executor.IExecutor
	auditor    audit.IAuditor
	notifier   webhook.INotifier
	metrics    *monitoring.BusinessMetricsRecorder
	logger     *logger.Logger
	timeout    time.Duration
	thresholds map[string]decimal.Decimal
	// withdrawals handed to the signer longer ago than this without a stored
	// outcome are failed by the sweep
	reconcileAfter time.Duration
	outcomeBackOff func() backoff.BackOff
	now            func() time.Time
}

func New(
	db *gorm.DB,
	s *store.Store,
	balance balance.IBalance,
	executor executor.IExecutor,
	auditor audit.IAuditor,
	notifier webhook.INotifier,
	metrics *monitoring.BusinessMetricsRecorder,
	cfg *config.AppConfig,
	logger *logger.Logger,
) (*Queue, error) {
	thresholds, err := parseThresholds(cfg.Withdrawal.AutoApproveThresholds)
	if err != nil {
		return nil, err
	}

	return &Queue{
		db:             db,
		store:          s,
		balance:        balance,
		executor:       executor,
		auditor:        auditor,
		notifier:       notifier,
		metrics:        metrics,
		logger:         logger,
		timeout:        cfg.Withdrawal.Timeout,
		thresholds:     thresholds,
		reconcileAfter: cfg.Signer.ReconcileWindow(),
		outcomeBackOff: store.OutcomeBackOff,
		now:            time.Now,
	}, nil
}

func parseThresholds(raw map[string]string) (map[string]decimal.Decimal, error) {
	thresholds := make(map[string]decimal.Decimal, len(raw))
	for currency, value := range raw {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, errors.Wrapf(err, "parse threshold for %s", currency)
		}
		thresholds[currency] = d
	}
	return thresholds, nil
}

func (q *Queue) RequestWithdrawal(ctx context.Context, userID, username, toAddress string, amount decimal.Decimal, currency string) (*model.WithdrawalRequest, error) {
	chain, ok := consts.ChainOf(currency)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrUnsupportedCurrency, currency)
	}
	decimals, _ := consts.DecimalsOf(currency)
	if !validation.FitsDecimals(amount, decimals) {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%s supports at most %d decimal places", currency, decimals)
	}

	units := model.NewWeb3BigIntFromDecimal(amount, decimals)
	if !units.IsPositive() {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%s %s", amount.String(), currency)
	}

	addr := validation.ValidateAddress(toAddress, chain)
	if !addr.Valid {
		return nil, errors.Wrap(apperrors.ErrInvalidAddress, addr.Error)
	}

	available, err := q.balance.GetUserBalance(ctx, userID, currency)
	if err != nil {
		q.logger.Error("[RequestWithdrawal][GetUserBalance] failed to get balance", map[string]string{
			"user_id":  userID,
			"currency": currency,
			"error":    err.Error(),
		})
		return nil, err
	}
	if units.Cmp(available) > 0 {
		return nil, errors.Wrapf(apperrors.ErrInsufficientBalance, "requested %s, available %s",
			units.ToDecimal().String(), available.ToDecimal().String())
	}

	now := q.now()
	withdrawal := &model.WithdrawalRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Username:    username,
		ToAddress:   addr.Sanitized,
		Amount:      units.Value,
		Currency:    currency,
		Status:      model.WithdrawalStatusPending,
		RequestedAt: now,
		ExpiresAt:   now.Add(q.timeout),
	}

	autoApprove := q.isAutoApprovable(units, currency)
	if autoApprove {
		withdrawal.Status = model.WithdrawalStatusAutoApproved
		withdrawal.ApprovedBy = SystemApprover
		withdrawal.ApprovedAt = &now
	}

	if _, err := q.store.WithdrawalRequest.Create(q.db.WithContext(ctx), withdrawal); err != nil {
		q.logger.Error("[RequestWithdrawal][Create] failed to create withdrawal", map[string]string{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, errors.Wrap(err, "create withdrawal")
	}

	if !autoApprove {
		q.logger.Info("[RequestWithdrawal] withdrawal awaiting admin approval", map[string]string{
			"id":       withdrawal.ID,
			"user_id":  userID,
			"amount":   units.ToDecimal().String(),
			"currency": currency,
		})
		q.recordAudit(ctx, consts.AuditWithdrawalRequested, userID, withdrawal, nil)
		q.metrics.RecordWithdrawal(currency, string(withdrawal.Status))
		q.notifier.NotifyPendingWithdrawal(ctx, withdrawal)
		return withdrawal, nil
	}

	execErr := q.execute(ctx, withdrawal, model.WithdrawalStatusAutoApproved)
	q.recordAudit(ctx, consts.AuditWithdrawalRequested, userID, withdrawal, map[string]string{
		"approved_by": SystemApprover,
	})
	q.metrics.RecordWithdrawal(currency, string(withdrawal.Status))
	if execErr != nil {
		return withdrawal, execErr
	}

	return withdrawal, nil
}

func (q *Queue) isAutoApprovable(units *model.Web3BigInt, currency string) bool {
	threshold, ok := q.thresholds[currency]
	if !ok {
		return false
	}
	return units.ToDecimal().LessThanOrEqual(threshold)
}

// execute submits the transfer and moves the record out of from. The outcome is
// persisted before an *apperrors.ExecutionError is returned. When it cannot be
// persisted the signature is logged and audited and apperrors.ErrOutcomeNotRecorded
// is returned; the sweep fails the record later.
func (q *Queue) execute(ctx context.Context, w *model.WithdrawalRequest, from model.WithdrawalStatus) error {
	// a started transfer is never cancelled
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	signature, execErr := q.executor.Execute(ctx, model.TransferInstruction{
		Reference:   w.ID,
		Destination: w.ToAddress,
		Amount:      w.Amount,
		Currency:    w.Currency,
	})

	updates := map[string]interface{}{"updated_at": q.now()}
	if execErr != nil {
		w.Status = model.WithdrawalStatusFailed
		w.RejectionReason = execErr.Error()
		updates["status"] = w.Status
		updates["rejection_reason"] = w.RejectionReason
		q.metrics.RecordExecution("withdrawal", "error", time.Since(start).Seconds())
		q.logger.Error("[ExecuteWithdrawal][Execute] transfer failed", map[string]string{
			"id":    w.ID,
			"error": execErr.Error(),
		})
	} else {
		w.Status = model.WithdrawalStatusCompleted
		w.TxSignature = signature
		updates["status"] = w.Status
		updates["tx_signature"] = signature
		q.metrics.RecordExecution("withdrawal", "success", time.Since(start).Seconds())
		q.logger.Info("[ExecuteWithdrawal][Execute] transfer completed", map[string]string{
			"id":           w.ID,
			"tx_signature": signature,
		})
	}

	moved, err := store.RetryWrite(ctx, q.outcomeBackOff(), func() (bool, error) {
		return q.store.WithdrawalRequest.TransitionStatus(q.db.WithContext(ctx), w.ID, from, updates)
	})
	if err == nil && !moved {
		err = errors.Errorf("withdrawal %s is no longer %s", w.ID, from)
	}
	if err != nil {
		q.logger.Error("[ExecuteWithdrawal][TransitionStatus] transfer outcome not recorded", map[string]string{
			"id":           w.ID,
			"from":         string(from),
			"status":       string(w.Status),
			"tx_signature": signature,
			"error":        err.Error(),
		})
		q.recordAudit(ctx, consts.AuditWithdrawalReconcile, SystemApprover, w, map[string]string{
			"from":  string(from),
			"error": err.Error(),
		})
		return errors.Wrap(apperrors.ErrOutcomeNotRecorded, err.Error())
	}

	if execErr != nil {
		return apperrors.NewExecutionError(execErr)
	}
	return nil
}

func (q *Queue) ApproveWithdrawal(ctx context.Context, id, adminID string) (*model.WithdrawalRequest, error) {
	withdrawal, err := q.getActionable(ctx, id)
	if err != nil {
		return withdrawal, err
	}

	now := q.now()
	claimed, err := q.store.WithdrawalRequest.Claim(q.db.WithContext(ctx), id, adminID, now)
	if err != nil {
		return nil, errors.Wrap(err, "claim withdrawal")
	}
	if !claimed {
		return q.explainLostRace(ctx, id)
	}
	withdrawal.ApprovedBy = adminID
	withdrawal.ApprovedAt = &now

	execErr := q.execute(ctx, withdrawal, model.WithdrawalStatusPending)
	q.recordAudit(ctx, consts.AuditWithdrawalApproved, adminID, withdrawal, nil)
	q.metrics.RecordWithdrawal(withdrawal.Currency, string(withdrawal.Status))
	if execErr != nil {
		return withdrawal, execErr
	}

	return withdrawal, nil
}

func (q *Queue) RejectWithdrawal(ctx context.Context, id, adminID, reason string) (*model.WithdrawalRequest, error) {
	withdrawal, err := q.getActionable(ctx, id)
	if err != nil {
		return withdrawal, err
	}

	now := q.now()
	rejected, err := q.store.WithdrawalRequest.RejectPending(q.db.WithContext(ctx), id, adminID, reason, now)
	if err != nil {
		return nil, errors.Wrap(err, "reject withdrawal")
	}
	if !rejected {
		return q.explainLostRace(ctx, id)
	}

	withdrawal.Status = model.WithdrawalStatusRejected
	withdrawal.RejectedBy = adminID
	withdrawal.RejectedAt = &now
	withdrawal.RejectionReason = reason

	q.logger.Info("[RejectWithdrawal] withdrawal rejected", map[string]string{
		"id":       id,
		"admin_id": adminID,
		"reason":   reason,
	})
	q.recordAudit(ctx, consts.AuditWithdrawalRejected, adminID, withdrawal, map[string]string{"reason": reason})
	q.metrics.RecordWithdrawal(withdrawal.Currency, string(withdrawal.Status))

	return withdrawal, nil
}

// getActionable loads a withdrawal an admin may still act on. An overdue record
// is forced to EXPIRED and returned together with apperrors.ErrExpired.
func (q *Queue) getActionable(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	withdrawal, err := q.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != model.WithdrawalStatusPending {
		return nil, errors.Wrapf(apperrors.ErrInvalidState, "withdrawal %s is %s", id, withdrawal.Status)
	}
	if withdrawal.IsExpired(q.now()) {
		return q.expire(ctx, withdrawal)
	}
	return withdrawal, nil
}

func (q *Queue) expire(ctx context.Context, withdrawal *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	expired, err := q.store.WithdrawalRequest.ExpireOne(q.db.WithContext(ctx), withdrawal.ID, q.now())
	if err != nil {
		return nil, errors.Wrap(err, "expire withdrawal")
	}
	if expired {
		withdrawal.Status = model.WithdrawalStatusExpired
		q.recordAudit(ctx, consts.AuditWithdrawalExpired, SystemApprover, withdrawal, nil)
		q.metrics.RecordWithdrawal(withdrawal.Currency, string(withdrawal.Status))
	}
	return withdrawal, errors.Wrapf(apperrors.ErrExpired, "withdrawal %s expired at %s", withdrawal.ID, withdrawal.ExpiresAt.Format(time.RFC3339))
}

// explainLostRace maps a failed conditional write to the error the caller should see.
func (q *Queue) explainLostRace(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	current, err := q.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.WithdrawalStatusPending && current.IsExpired(q.now()) && current.ApprovedBy == "" {
		return q.expire(ctx, current)
	}
	return nil, errors.Wrapf(apperrors.ErrInvalidState, "withdrawal %s was already actioned", id)
}

func (q *Queue) get(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	withdrawal, err := q.store.WithdrawalRequest.GetByID(q.db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "withdrawal %s", id)
		}
		return nil, errors.Wrap(err, "get withdrawal")
	}
	return withdrawal, nil
}

func (q *Queue) GetPendingWithdrawals(ctx context.Context) ([]*model.WithdrawalRequest, error) {
	withdrawals, err := q.store.WithdrawalRequest.ListPending(q.db.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "list pending withdrawals")
	}
	return withdrawals, nil
}

func (q *Queue) GetUserWithdrawals(ctx context.Context, userID string, limit int) ([]*model.WithdrawalRequest, error) {
	withdrawals, err := q.store.WithdrawalRequest.ListByUser(q.db.WithContext(ctx), userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list user withdrawals")
	}
	return withdrawals, nil
}

// CleanupExpired expires overdue PENDING withdrawals and fails the ones handed to
// the signer whose outcome was never stored. It returns how many records it closed.
func (q *Queue) CleanupExpired(ctx context.Context) (int64, error) {
	now := q.now()
	count, err := q.store.WithdrawalRequest.ExpirePending(q.db.WithContext(ctx), now)
	if err != nil {
		return 0, errors.Wrap(err, "expire pending withdrawals")
	}
	if count > 0 {
		q.logger.Info("[CleanupExpired] expired pending withdrawals", map[string]string{
			"count": strconv.FormatInt(count, 10),
		})
		q.recordAudit(ctx, consts.AuditWithdrawalExpired, SystemApprover, nil, map[string]string{
			"count": strconv.FormatInt(count, 10),
		})
	}
	q.metrics.RecordSweep("withdrawal_expiry_sweep", count)

	failed, err := q.store.WithdrawalRequest.FailUnrecorded(q.db.WithContext(ctx), now.Add(-q.reconcileAfter), consts.ReconcileReason)
	if err != nil {
		return count, errors.Wrap(err, "fail unrecorded withdrawals")
	}
	if failed > 0 {
		q.logger.Warn("[CleanupExpired] failed withdrawals without a stored outcome", map[string]string{
			"count": strconv.FormatInt(failed, 10),
		})
		q.recordAudit(ctx, consts.AuditWithdrawalReconcile, SystemApprover, nil, map[string]string{
			"count":  strconv.FormatInt(failed, 10),
			"reason": consts.ReconcileReason,
		})
	}
	q.metrics.RecordReconciled("withdrawal_expiry_sweep", failed)

	return count + failed, nil
}

func (q *Queue) CountPending(ctx context.Context) (int64, error) {
	return q.store.WithdrawalRequest.CountPending(q.db.WithContext(ctx))
}

// recordAudit never fails the caller: the state change it describes is already stored.
func (q *Queue) recordAudit(ctx context.Context, action, actor string, w *model.WithdrawalRequest, details map[string]string) {
	entry := model.AuditLog{
		Action:  action,
		Actor:   actor,
		Details: details,
	}
	if w != nil {
		entry.TargetID = w.ID
		entry.Amount = w.Amount
		entry.Currency = w.Currency
		entry.Status = string(w.Status)
		if w.TxSignature != "" {
			if entry.Details == nil {
				entry.Details = map[string]string{}
			}
			entry.Details["tx_signature"] = w.TxSignature
		}
	}

	if err := q.auditor.Record(context.WithoutCancel(ctx), entry); err != nil {
		q.logger.Error("[Withdrawal][Audit] failed to record audit entry", map[string]string{
			"action": action,
			"actor":  actor,
			"error":  err.Error(),
		})
	}
}
