package withdrawal

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/apperrors"
	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/validation"
	"github.com/dwarvesf/justthetip/internal/view"
	withdrawalService "github.com/dwarvesf/justthetip/internal/withdrawal"
)

const (
	maxReasonLength   = 500
	defaultListLimit  = 20
	maxListLimit      = 100
	maxUsernameLength = 100
)

type WithdrawalRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Username  string `json:"username"`
	ToAddress string `json:"to_address" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Currency  string `json:"currency" binding:"required,oneof=SOL USDC ETH BTC"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type handler struct {
	queue     withdrawalService.IQueue
	logger    *logger.Logger
	maxAmount decimal.Decimal
}

func New(queue withdrawalService.IQueue, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	maxAmount, err := decimal.NewFromString(appConfig.Withdrawal.MaxAmount)
	if err != nil {
		logger.Warn("[withdrawal.New] invalid WITHDRAWAL_MAX_AMOUNT, amounts are unbounded", map[string]string{
			"value": appConfig.Withdrawal.MaxAmount,
		})
		maxAmount = decimal.Zero
	}

	return &handler{
		queue:     queue,
		logger:    logger,
		maxAmount: maxAmount,
	}
}

// RequestWithdrawal godoc
// @Summary Request a withdrawal
// @Description Records a withdrawal. Small amounts execute immediately, larger ones wait for an admin.
// @id requestWithdrawal
// @Tags Withdrawal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-ID header string true "Discord user id"
// @Param request body WithdrawalRequest true "Withdrawal request"
// @Success 201 {object} view.Response[model.WithdrawalRequest]
// @Failure 400 {object} view.ErrorResponse
// @Failure 422 {object} view.ErrorResponse
// @Failure 429 {object} view.ErrorResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /withdrawals [post]
func (h *handler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[RequestWithdrawal][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	userID := validation.ValidateUserID(req.UserID)
	if !userID.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(userID.Error), req, "invalid request"))
		return
	}
	if header := c.GetHeader(consts.HeaderUserID); header != "" && header != userID.Sanitized {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New("user_id does not match X-User-ID"), req, "invalid request"))
		return
	}
	username := validation.ValidateUserInput(req.Username, maxUsernameLength)
	if !username.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(username.Error), req, "invalid request"))
		return
	}
	amount := validation.ValidateAmount(req.Amount, h.maxAmount)
	if !amount.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.Wrap(apperrors.ErrInvalidAmount, amount.Error), req, "invalid request"))
		return
	}

	withdrawal, err := h.queue.RequestWithdrawal(c.Request.Context(), userID.Sanitized, username.Sanitized, req.ToAddress, amount.Sanitized, req.Currency)
	if err != nil {
		h.logger.Error("[RequestWithdrawal][RequestWithdrawal]", map[string]string{
			"user_id": userID.Sanitized,
			"error":   err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse(withdrawal, err, nil, "failed to request withdrawal"))
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse(withdrawal, nil, nil, ""))
}

// GetPendingWithdrawals godoc
// @Summary List pending withdrawals
// @Description Oldest first
// @id getPendingWithdrawals
// @Tags Withdrawal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.Response[[]model.WithdrawalRequest]
// @Failure 500 {object} view.ErrorResponse
// @Router /withdrawals/pending [get]
func (h *handler) GetPendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.queue.GetPendingWithdrawals(c.Request.Context())
	if err != nil {
		h.logger.Error("[GetPendingWithdrawals][GetPendingWithdrawals]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to list pending withdrawals"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(nonNil(withdrawals), nil, nil, ""))
}

// ApproveWithdrawal godoc
// @Summary Approve a pending withdrawal
// @Description Claims the withdrawal for the calling admin and executes it
// @id approveWithdrawal
// @Tags Withdrawal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Withdrawal id"
// @Success 200 {object} view.Response[model.WithdrawalRequest]
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /withdrawals/{id}/approve [post]
func (h *handler) ApproveWithdrawal(c *gin.Context) {
	id := c.Param("id")
	adminID := c.GetString(consts.ContextKeyActor)

	withdrawal, err := h.queue.ApproveWithdrawal(c.Request.Context(), id, adminID)
	if err != nil {
		h.logger.Error("[ApproveWithdrawal][ApproveWithdrawal]", map[string]string{
			"id":       id,
			"admin_id": adminID,
			"error":    err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse(withdrawal, err, nil, "failed to approve withdrawal"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(withdrawal, nil, nil, ""))
}

// RejectWithdrawal godoc
// @Summary Reject a pending withdrawal
// @id rejectWithdrawal
// @Tags Withdrawal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Withdrawal id"
// @Param request body RejectRequest true "Rejection reason"
// @Success 200 {object} view.Response[model.WithdrawalRequest]
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /withdrawals/{id}/reject [post]
func (h *handler) RejectWithdrawal(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	reason := validation.ValidateUserInput(req.Reason, maxReasonLength)
	if !reason.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(reason.Error), req, "invalid request"))
		return
	}

	id := c.Param("id")
	adminID := c.GetString(consts.ContextKeyActor)
	withdrawal, err := h.queue.RejectWithdrawal(c.Request.Context(), id, adminID, reason.Sanitized)
	if err != nil {
		h.logger.Error("[RejectWithdrawal][RejectWithdrawal]", map[string]string{
			"id":       id,
			"admin_id": adminID,
			"error":    err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse(withdrawal, err, nil, "failed to reject withdrawal"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(withdrawal, nil, nil, ""))
}

// GetUserWithdrawals godoc
// @Summary List a user's withdrawals
// @Description Newest first
// @id getUserWithdrawals
// @Tags Withdrawal
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Discord user id"
// @Param limit query int false "Max items (default 20, max 100)"
// @Success 200 {object} view.Response[[]model.WithdrawalRequest]
// @Failure 400 {object} view.ErrorResponse
// @Router /users/{user_id}/withdrawals [get]
func (h *handler) GetUserWithdrawals(c *gin.Context) {
	userID := validation.ValidateUserID(c.Param("user_id"))
	if !userID.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(userID.Error), nil, "invalid request"))
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New("limit must be a positive integer"), nil, "invalid request"))
			return
		}
		limit = min(n, maxListLimit)
	}

	withdrawals, err := h.queue.GetUserWithdrawals(c.Request.Context(), userID.Sanitized, limit)
	if err != nil {
		h.logger.Error("[GetUserWithdrawals][GetUserWithdrawals]", map[string]string{
			"user_id": userID.Sanitized,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to list withdrawals"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(nonNil(withdrawals), nil, nil, ""))
}

func nonNil(withdrawals []*model.WithdrawalRequest) []*model.WithdrawalRequest {
	if withdrawals == nil {
		return []*model.WithdrawalRequest{}
	}
	return withdrawals
}
