package multisig

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/apperrors"
	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/model"
	multisigService "github.com/dwarvesf/justthetip/internal/multisig"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/validation"
	"github.com/dwarvesf/justthetip/internal/view"
)

const (
	maxMemoLength   = 200
	maxReasonLength = 500
)

type CreateMultiSigRequest struct {
	Signers   []string `json:"signers" binding:"required,min=1,max=20,dive,required"`
	Threshold int      `json:"threshold" binding:"required,min=1"`
}

type CreateProposalRequest struct {
	ProposerID string `json:"proposer_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Currency   string `json:"currency" binding:"required,oneof=SOL USDC ETH BTC"`
	Recipient  string `json:"recipient" binding:"required"`
	Memo       string `json:"memo"`
}

type ApproveProposalRequest struct {
	SignerID     string `json:"signer_id" binding:"required"`
	SignerWallet string `json:"signer_wallet" binding:"required"`
}

type RejectProposalRequest struct {
	SignerID string `json:"signer_id" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type RequiresMultiSigResponse struct {
	Currency         string `json:"currency"`
	Amount           string `json:"amount"`
	RequiresMultiSig bool   `json:"requires_multisig"`
}

type handler struct {
	manager multisigService.IManager
	logger  *logger.Logger
}

func New(manager multisigService.IManager, logger *logger.Logger) IHandler {
	return &handler{
		manager: manager,
		logger:  logger,
	}
}

// CreateMultiSig godoc
// @Summary Create a multisig vault
// @id createMultiSig
// @Tags MultiSig
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMultiSigRequest true "Signer wallets and threshold"
// @Success 201 {object} view.Response[model.MultiSigWallet]
// @Failure 400 {object} view.ErrorResponse
// @Failure 422 {object} view.ErrorResponse
// @Router /multisig [post]
func (h *handler) CreateMultiSig(c *gin.Context) {
	var req CreateMultiSigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[CreateMultiSig][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	createdBy := c.GetString(consts.ContextKeyActor)
	wallet, err := h.manager.CreateMultiSig(c.Request.Context(), req.Signers, req.Threshold, createdBy)
	if err != nil {
		h.logger.Error("[CreateMultiSig][CreateMultiSig]", map[string]string{
			"created_by": createdBy,
			"error":      err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse[any](nil, err, req, "failed to create multisig"))
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse(wallet, nil, nil, ""))
}

// CreateProposal godoc
// @Summary Propose a transfer from a multisig vault
// @Description The proposer counts as the first approval
// @id createProposal
// @Tags MultiSig
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-ID header string true "Discord user id"
// @Param address path string true "Vault address"
// @Param request body CreateProposalRequest true "Transfer to authorize"
// @Success 201 {object} view.Response[model.MultiSigProposal]
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /multisig/{address}/proposals [post]
func (h *handler) CreateProposal(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	proposer := validation.ValidateUserID(req.ProposerID)
	if !proposer.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(proposer.Error), req, "invalid request"))
		return
	}
	amount := validation.ValidateAmount(req.Amount, decimal.Zero)
	if !amount.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.Wrap(apperrors.ErrInvalidAmount, amount.Error), req, "invalid request"))
		return
	}
	memo := validation.ValidateUserInput(req.Memo, maxMemoLength)
	if !memo.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(memo.Error), req, "invalid request"))
		return
	}

	decimals, _ := consts.DecimalsOf(req.Currency)
	if !validation.FitsDecimals(amount.Sanitized, decimals) {
		err := errors.Wrapf(apperrors.ErrInvalidAmount, "%s supports at most %d decimal places", req.Currency, decimals)
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	data := model.TransactionData{
		Amount:    model.NewWeb3BigIntFromDecimal(amount.Sanitized, decimals).Value,
		Currency:  req.Currency,
		Recipient: req.Recipient,
		Memo:      memo.Sanitized,
	}

	address := c.Param("address")
	proposal, err := h.manager.CreateProposal(c.Request.Context(), address, data, proposer.Sanitized)
	if err != nil {
		h.logger.Error("[CreateProposal][CreateProposal]", map[string]string{
			"multisig_address": address,
			"proposer_id":      proposer.Sanitized,
			"error":            err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse(proposal, err, nil, "failed to create proposal"))
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse(proposal, nil, nil, ""))
}

// ApproveProposal godoc
// @Summary Approve a multisig proposal
// @Description Executes the transfer once the vault threshold is reached
// @id approveProposal
// @Tags MultiSig
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-ID header string true "Discord user id"
// @Param id path string true "Proposal id"
// @Param request body ApproveProposalRequest true "Signer"
// @Success 200 {object} view.Response[model.MultiSigProposal]
// @Failure 403 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /multisig/proposals/{id}/approve [post]
func (h *handler) ApproveProposal(c *gin.Context) {
	var req ApproveProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	id := c.Param("id")
	proposal, err := h.manager.ApproveProposal(c.Request.Context(), id, req.SignerID, req.SignerWallet)
	if err != nil {
		h.logger.Error("[ApproveProposal][ApproveProposal]", map[string]string{
			"id":        id,
			"signer_id": req.SignerID,
			"error":     err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse(proposal, err, nil, "failed to approve proposal"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(proposal, nil, nil, ""))
}

// RejectProposal godoc
// @Summary Reject a multisig proposal
// @id rejectProposal
// @Tags MultiSig
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-ID header string true "Discord user id"
// @Param id path string true "Proposal id"
// @Param request body RejectProposalRequest true "Signer and reason"
// @Success 200 {object} view.Response[model.MultiSigProposal]
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /multisig/proposals/{id}/reject [post]
func (h *handler) RejectProposal(c *gin.Context) {
	var req RejectProposalRequest
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
	proposal, err := h.manager.RejectProposal(c.Request.Context(), id, req.SignerID, reason.Sanitized)
	if err != nil {
		h.logger.Error("[RejectProposal][RejectProposal]", map[string]string{
			"id":        id,
			"signer_id": req.SignerID,
			"error":     err.Error(),
		})
		c.JSON(view.StatusFromError(err), view.CreateResponse(proposal, err, nil, "failed to reject proposal"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(proposal, nil, nil, ""))
}

// GetPendingProposals godoc
// @Summary List pending proposals
// @Description Newest first, optionally for one vault
// @id getPendingProposals
// @Tags MultiSig
// @Produce json
// @Security BearerAuth
// @Param address query string false "Vault address"
// @Success 200 {object} view.Response[[]model.MultiSigProposal]
// @Router /multisig/proposals/pending [get]
func (h *handler) GetPendingProposals(c *gin.Context) {
	proposals, err := h.manager.GetPendingProposals(c.Request.Context(), c.Query("address"))
	if err != nil {
		h.logger.Error("[GetPendingProposals][GetPendingProposals]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to list proposals"))
		return
	}
	if proposals == nil {
		proposals = []*model.MultiSigProposal{}
	}

	c.JSON(http.StatusOK, view.CreateResponse(proposals, nil, nil, ""))
}

// RequiresMultiSig godoc
// @Summary Check whether a transfer needs multisig approval
// @id requiresMultiSig
// @Tags MultiSig
// @Produce json
// @Security BearerAuth
// @Param currency query string true "Currency"
// @Param amount query string true "Amount in human units"
// @Success 200 {object} view.Response[RequiresMultiSigResponse]
// @Failure 400 {object} view.ErrorResponse
// @Router /multisig/requires [get]
func (h *handler) RequiresMultiSig(c *gin.Context) {
	currency := c.Query("currency")
	if _, ok := consts.ChainOf(currency); !ok {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.Wrap(apperrors.ErrUnsupportedCurrency, currency), nil, "invalid request"))
		return
	}
	amount := validation.ValidateAmount(c.Query("amount"), decimal.Zero)
	if !amount.Valid {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(amount.Error), nil, "invalid request"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(RequiresMultiSigResponse{
		Currency:         currency,
		Amount:           amount.Sanitized.String(),
		RequiresMultiSig: h.manager.RequiresMultiSig(currency, amount.Sanitized),
	}, nil, nil, ""))
}
