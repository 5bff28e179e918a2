package validate

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/validation"
	"github.com/dwarvesf/justthetip/internal/view"
)

type TransactionRequest struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	ToAddress   string `json:"to_address"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Memo        string `json:"memo"`
}

type handler struct {
	logger    *logger.Logger
	maxAmount decimal.Decimal
}

func New(logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	maxAmount, err := decimal.NewFromString(appConfig.Withdrawal.MaxAmount)
	if err != nil {
		maxAmount = decimal.Zero
	}

	return &handler{
		logger:    logger,
		maxAmount: maxAmount,
	}
}

// ValidateTransaction godoc
// @Summary Validate a tip or withdrawal command
// @Description Reports every violation at once and echoes the sanitized transaction when valid
// @id validateTransaction
// @Tags Validation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Raw command input"
// @Success 200 {object} view.Response[validation.TransactionResult]
// @Failure 400 {object} view.Response[validation.TransactionResult]
// @Router /validate/transaction [post]
func (h *handler) ValidateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "invalid request"))
		return
	}

	result := validation.ValidateTransaction(validation.TransactionParams{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		ToAddress:   req.ToAddress,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Memo:        req.Memo,
		MaxAmount:   h.maxAmount,
	})
	if !result.Valid {
		h.logger.Debug("[ValidateTransaction][ValidateTransaction]", map[string]string{
			"sender_id": req.SenderID,
			"errors":    strings.Join(result.Errors, "; "),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse(result, errors.New("transaction is invalid"), nil, ""))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(result, nil, nil, ""))
}
