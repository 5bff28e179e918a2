package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	auditService "github.com/dwarvesf/justthetip/internal/audit"
	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/store/auditlog"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/view"
)

const maxListLimit = 200

type handler struct {
	auditor auditService.IAuditor
	logger  *logger.Logger
}

func New(auditor auditService.IAuditor, logger *logger.Logger) IHandler {
	return &handler{
		auditor: auditor,
		logger:  logger,
	}
}

// ListAuditLogs godoc
// @Summary List audit log entries
// @Description Newest first, filtered by actor and action
// @id listAuditLogs
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param actor query string false "Actor id"
// @Param action query string false "Action name"
// @Param limit query int false "Max entries (default 50, max 200)"
// @Success 200 {object} view.Response[[]model.AuditLog]
// @Failure 400 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /audit [get]
func (h *handler) ListAuditLogs(c *gin.Context) {
	filter := auditlog.ListFilter{
		Actor:  c.Query("actor"),
		Action: c.Query("action"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New("limit must be a positive integer"), nil, "invalid request"))
			return
		}
		filter.Limit = min(limit, maxListLimit)
	}

	entries, err := h.auditor.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("[ListAuditLogs][List]", map[string]string{
			"actor":  filter.Actor,
			"action": filter.Action,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to list audit logs"))
		return
	}
	if entries == nil {
		entries = []*model.AuditLog{}
	}

	c.JSON(http.StatusOK, view.CreateResponse(entries, nil, nil, ""))
}
