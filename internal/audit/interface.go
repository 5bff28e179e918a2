package audit

import (
	"context"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/store/auditlog"
)

type IAuditor interface {
	// Record appends entry to the audit log and fans it out to the audit topic.
	Record(ctx context.Context, entry model.AuditLog) error
	List(ctx context.Context, filter auditlog.ListFilter) ([]*model.AuditLog, error)
}
