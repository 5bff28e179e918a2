package auditlog

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

type ListFilter struct {
	Actor  string
	Action string
	Limit  int
}

type IStore interface {
	Create(db *gorm.DB, entry *model.AuditLog) (*model.AuditLog, error)
	List(db *gorm.DB, filter ListFilter) ([]*model.AuditLog, error)
}
