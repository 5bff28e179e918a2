package auditlog

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

const defaultListLimit = 50

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, entry *model.AuditLog) (*model.AuditLog, error) {
	return entry, db.Create(entry).Error
}

func (s *store) List(db *gorm.DB, filter ListFilter) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog
	q := db.Model(&model.AuditLog{})
	if filter.Actor != "" {
		q = q.Where("actor = ?", filter.Actor)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return entries, q.Order("created_at desc").Limit(limit).Find(&entries).Error
}
