package model

import "time"

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID        string            `json:"id" gorm:"column:id;type:varchar(36);primaryKey"`
	Action    string            `json:"action" gorm:"column:action;type:varchar(64);not null;index"`
	Actor     string            `json:"actor" gorm:"column:actor;type:varchar(64);not null;index"`
	TargetID  string            `json:"target_id,omitempty" gorm:"column:target_id;type:varchar(64)"`
	Amount    string            `json:"amount,omitempty" gorm:"column:amount;type:varchar(80)"`
	Currency  string            `json:"currency,omitempty" gorm:"column:currency;type:varchar(10)"`
	Status    string            `json:"status,omitempty" gorm:"column:status;type:varchar(20)"`
	Details   map[string]string `json:"details,omitempty" gorm:"column:details;type:jsonb;serializer:json"`
	CreatedAt time.Time         `json:"timestamp" gorm:"column:created_at;not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
