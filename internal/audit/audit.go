package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/store"
	"github.com/dwarvesf/justthetip/internal/store/auditlog"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

// MessageWriter is the subset of *kafka.Writer the auditor publishes through.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type auditor struct {
	db     *gorm.DB
	store  *store.Store
	writer MessageWriter
	logger *logger.Logger
	now    func() time.Time
}

// New builds an auditor. writer may be nil, entries are then only persisted.
func New(db *gorm.DB, s *store.Store, writer MessageWriter, logger *logger.Logger) IAuditor {
	return &auditor{
		db:     db,
		store:  s,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// NewKafkaWriter returns nil when no broker is configured.
func NewKafkaWriter(cfg *config.AppConfig) *kafka.Writer {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
		Topic:                  cfg.Kafka.AuditTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (a *auditor) Record(ctx context.Context, entry model.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = a.now().UTC()
	}

	saved, err := a.store.AuditLog.Create(a.db.WithContext(ctx), &entry)
	if err != nil {
		a.logger.Error("[Record][CreateAuditLog] failed to persist audit entry", map[string]string{
			"action":    entry.Action,
			"actor":     entry.Actor,
			"target_id": entry.TargetID,
			"error":     err.Error(),
		})
		return errors.Wrap(err, "persist audit entry")
	}

	a.publish(ctx, saved)
	return nil
}

func (a *auditor) publish(ctx context.Context, entry *model.AuditLog) {
	if a.writer == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		a.logger.Error("[Record][Publish] failed to marshal audit entry", map[string]string{
			"id":    entry.ID,
			"error": err.Error(),
		})
		return
	}

	msg := kafka.Message{
		Key:   []byte(entry.TargetID),
		Value: data,
		Time:  entry.CreatedAt,
	}
	if err := a.writer.WriteMessages(ctx, msg); err != nil {
		a.logger.Warn("[Record][Publish] failed to publish audit entry", map[string]string{
			"id":     entry.ID,
			"action": entry.Action,
			"error":  err.Error(),
		})
	}
}

func (a *auditor) List(ctx context.Context, filter auditlog.ListFilter) ([]*model.AuditLog, error) {
	entries, err := a.store.AuditLog.List(a.db.WithContext(ctx), filter)
	if err != nil {
		return nil, errors.Wrap(err, "list audit entries")
	}
	return entries, nil
}
