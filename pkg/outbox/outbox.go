// Package outbox persists domain events in the same database as the state
// change that produced them, then drains them to Kafka in the background.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/fruitable/pkg/db"
	"github.com/wyfcoding/fruitable/pkg/logger"
	"gorm.io/gorm"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
)

type Message struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	EventType string    `gorm:"type:varchar(100);index"`
	Key       string    `gorm:"type:varchar(255)"`
	Payload   string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Message) TableName() string { return "outbox_messages" }

type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Record serializes the event into an outbox row. When ctx carries a
// transaction opened by db.WithTx the row joins it, so the event commits or
// rolls back together with the state change that produced it.
func (m *Manager) Record(ctx context.Context, eventType, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := Message{
		ID:        uuid.New().String(),
		EventType: eventType,
		Key:       key,
		Payload:   string(payload),
		Status:    statusPending,
	}
	return db.FromContext(ctx, m.db).WithContext(ctx).Create(&msg).Error
}

func (m *Manager) Pending(ctx context.Context, limit int) ([]Message, error) {
	var messages []Message
	err := m.db.WithContext(ctx).
		Where("status = ?", statusPending).
		Order("created_at").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (m *Manager) MarkSent(ctx context.Context, id string) error {
	return m.db.WithContext(ctx).Model(&Message{}).
		Where("id = ?", id).
		Update("status", statusSent).Error
}

// Publisher pushes one serialized event to the message broker.
type Publisher func(ctx context.Context, topic, key string, payload []byte) error

// Drainer periodically ships pending outbox rows to the broker.
type Drainer struct {
	mgr      *Manager
	publish  Publisher
	topic    string
	batch    int
	interval time.Duration
}

func NewDrainer(mgr *Manager, publish Publisher, topic string, batch int, interval time.Duration) *Drainer {
	if batch <= 0 {
		batch = 100
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Drainer{mgr: mgr, publish: publish, topic: topic, batch: batch, interval: interval}
}

// Run drains until the context is cancelled. Publish failures leave the row
// pending for the next tick.
func (d *Drainer) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.drainOnce(ctx)
		}
	}
}

func (d *Drainer) drainOnce(ctx context.Context) {
	messages, err := d.mgr.Pending(ctx, d.batch)
	if err != nil {
		logger.Error(ctx, "outbox query failed", "error", err)
		return
	}
	for _, msg := range messages {
		if err := d.publish(ctx, d.topic, msg.Key, []byte(msg.Payload)); err != nil {
			logger.Warn(ctx, "outbox publish failed", "event_type", msg.EventType, "error", err)
			return
		}
		if err := d.mgr.MarkSent(ctx, msg.ID); err != nil {
			logger.Error(ctx, "outbox mark sent failed", "id", msg.ID, "error", err)
			return
		}
	}
}
