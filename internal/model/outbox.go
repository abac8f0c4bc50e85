package model

import "time"

// Outbox event written transactionally with its post; the fan-out worker
// drains it into feed_entries.
type Outbox struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	PostID      string    `gorm:"type:varchar(36);uniqueIndex"`
	AuthorID    string    `gorm:"type:varchar(36);index:idx_outbox_author"`
	Score       int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
	Status      string    `gorm:"type:varchar(16);index"` // pending, processing, done
	ProcessedAt *time.Time
	FanoutCount int64
}

func (Outbox) TableName() string { return "outbox" }

const (
	OutboxStatusPending    = "pending"
	OutboxStatusProcessing = "processing"
	OutboxStatusDone       = "done"
)
