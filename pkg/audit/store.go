package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditStore provides append and query operations for audit events.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// AutoMigrate creates or updates the audit_events table.
func (s *AuditStore) AutoMigrate() error {
	return s.db.AutoMigrate(&AuditEvent{})
}

// Append writes a new audit event. A missing ID is filled with a UUID.
func (s *AuditStore) Append(event *AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByRecord returns audit events for a record, newest first.
// limit <= 0 defaults to 50; limit is capped at 500.
func (s *AuditStore) ListByRecord(recordID string, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	var events []AuditEvent
	err := s.db.Where("record_id = ?", recordID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

// PurgeOlderThan deletes events older than the given number of days.
// Returns the number of rows removed.
func (s *AuditStore) PurgeOlderThan(days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("created_at < ?", cutoff).Delete(&AuditEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
