// Package audit provides an append-only audit trail for record status
// changes and answer corrections.
package audit

import "time"

// Event types emitted by the core.
const (
	EventRecordCreated       = "record.created"
	EventRecordStatusChanged = "record.status.changed"
	EventAnswerAppended      = "answer.appended"
)

// AuditEvent is an immutable audit log entry. Events are never updated or
// deleted except by the retention sweep.
type AuditEvent struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	RecordID  string    `gorm:"column:record_id;index:idx_audit_record_time,priority:1" json:"recordId"`
	EventType string    `gorm:"column:event_type;index;not null" json:"eventType"`
	Actor     string    `gorm:"column:actor" json:"actor,omitempty"`
	OldValue  string    `gorm:"column:old_value" json:"oldValue,omitempty"`
	NewValue  string    `gorm:"column:new_value" json:"newValue,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_audit_record_time,priority:2;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (AuditEvent) TableName() string { return "audit_events" }
