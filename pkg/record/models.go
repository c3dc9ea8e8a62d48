// Package record manages submission records and their review lifecycle.
// A record is one submission cycle for one owner, indicator, and year; its
// status transition is the gate that decides what downstream dashboards see.
package record

import "time"

// Status is the review status of a record, stored as a small integer.
type Status int

// Review statuses. The wire encoding is fixed: 1=ToBeReviewed,
// 2=NeedsRevision, 3=Approved.
const (
	StatusToBeReviewed  Status = 1
	StatusNeedsRevision Status = 2
	StatusApproved      Status = 3
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return s == StatusToBeReviewed || s == StatusNeedsRevision || s == StatusApproved
}

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusToBeReviewed:
		return "to-be-reviewed"
	case StatusNeedsRevision:
		return "needs-revision"
	case StatusApproved:
		return "approved"
	}
	return "unknown"
}

// Record is one logical submission cycle. Version supports optimistic
// concurrency on status updates: it increments on every SetStatus.
type Record struct {
	RecordID    string    `gorm:"primaryKey;column:record_id;type:varchar(12)" json:"recordId"`
	OwnerID     string    `gorm:"column:owner_id;uniqueIndex:idx_records_cycle,priority:1;not null" json:"ownerId"`
	IndicatorID string    `gorm:"column:indicator_id;uniqueIndex:idx_records_cycle,priority:2;not null" json:"indicatorId"`
	Year        int       `gorm:"column:year;uniqueIndex:idx_records_cycle,priority:3;not null" json:"year"`
	Status      Status    `gorm:"column:status;default:1;not null" json:"status"`
	Version     int64     `gorm:"column:version;default:1;not null" json:"version"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submittedAt"`
}

// TableName returns the GORM table name.
func (Record) TableName() string { return "records" }
