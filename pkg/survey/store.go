package survey

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sustainhq/scorecard/pkg/record"
)

// AnswerStore provides append and query operations for raw answers.
type AnswerStore struct {
	db *gorm.DB
}

// NewAnswerStore creates a new AnswerStore.
func NewAnswerStore(db *gorm.DB) *AnswerStore {
	return &AnswerStore{db: db}
}

// AutoMigrate creates or updates the answers table.
func (s *AnswerStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Answer{})
}

// Append inserts a new answer row. Existing rows are never updated in
// place; a correction is simply another row for the same keys. A missing
// AnswerID is filled with a UUID.
func (s *AnswerStore) Append(answer *Answer) error {
	if answer.AnswerID == "" {
		answer.AnswerID = uuid.New().String()
	}
	if err := s.db.Create(answer).Error; err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// ListByRecord returns all answer rows for one record, joined with their
// question sub-tags and sections.
func (s *AnswerStore) ListByRecord(recordID string) ([]AnswerRow, error) {
	var rows []AnswerRow
	err := s.db.Table("answers").
		Select(`answers.answer_id, answers.question_id, answers.branch_id,
			answers.record_id, answers.value, questions.sub_tag, questions.section_id`).
		Joins("JOIN questions ON questions.question_id = answers.question_id").
		Where("answers.record_id = ?", recordID).
		Order("answers.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list answers for record %s: %w", recordID, err)
	}
	return rows, nil
}

// ListByIndicatorYear returns answer rows across all records for one
// indicator and year, joined with branch and section metadata.
// statusFilter, when non-nil, restricts rows to records in that review
// status; dashboards pass Approved here so unreviewed submissions stay out
// of cross-branch comparisons.
func (s *AnswerStore) ListByIndicatorYear(indicatorID string, year int, statusFilter *record.Status) ([]AnswerRow, error) {
	query := s.db.Table("answers").
		Select(`answers.answer_id, answers.question_id, answers.branch_id,
			answers.record_id, answers.value, questions.sub_tag, questions.section_id`).
		Joins("JOIN records ON records.record_id = answers.record_id").
		Joins("JOIN questions ON questions.question_id = answers.question_id").
		Where("records.indicator_id = ? AND records.year = ?", indicatorID, year)
	if statusFilter != nil {
		query = query.Where("records.status = ?", *statusFilter)
	}

	var rows []AnswerRow
	if err := query.Order("answers.created_at ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list answers for indicator %s year %d: %w", indicatorID, year, err)
	}
	return rows, nil
}
