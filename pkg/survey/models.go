// Package survey manages raw answer submissions. Answers are append-only:
// corrections are entered as new rows against the same question, branch, and
// record, preserving the audit trail, and the aggregator sums them.
package survey

import "time"

// Answer is one raw submitted datum. Value is kept as submitted text; the
// aggregator coerces non-numeric values to zero rather than rejecting rows.
type Answer struct {
	AnswerID   string    `gorm:"primaryKey;column:answer_id;type:varchar(36)" json:"answerId"`
	QuestionID string    `gorm:"column:question_id;index:idx_answers_question_branch,priority:1;not null" json:"questionId"`
	BranchID   string    `gorm:"column:branch_id;index:idx_answers_question_branch,priority:2;not null" json:"branchId"`
	RecordID   string    `gorm:"column:record_id;index;not null" json:"recordId"`
	Value      string    `gorm:"column:value" json:"value"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (Answer) TableName() string { return "answers" }

// AnswerRow is an answer joined with its question's sub-tag and section,
// the shape the scoring pipeline consumes.
type AnswerRow struct {
	AnswerID   string `json:"answerId"`
	QuestionID string `json:"questionId"`
	BranchID   string `json:"branchId"`
	RecordID   string `json:"recordId"`
	SectionID  string `json:"sectionId"`
	SubTag     string `json:"subTag"`
	Value      string `json:"value"`
}
