// Package schema holds the survey schema registry: the static hierarchy of
// indicators, instruments, sections, and questions, plus the branches being
// scored. The registry is externally managed reference data and is read-only
// from the scoring core's perspective.
package schema

// Indicator is a top-level sustainability goal.
type Indicator struct {
	IndicatorID string `gorm:"primaryKey;column:indicator_id;type:varchar(36)" json:"indicatorId"`
	Title       string `gorm:"column:title;not null" json:"title"`
}

// TableName returns the GORM table name.
func (Indicator) TableName() string { return "indicators" }

// Instrument is a survey instrument for one indicator.
type Instrument struct {
	InstrumentID string `gorm:"primaryKey;column:instrument_id;type:varchar(36)" json:"instrumentId"`
	IndicatorID  string `gorm:"column:indicator_id;index;not null" json:"indicatorId"`
	Subtitle     string `gorm:"column:subtitle" json:"subtitle"`
}

// TableName returns the GORM table name.
func (Instrument) TableName() string { return "instruments" }

// Section groups related questions and owns at most one scoring formula.
type Section struct {
	SectionID    string `gorm:"primaryKey;column:section_id;type:varchar(36)" json:"sectionId"`
	InstrumentID string `gorm:"column:instrument_id;index;not null" json:"instrumentId"`
	Content      string `gorm:"column:content" json:"content"`
}

// TableName returns the GORM table name.
func (Section) TableName() string { return "sections" }

// Question is one survey item. SubTag is the symbol referencing this
// question inside formula expressions (e.g. "A1").
type Question struct {
	QuestionID string `gorm:"primaryKey;column:question_id;type:varchar(36)" json:"questionId"`
	SectionID  string `gorm:"column:section_id;index;not null" json:"sectionId"`
	Prompt     string `gorm:"column:prompt" json:"prompt"`
	SubTag     string `gorm:"column:sub_tag;index;not null" json:"subTag"`
}

// TableName returns the GORM table name.
func (Question) TableName() string { return "questions" }

// Branch is an organizational unit submitting and being scored on answers.
type Branch struct {
	BranchID string `gorm:"primaryKey;column:branch_id;type:varchar(36)" json:"branchId"`
	Name     string `gorm:"column:name;not null" json:"name"`
}

// TableName returns the GORM table name.
func (Branch) TableName() string { return "branches" }
