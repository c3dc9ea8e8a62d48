package formula

import (
	"fmt"

	"gorm.io/gorm"
)

// Formula is one externally authored scoring expression for a section.
// The same formula row may be fetched redundantly once per section lookup;
// callers de-duplicate by FormulaID.
type Formula struct {
	FormulaID  string `gorm:"primaryKey;column:formula_id;type:varchar(36)" json:"formulaId"`
	SectionID  string `gorm:"column:section_id;index;not null" json:"sectionId"`
	Expression string `gorm:"column:expression;not null" json:"expression"`
}

// TableName returns the GORM table name.
func (Formula) TableName() string { return "formulas" }

// FormulaStore provides read access to authored formulas. Formulas are
// reference data managed outside the scoring core.
type FormulaStore struct {
	db *gorm.DB
}

// NewFormulaStore creates a new FormulaStore.
func NewFormulaStore(db *gorm.DB) *FormulaStore {
	return &FormulaStore{db: db}
}

// AutoMigrate creates or updates the formulas table.
func (s *FormulaStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Formula{})
}

// Create inserts a formula row. Used by seeding and admin tooling.
func (s *FormulaStore) Create(f *Formula) error {
	if err := s.db.Create(f).Error; err != nil {
		return fmt.Errorf("create formula: %w", err)
	}
	return nil
}

// GetBySection returns the formulas authored for one section, zero or more.
func (s *FormulaStore) GetBySection(sectionID string) ([]Formula, error) {
	var formulas []Formula
	err := s.db.Where("section_id = ?", sectionID).
		Order("formula_id ASC").
		Find(&formulas).Error
	if err != nil {
		return nil, fmt.Errorf("get formulas for section %s: %w", sectionID, err)
	}
	return formulas, nil
}

// ListByIndicator returns all formulas for sections under one indicator,
// resolved through the sections and instruments tables in a single query.
func (s *FormulaStore) ListByIndicator(indicatorID string) ([]Formula, error) {
	var formulas []Formula
	err := s.db.Table("formulas").
		Select("formulas.formula_id, formulas.section_id, formulas.expression").
		Joins("JOIN sections ON sections.section_id = formulas.section_id").
		Joins("JOIN instruments ON instruments.instrument_id = sections.instrument_id").
		Where("instruments.indicator_id = ?", indicatorID).
		Order("formulas.formula_id ASC").
		Scan(&formulas).Error
	if err != nil {
		return nil, fmt.Errorf("list formulas for indicator %s: %w", indicatorID, err)
	}
	return formulas, nil
}
