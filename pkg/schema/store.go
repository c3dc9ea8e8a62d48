package schema

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrIndicatorNotFound is returned when a snapshot is requested for an
// indicator that does not exist.
var ErrIndicatorNotFound = errors.New("indicator not found")

// SchemaStore provides read access to the schema registry.
type SchemaStore struct {
	db *gorm.DB
}

// NewSchemaStore creates a new SchemaStore.
func NewSchemaStore(db *gorm.DB) *SchemaStore {
	return &SchemaStore{db: db}
}

// AutoMigrate creates or updates the registry tables.
func (s *SchemaStore) AutoMigrate() error {
	for _, model := range []any{&Indicator{}, &Instrument{}, &Section{}, &Question{}, &Branch{}} {
		if err := s.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate schema registry: %w", err)
		}
	}
	return nil
}

// ListIndicators returns all indicators ordered by id.
func (s *SchemaStore) ListIndicators() ([]Indicator, error) {
	var indicators []Indicator
	if err := s.db.Order("indicator_id ASC").Find(&indicators).Error; err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	return indicators, nil
}

// ListBranches returns all branches ordered by id.
func (s *SchemaStore) ListBranches() ([]Branch, error) {
	var branches []Branch
	if err := s.db.Order("branch_id ASC").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// Snapshot loads the full schema tree for one indicator in three batched
// queries (instruments, sections, questions) and returns an immutable
// in-memory snapshot. Returns ErrIndicatorNotFound for an unknown indicator.
func (s *SchemaStore) Snapshot(indicatorID string) (*IndicatorSnapshot, error) {
	var indicator Indicator
	err := s.db.Where("indicator_id = ?", indicatorID).First(&indicator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIndicatorNotFound
		}
		return nil, fmt.Errorf("load indicator %s: %w", indicatorID, err)
	}

	var instruments []Instrument
	err = s.db.Where("indicator_id = ?", indicatorID).
		Order("instrument_id ASC").
		Find(&instruments).Error
	if err != nil {
		return nil, fmt.Errorf("load instruments for %s: %w", indicatorID, err)
	}

	instrumentIDs := make([]string, 0, len(instruments))
	for _, in := range instruments {
		instrumentIDs = append(instrumentIDs, in.InstrumentID)
	}

	var sections []Section
	if len(instrumentIDs) > 0 {
		err = s.db.Where("instrument_id IN ?", instrumentIDs).
			Order("section_id ASC").
			Find(&sections).Error
		if err != nil {
			return nil, fmt.Errorf("load sections for %s: %w", indicatorID, err)
		}
	}

	sectionIDs := make([]string, 0, len(sections))
	for _, sec := range sections {
		sectionIDs = append(sectionIDs, sec.SectionID)
	}

	var questions []Question
	if len(sectionIDs) > 0 {
		err = s.db.Where("section_id IN ?", sectionIDs).
			Order("question_id ASC").
			Find(&questions).Error
		if err != nil {
			return nil, fmt.Errorf("load questions for %s: %w", indicatorID, err)
		}
	}

	questionsBySection := make(map[string][]Question)
	for _, q := range questions {
		questionsBySection[q.SectionID] = append(questionsBySection[q.SectionID], q)
	}

	sectionsByInstrument := make(map[string][]SectionNode)
	for _, sec := range sections {
		sectionsByInstrument[sec.InstrumentID] = append(sectionsByInstrument[sec.InstrumentID], SectionNode{
			Section:   sec,
			Questions: questionsBySection[sec.SectionID],
		})
	}

	snapshot := &IndicatorSnapshot{Indicator: indicator}
	for _, in := range instruments {
		snapshot.Instruments = append(snapshot.Instruments, InstrumentNode{
			Instrument: in,
			Sections:   sectionsByInstrument[in.InstrumentID],
		})
	}
	snapshot.buildIndexes()
	return snapshot, nil
}
