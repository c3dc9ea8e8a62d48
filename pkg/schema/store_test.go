package schema

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSchemaStore(t *testing.T) *SchemaStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewSchemaStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

// seedRegistry loads a small two-instrument tree for IND01 plus two branches.
func seedRegistry(t *testing.T, store *SchemaStore) {
	t.Helper()
	db := store.db

	require.NoError(t, db.Create(&Indicator{IndicatorID: "IND01", Title: "Clean Energy"}).Error)
	require.NoError(t, db.Create(&Instrument{InstrumentID: "INS01", IndicatorID: "IND01", Subtitle: "Energy use"}).Error)
	require.NoError(t, db.Create(&Instrument{InstrumentID: "INS02", IndicatorID: "IND01", Subtitle: "Renewables"}).Error)

	require.NoError(t, db.Create(&Section{SectionID: "SEC01", InstrumentID: "INS01", Content: "Consumption"}).Error)
	require.NoError(t, db.Create(&Section{SectionID: "SEC02", InstrumentID: "INS02", Content: "Generation"}).Error)

	questions := []Question{
		{QuestionID: "Q1", SectionID: "SEC01", Prompt: "kWh purchased", SubTag: "A1"},
		{QuestionID: "Q2", SectionID: "SEC01", Prompt: "kWh consumed", SubTag: "A2"},
		{QuestionID: "Q3", SectionID: "SEC02", Prompt: "kWh generated", SubTag: "B1"},
	}
	require.NoError(t, db.Create(&questions).Error)

	branches := []Branch{
		{BranchID: "BR1", Name: "North"},
		{BranchID: "BR2", Name: "South"},
	}
	require.NoError(t, db.Create(&branches).Error)
}

func TestSchemaStore_Snapshot(t *testing.T) {
	store := newTestSchemaStore(t)
	seedRegistry(t, store)

	snap, err := store.Snapshot("IND01")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "Clean Energy", snap.Indicator.Title)
	require.Len(t, snap.Instruments, 2)
	require.Len(t, snap.Instruments[0].Sections, 1)
	assert.Equal(t, "Consumption", snap.Instruments[0].Sections[0].Content)
	assert.Len(t, snap.Instruments[0].Sections[0].Questions, 2)
	assert.Equal(t, 3, snap.QuestionCount())
}

func TestSchemaStore_SnapshotNotFound(t *testing.T) {
	store := newTestSchemaStore(t)
	seedRegistry(t, store)

	_, err := store.Snapshot("IND99")
	assert.ErrorIs(t, err, ErrIndicatorNotFound)
}

func TestSnapshot_SectionLookup(t *testing.T) {
	store := newTestSchemaStore(t)
	seedRegistry(t, store)

	snap, err := store.Snapshot("IND01")
	require.NoError(t, err)

	sec := snap.Section("SEC01")
	require.NotNil(t, sec)
	assert.Equal(t, "Consumption", sec.Content)
	assert.Nil(t, snap.Section("SEC99"))
	assert.Len(t, snap.Sections(), 2)
}

func TestSnapshot_SubTags(t *testing.T) {
	store := newTestSchemaStore(t)
	seedRegistry(t, store)

	snap, err := store.Snapshot("IND01")
	require.NoError(t, err)

	tags := snap.SubTags("SEC01")
	assert.True(t, tags.Contains("A1"))
	assert.True(t, tags.Contains("A2"))
	assert.False(t, tags.Contains("B1"))

	// Unknown section yields an empty set, not nil.
	assert.Equal(t, 0, snap.SubTags("SEC99").Cardinality())
}

func TestSchemaStore_ListBranches(t *testing.T) {
	store := newTestSchemaStore(t)
	seedRegistry(t, store)

	branches, err := store.ListBranches()
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "North", branches[0].Name)

	indicators, err := store.ListIndicators()
	require.NoError(t, err)
	assert.Len(t, indicators, 1)
}
