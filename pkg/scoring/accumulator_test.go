package scoring

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sustainhq/scorecard/pkg/formula"
	"github.com/sustainhq/scorecard/pkg/schema"
)

func testTables() SymbolTables {
	return SymbolTables{
		"BR1": {"A1": 3, "A2": 4, "B1": 10},
		"BR2": {"A1": 5},
	}
}

func TestAccumulator_Score(t *testing.T) {
	acc := NewAccumulator(nil)
	formulas := []formula.Formula{
		{FormulaID: "F1", SectionID: "SEC01", Expression: "A1+A2"},
		{FormulaID: "F2", SectionID: "SEC02", Expression: "B1*2"},
	}

	totals := acc.Score(formulas, testTables(), nil)
	require.Len(t, totals, 2)

	assert.Equal(t, "BR1", totals[0].BranchID)
	assert.Equal(t, 27.0, totals[0].Total)
	require.Len(t, totals[0].Sections, 2)
	assert.Equal(t, 7.0, totals[0].Sections[0].Score)
	assert.Equal(t, 20.0, totals[0].Sections[1].Score)

	// BR2 never answered A2 or B1; those tokens read as zero.
	assert.Equal(t, "BR2", totals[1].BranchID)
	assert.Equal(t, 5.0, totals[1].Total)
}

func TestAccumulator_DuplicateFormulaScoredOnce(t *testing.T) {
	acc := NewAccumulator(nil)
	formulas := []formula.Formula{
		{FormulaID: "F1", SectionID: "SEC01", Expression: "A1"},
		{FormulaID: "F1", SectionID: "SEC01", Expression: "A1"},
	}

	totals := acc.Score(formulas, testTables(), nil)
	require.Len(t, totals, 2)
	assert.Equal(t, 3.0, totals[0].Total)
	assert.Len(t, totals[0].Sections, 1)
}

func TestAccumulator_BrokenFormulaScoresZero(t *testing.T) {
	acc := NewAccumulator(nil)
	formulas := []formula.Formula{
		{FormulaID: "F1", SectionID: "SEC01", Expression: "A1+"},
		{FormulaID: "F2", SectionID: "SEC01", Expression: "A1/(A2-4)"},
		{FormulaID: "F3", SectionID: "SEC02", Expression: "B1"},
	}

	totals := acc.Score(formulas, testTables(), nil)
	require.Len(t, totals, 2)

	br1 := totals[0]
	require.Len(t, br1.Sections, 3)
	assert.Equal(t, 0.0, br1.Sections[0].Score) // parse failure
	assert.Equal(t, 0.0, br1.Sections[1].Score) // division by zero
	assert.Equal(t, 10.0, br1.Sections[2].Score)
	assert.Equal(t, 10.0, br1.Total)
}

func TestAccumulator_SectionScopedTokens(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := schema.NewSchemaStore(db)
	require.NoError(t, store.AutoMigrate())

	require.NoError(t, db.Create(&schema.Indicator{IndicatorID: "IND01", Title: "Clean Energy"}).Error)
	require.NoError(t, db.Create(&schema.Instrument{InstrumentID: "INS01", IndicatorID: "IND01"}).Error)
	require.NoError(t, db.Create(&schema.Section{SectionID: "SEC01", InstrumentID: "INS01"}).Error)
	require.NoError(t, db.Create(&schema.Section{SectionID: "SEC02", InstrumentID: "INS01"}).Error)
	require.NoError(t, db.Create(&schema.Question{QuestionID: "Q1", SectionID: "SEC01", SubTag: "A1"}).Error)
	require.NoError(t, db.Create(&schema.Question{QuestionID: "Q2", SectionID: "SEC02", SubTag: "B1"}).Error)

	snap, err := store.Snapshot("IND01")
	require.NoError(t, err)

	acc := NewAccumulator(nil)
	// B1 belongs to SEC02, so a SEC01 formula must read it as zero.
	formulas := []formula.Formula{
		{FormulaID: "F1", SectionID: "SEC01", Expression: "A1+B1"},
	}

	totals := acc.Score(formulas, SymbolTables{"BR1": {"A1": 3, "B1": 10}}, snap)
	require.Len(t, totals, 1)
	assert.Equal(t, 3.0, totals[0].Total)
}
