package survey

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sustainhq/scorecard/pkg/record"
	"github.com/sustainhq/scorecard/pkg/schema"
)

type surveyTestEnv struct {
	db      *gorm.DB
	answers *AnswerStore
	records *record.RecordStore
}

func newSurveyTestEnv(t *testing.T) *surveyTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	schemaStore := schema.NewSchemaStore(db)
	require.NoError(t, schemaStore.AutoMigrate())

	records := record.NewRecordStore(db)
	require.NoError(t, records.AutoMigrate())

	answers := NewAnswerStore(db)
	require.NoError(t, answers.AutoMigrate())

	questions := []schema.Question{
		{QuestionID: "Q1", SectionID: "SEC01", Prompt: "kWh purchased", SubTag: "A1"},
		{QuestionID: "Q2", SectionID: "SEC01", Prompt: "kWh consumed", SubTag: "A2"},
		{QuestionID: "Q3", SectionID: "SEC02", Prompt: "kWh generated", SubTag: "B1"},
	}
	require.NoError(t, db.Create(&questions).Error)

	return &surveyTestEnv{db: db, answers: answers, records: records}
}

func TestAnswerStore_AppendFillsID(t *testing.T) {
	env := newSurveyTestEnv(t)

	answer := &Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: "REC1000001", Value: "42"}
	require.NoError(t, env.answers.Append(answer))
	assert.NotEmpty(t, answer.AnswerID)
}

func TestAnswerStore_CorrectionsAreNewRows(t *testing.T) {
	env := newSurveyTestEnv(t)

	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: "REC1000001", Value: "3"}))
	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: "REC1000001", Value: "4"}))

	rows, err := env.answers.ListByRecord("REC1000001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[0].Value)
	assert.Equal(t, "4", rows[1].Value)
}

func TestAnswerStore_ListByRecordJoinsQuestions(t *testing.T) {
	env := newSurveyTestEnv(t)

	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: "REC1000001", Value: "10"}))
	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q3", BranchID: "BR1", RecordID: "REC1000001", Value: "20"}))
	// Answers against unknown questions do not survive the join.
	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q99", BranchID: "BR1", RecordID: "REC1000001", Value: "30"}))

	rows, err := env.answers.ListByRecord("REC1000001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[0].SubTag)
	assert.Equal(t, "SEC01", rows[0].SectionID)
	assert.Equal(t, "B1", rows[1].SubTag)
	assert.Equal(t, "SEC02", rows[1].SectionID)
}

func TestAnswerStore_ListByIndicatorYear(t *testing.T) {
	env := newSurveyTestEnv(t)

	north, err := env.records.Create("BR1", "IND01", 2026)
	require.NoError(t, err)
	south, err := env.records.Create("BR2", "IND01", 2026)
	require.NoError(t, err)
	lastYear, err := env.records.Create("BR1", "IND01", 2025)
	require.NoError(t, err)

	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: north.RecordID, Value: "10"}))
	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR2", RecordID: south.RecordID, Value: "20"}))
	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: lastYear.RecordID, Value: "99"}))

	rows, err := env.answers.ListByIndicatorYear("IND01", 2026, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "99", row.Value)
	}
}

func TestAnswerStore_ListByIndicatorYearStatusFilter(t *testing.T) {
	env := newSurveyTestEnv(t)

	north, err := env.records.Create("BR1", "IND01", 2026)
	require.NoError(t, err)
	south, err := env.records.Create("BR2", "IND01", 2026)
	require.NoError(t, err)

	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR1", RecordID: north.RecordID, Value: "10"}))
	require.NoError(t, env.answers.Append(&Answer{QuestionID: "Q1", BranchID: "BR2", RecordID: south.RecordID, Value: "20"}))

	_, err = env.records.SetStatus(north.RecordID, record.StatusApproved, north.Version)
	require.NoError(t, err)

	approved := record.StatusApproved
	rows, err := env.answers.ListByIndicatorYear("IND01", 2026, &approved)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BR1", rows[0].BranchID)
}

func TestAnswerStore_ListByIndicatorYearStorageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM .answers.").WillReturnError(assert.AnError)

	store := NewAnswerStore(db)
	_, err = store.ListByIndicatorYear("IND01", 2026, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list answers for indicator IND01 year 2026")
}
