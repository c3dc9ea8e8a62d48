package record

import (
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"
)

// Sentinel errors surfaced to HTTP handlers and callers.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a concurrent status update won the race; the caller
	// should re-read the record and retry.
	ErrConflict = errors.New("record version conflict")
	// ErrDuplicateCycle means a record already exists for the same owner,
	// indicator, and year.
	ErrDuplicateCycle = errors.New("record already exists for this owner, indicator, and year")
	// ErrInvalidStatus means the status value is outside the defined enum.
	ErrInvalidStatus = errors.New("invalid record status")
)

// createAttempts bounds retries on record id collisions.
const createAttempts = 5

// RecordStore provides CRUD and status transition operations for records.
type RecordStore struct {
	db *gorm.DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// AutoMigrate creates or updates the records table.
func (s *RecordStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Record{})
}

// newRecordID generates a human-readable record id in the historical
// "REC" + 7 digits format.
func newRecordID() string {
	return fmt.Sprintf("REC%d", 1000000+rand.Intn(9000000))
}

// Create inserts a new record with status ToBeReviewed. At most one record
// may exist per (owner, indicator, year); violating that returns
// ErrDuplicateCycle. Record id collisions are retried a few times.
func (s *RecordStore) Create(ownerID, indicatorID string, year int) (*Record, error) {
	existing, err := s.Find(ownerID, indicatorID, year)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCycle
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		record := &Record{
			RecordID:    newRecordID(),
			OwnerID:     ownerID,
			IndicatorID: indicatorID,
			Year:        year,
			Status:      StatusToBeReviewed,
			Version:     1,
		}
		if err := s.db.Create(record).Error; err != nil {
			lastErr = err
			// The cycle unique index may have raced with another submitter.
			if again, findErr := s.Find(ownerID, indicatorID, year); findErr == nil && again != nil {
				return nil, ErrDuplicateCycle
			}
			continue
		}
		return record, nil
	}
	return nil, fmt.Errorf("create record: %w", lastErr)
}

// Get retrieves a record by id. Returns ErrNotFound when absent.
func (s *RecordStore) Get(recordID string) (*Record, error) {
	var record Record
	err := s.db.Where("record_id = ?", recordID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record %s: %w", recordID, err)
	}
	return &record, nil
}

// Find retrieves the record for one owner/indicator/year cycle.
// Returns ErrNotFound when absent.
func (s *RecordStore) Find(ownerID, indicatorID string, year int) (*Record, error) {
	var record Record
	err := s.db.Where("owner_id = ? AND indicator_id = ? AND year = ?",
		ownerID, indicatorID, year).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return &record, nil
}

// ListByIndicatorYear returns all records for one indicator and year.
func (s *RecordStore) ListByIndicatorYear(indicatorID string, year int) ([]Record, error) {
	var records []Record
	err := s.db.Where("indicator_id = ? AND year = ?", indicatorID, year).
		Order("record_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// SetStatus updates a record's status. When expectedVersion is non-zero the
// update is a compare-and-swap: it only applies if the stored version still
// matches, and returns ErrConflict otherwise. expectedVersion zero requests
// an unconditional overwrite. The stored version increments either way.
func (s *RecordStore) SetStatus(recordID string, status Status, expectedVersion int64) (*Record, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	query := s.db.Model(&Record{}).Where("record_id = ?", recordID)
	if expectedVersion > 0 {
		query = query.Where("version = ?", expectedVersion)
	}
	result := query.Updates(map[string]any{
		"status":  status,
		"version": gorm.Expr("version + 1"),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("set status for %s: %w", recordID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing record from a lost race.
		if _, err := s.Get(recordID); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return s.Get(recordID)
}
