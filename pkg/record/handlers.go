package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sustainhq/scorecard/pkg/audit"
)

// createRecordRequest is the body for POST /records.
type createRecordRequest struct {
	OwnerID     string `json:"ownerId"`
	IndicatorID string `json:"indicatorId"`
	Year        int    `json:"year"`
}

// setStatusRequest is the body for PATCH /records/{id}/status.
// ExpectedVersion zero skips the optimistic concurrency check.
type setStatusRequest struct {
	Status          Status `json:"status"`
	ExpectedVersion int64  `json:"expectedVersion,omitempty"`
}

// createRecordHandler returns a handler that opens a new submission cycle.
func createRecordHandler(store *RecordStore, auditStore *audit.AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.OwnerID == "" || req.IndicatorID == "" || req.Year == 0 {
			writeError(w, http.StatusBadRequest, "ownerId, indicatorId, and year are required")
			return
		}

		record, err := store.Create(req.OwnerID, req.IndicatorID, req.Year)
		if err != nil {
			if errors.Is(err, ErrDuplicateCycle) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create record: %v", err))
			return
		}

		// Best-effort audit; the request does not fail if the write does.
		_ = auditStore.Append(&audit.AuditEvent{
			RecordID:  record.RecordID,
			EventType: audit.EventRecordCreated,
			Actor:     extractActor(r),
			NewValue:  strconv.Itoa(int(record.Status)),
		})

		writeJSON(w, http.StatusCreated, record)
	}
}

// getRecordHandler returns a handler that fetches one record by id.
func getRecordHandler(store *RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.Get(chi.URLParam(r, "recordID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get record: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

// lookupRecordHandler returns a handler that resolves a record by its
// owner/indicator/year cycle key.
func lookupRecordHandler(store *RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.URL.Query().Get("owner")
		indicatorID := r.URL.Query().Get("indicator")
		yearStr := r.URL.Query().Get("year")
		year, err := strconv.Atoi(yearStr)
		if ownerID == "" || indicatorID == "" || err != nil {
			writeError(w, http.StatusBadRequest, "owner, indicator, and numeric year query parameters are required")
			return
		}

		record, err := store.Find(ownerID, indicatorID, year)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to look up record: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

// setStatusHandler returns a handler that transitions a record's review
// status. Rejected transitions, lost races, and unknown records map to
// distinct HTTP statuses so reviewers can react accordingly.
func setStatusHandler(store *RecordStore, machine *LifecycleMachine, auditStore *audit.AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Status == 0 {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}
		if !req.Status.Valid() {
			writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			return
		}

		current, err := store.Get(recordID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load record: %v", err))
			return
		}

		if err := machine.ValidateTransition(current.Status, req.Status); err != nil {
			var transitionErr *TransitionError
			if errors.As(err, &transitionErr) {
				writeJSON(w, http.StatusUnprocessableEntity, transitionErr)
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := store.SetStatus(recordID, req.Status, req.ExpectedVersion)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrConflict):
				writeError(w, http.StatusConflict, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to update status: %v", err))
			}
			return
		}

		_ = auditStore.Append(&audit.AuditEvent{
			RecordID:  recordID,
			EventType: audit.EventRecordStatusChanged,
			Actor:     extractActor(r),
			OldValue:  strconv.Itoa(int(current.Status)),
			NewValue:  strconv.Itoa(int(updated.Status)),
		})

		writeJSON(w, http.StatusOK, updated)
	}
}

// getHistoryHandler returns a handler that lists a record's audit trail.
func getHistoryHandler(store *RecordStore, auditStore *audit.AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")
		if _, err := store.Get(recordID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load record: %v", err))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		events, err := auditStore.ListByRecord(recordID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list history: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"recordId": recordID,
			"events":   events,
		})
	}
}

// extractActor pulls the acting principal from the request. Authentication
// policy lives outside this service; the transport forwards the identity.
func extractActor(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "anonymous"
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
