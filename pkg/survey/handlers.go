package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sustainhq/scorecard/pkg/audit"
	"github.com/sustainhq/scorecard/pkg/record"
)

// submitAnswerRequest is the body for POST /answers.
type submitAnswerRequest struct {
	RecordID   string `json:"recordId"`
	QuestionID string `json:"questionId"`
	BranchID   string `json:"branchId"`
	Value      string `json:"value"`
}

// submitAnswerHandler returns a handler that appends one answer row.
// Corrections reuse this path: a new row for the same question and branch
// is summed with the old one at aggregation time.
func submitAnswerHandler(store *AnswerStore, records *record.RecordStore, auditStore *audit.AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.RecordID == "" || req.QuestionID == "" || req.BranchID == "" {
			writeError(w, http.StatusBadRequest, "recordId, questionId, and branchId are required")
			return
		}

		if _, err := records.Get(req.RecordID); err != nil {
			if errors.Is(err, record.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load record: %v", err))
			return
		}

		answer := &Answer{
			QuestionID: req.QuestionID,
			BranchID:   req.BranchID,
			RecordID:   req.RecordID,
			Value:      req.Value,
		}
		if err := store.Append(answer); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store answer: %v", err))
			return
		}

		actor := r.Header.Get("X-Actor")
		if actor == "" {
			actor = "anonymous"
		}
		_ = auditStore.Append(&audit.AuditEvent{
			RecordID:  req.RecordID,
			EventType: audit.EventAnswerAppended,
			Actor:     actor,
			NewValue:  req.Value,
		})

		writeJSON(w, http.StatusCreated, answer)
	}
}

// listAnswersHandler returns a handler that lists a record's answers with
// question metadata.
func listAnswersHandler(store *AnswerStore, records *record.RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")
		if _, err := records.Get(recordID); err != nil {
			if errors.Is(err, record.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load record: %v", err))
			return
		}

		rows, err := store.ListByRecord(recordID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list answers: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// NewRouter creates a chi router with answer intake routes.
func NewRouter(store *AnswerStore, records *record.RecordStore, auditStore *audit.AuditStore) chi.Router {
	r := chi.NewRouter()
	r.Post("/", submitAnswerHandler(store, records, auditStore))
	r.Get("/{recordID}", listAnswersHandler(store, records))
	return r
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
