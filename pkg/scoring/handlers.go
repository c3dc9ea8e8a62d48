package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sustainhq/scorecard/pkg/record"
	"github.com/sustainhq/scorecard/pkg/schema"
)

// indicatorReportHandler serves the full cross-branch report.
func indicatorReportHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indicatorID := chi.URLParam(r, "indicatorID")
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}

		report, err := engine.IndicatorReport(r.Context(), indicatorID, year)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// branchTotalsHandler serves just the comparison rows, the shape branch
// ranking dashboards consume.
func branchTotalsHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indicatorID := chi.URLParam(r, "indicatorID")
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}

		report, err := engine.IndicatorReport(r.Context(), indicatorID, year)
		if err != nil {
			writeReportError(w, err)
			return
		}

		totals := make([]BranchTotal, len(report.Branches))
		for i, branch := range report.Branches {
			totals[i] = BranchTotal{BranchID: branch.BranchID, Total: branch.Total}
		}
		writeJSON(w, http.StatusOK, totals)
	}
}

// recordReportHandler serves the scored view of one record.
func recordReportHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")
		report, err := engine.RecordReport(r.Context(), recordID)
		if err != nil {
			if errors.Is(err, record.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	var dataErr *DataAccessError
	switch {
	case errors.Is(err, schema.ErrIndicatorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &dataErr):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute report: %v", err))
	}
}

// NewRouter creates a chi router with report routes.
func NewRouter(engine *Engine) chi.Router {
	r := chi.NewRouter()
	r.Get("/{indicatorID}/{year}", indicatorReportHandler(engine))
	r.Get("/{indicatorID}/{year}/branches", branchTotalsHandler(engine))
	r.Get("/records/{recordID}", recordReportHandler(engine))
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
