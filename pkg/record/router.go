package record

import (
	"github.com/go-chi/chi/v5"

	"github.com/sustainhq/scorecard/pkg/audit"
)

// NewRouter creates a chi router with record lifecycle routes.
func NewRouter(store *RecordStore, machine *LifecycleMachine, auditStore *audit.AuditStore) chi.Router {
	r := chi.NewRouter()

	r.Post("/", createRecordHandler(store, auditStore))
	r.Get("/lookup", lookupRecordHandler(store))
	r.Route("/{recordID}", func(r chi.Router) {
		r.Get("/", getRecordHandler(store))
		r.Patch("/status", setStatusHandler(store, machine, auditStore))
		r.Get("/history", getHistoryHandler(store, auditStore))
	})

	return r
}
