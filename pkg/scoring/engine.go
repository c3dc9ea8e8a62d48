package scoring

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sustainhq/scorecard/pkg/formula"
	"github.com/sustainhq/scorecard/pkg/record"
	"github.com/sustainhq/scorecard/pkg/schema"
	"github.com/sustainhq/scorecard/pkg/survey"
)

// Engine computes reports. Each report fans out its backing-store fetches
// concurrently, each under its own timeout. A failed answer fetch aborts the
// report with a DataAccessError; a failed formula or schema fetch degrades
// the report instead, since a partial comparison is more useful to a
// reviewer than none.
type Engine struct {
	answers     *survey.AnswerStore
	formulas    *formula.FormulaStore
	schemas     *schema.SchemaStore
	records     *record.RecordStore
	cache       *schema.SnapshotCache
	accumulator *Accumulator
	cfg         *ScoringConfig
	logger      *slog.Logger
}

// NewEngine creates an Engine. cache may be nil to disable snapshot caching;
// nil cfg and logger fall back to defaults.
func NewEngine(answers *survey.AnswerStore, formulas *formula.FormulaStore, schemas *schema.SchemaStore, records *record.RecordStore, cache *schema.SnapshotCache, cfg *ScoringConfig, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultScoringConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		answers:     answers,
		formulas:    formulas,
		schemas:     schemas,
		records:     records,
		cache:       cache,
		accumulator: NewAccumulator(logger),
		cfg:         cfg,
		logger:      logger,
	}
}

// fetch runs fn under the engine's per-fetch timeout. The store call itself
// cannot be interrupted mid-flight, so on timeout the goroutine is left to
// finish into a buffered channel while the report moves on.
func fetch[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		val, err := fn()
		ch <- result{val, err}
	}()

	select {
	case res := <-ch:
		return res.val, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// snapshot returns the indicator snapshot, serving from cache when one is
// configured.
func (e *Engine) snapshot(indicatorID string) (*schema.IndicatorSnapshot, error) {
	if e.cache != nil {
		if snap, ok := e.cache.Get(indicatorID); ok {
			return snap, nil
		}
	}
	snap, err := e.schemas.Snapshot(indicatorID)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(indicatorID, snap)
	}
	return snap, nil
}

// reportInputs is everything one report needs from the backing stores. Each
// goroutine in gather writes only its own pair of fields.
type reportInputs struct {
	rows        []survey.AnswerRow
	rowsErr     error
	formulas    []formula.Formula
	formulasErr error
	snap        *schema.IndicatorSnapshot
	snapErr     error
	branches    []schema.Branch
	branchesErr error
}

func (in *reportInputs) degraded() bool {
	return in.formulasErr != nil || in.snapErr != nil || in.branchesErr != nil
}

// gather fans out the fetches for an indicator-wide report.
func (e *Engine) gather(ctx context.Context, indicatorID string, year int) *reportInputs {
	var statusFilter *record.Status
	if e.cfg.ApprovedOnly {
		approved := record.StatusApproved
		statusFilter = &approved
	}

	inputs := &reportInputs{}
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		inputs.rows, inputs.rowsErr = fetch(ctx, e.cfg.FetchTimeout, func() ([]survey.AnswerRow, error) {
			return e.answers.ListByIndicatorYear(indicatorID, year, statusFilter)
		})
	}()

	go func() {
		defer wg.Done()
		inputs.formulas, inputs.formulasErr = fetch(ctx, e.cfg.FetchTimeout, func() ([]formula.Formula, error) {
			return e.formulas.ListByIndicator(indicatorID)
		})
	}()

	go func() {
		defer wg.Done()
		inputs.snap, inputs.snapErr = fetch(ctx, e.cfg.FetchTimeout, func() (*schema.IndicatorSnapshot, error) {
			return e.snapshot(indicatorID)
		})
	}()

	go func() {
		defer wg.Done()
		inputs.branches, inputs.branchesErr = fetch(ctx, e.cfg.FetchTimeout, func() ([]schema.Branch, error) {
			return e.schemas.ListBranches()
		})
	}()

	wg.Wait()

	if inputs.formulasErr != nil {
		e.logger.Warn("formula fetch failed, report degrades to no formulas",
			"indicatorId", indicatorID, "error", inputs.formulasErr)
	}
	if inputs.snapErr != nil {
		e.logger.Warn("schema fetch failed, report degrades to unscoped tokens",
			"indicatorId", indicatorID, "error", inputs.snapErr)
	}
	if inputs.branchesErr != nil {
		e.logger.Warn("branch roster fetch failed, report covers answering branches only",
			"indicatorId", indicatorID, "error", inputs.branchesErr)
	}
	return inputs
}

// IndicatorReport computes the cross-branch comparison for one indicator and
// year. Branches in the roster that submitted nothing appear with a zero
// total so dashboards render every office.
func (e *Engine) IndicatorReport(ctx context.Context, indicatorID string, year int) (*IndicatorReport, error) {
	inputs := e.gather(ctx, indicatorID, year)
	if inputs.rowsErr != nil {
		return nil, &DataAccessError{Op: "answer fetch", Err: inputs.rowsErr}
	}
	// A missing indicator is definitive, not a transient degrade.
	if errors.Is(inputs.snapErr, schema.ErrIndicatorNotFound) {
		return nil, inputs.snapErr
	}

	tables := Aggregate(inputs.rows)
	totals := e.accumulator.Score(inputs.formulas, tables, inputs.snap)

	seen := make(map[string]bool, len(totals))
	for _, total := range totals {
		seen[total.BranchID] = true
	}
	for _, branch := range inputs.branches {
		if !seen[branch.BranchID] {
			totals = append(totals, BranchTotal{BranchID: branch.BranchID, Sections: []SectionScore{}})
		}
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].BranchID < totals[j].BranchID })

	return &IndicatorReport{
		IndicatorID: indicatorID,
		Year:        year,
		Branches:    totals,
		Degraded:    inputs.degraded(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// RecordReport scores a single record's own answers. Returns
// record.ErrNotFound when the record does not exist.
func (e *Engine) RecordReport(ctx context.Context, recordID string) (*RecordReport, error) {
	rec, err := e.records.Get(recordID)
	if err != nil {
		return nil, err
	}

	rows, err := fetch(ctx, e.cfg.FetchTimeout, func() ([]survey.AnswerRow, error) {
		return e.answers.ListByRecord(recordID)
	})
	if err != nil {
		return nil, &DataAccessError{Op: "answer fetch", Err: err}
	}

	degraded := false
	formulas, err := fetch(ctx, e.cfg.FetchTimeout, func() ([]formula.Formula, error) {
		return e.formulas.ListByIndicator(rec.IndicatorID)
	})
	if err != nil {
		e.logger.Warn("formula fetch failed, record report degrades to no formulas",
			"recordId", recordID, "error", err)
		degraded = true
	}
	snap, err := fetch(ctx, e.cfg.FetchTimeout, func() (*schema.IndicatorSnapshot, error) {
		return e.snapshot(rec.IndicatorID)
	})
	if err != nil {
		e.logger.Warn("schema fetch failed, record report degrades to unscoped tokens",
			"recordId", recordID, "error", err)
		degraded = true
	}

	tables := Aggregate(rows)
	table := tables[rec.OwnerID]
	if table == nil {
		table = make(formula.SymbolTable)
	}

	return &RecordReport{
		RecordID:    rec.RecordID,
		IndicatorID: rec.IndicatorID,
		Year:        rec.Year,
		Branch:      e.accumulator.ScoreBranch(rec.OwnerID, table, formulas, snap),
		Degraded:    degraded,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
