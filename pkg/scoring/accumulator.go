package scoring

import (
	"log/slog"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/sustainhq/scorecard/pkg/formula"
	"github.com/sustainhq/scorecard/pkg/schema"
)

// Accumulator evaluates a set of section formulas against per-branch symbol
// tables. Formulas are compiled once and reused across branches, duplicates
// are evaluated once, and a formula that fails to compile or evaluate
// contributes zero without affecting any other section or branch.
type Accumulator struct {
	logger *slog.Logger
}

// NewAccumulator creates an Accumulator. A nil logger falls back to the
// process default.
func NewAccumulator(logger *slog.Logger) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accumulator{logger: logger}
}

type compiledFormula struct {
	id        string
	sectionID string
	compiled  *formula.Compiled
}

// compileAll compiles each distinct formula once. Duplicate formula ids are
// dropped so re-registered formulas cannot double-count a section. Broken
// formulas stay in the result with a nil program; score reports them as zero.
func (a *Accumulator) compileAll(formulas []formula.Formula) []compiledFormula {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]compiledFormula, 0, len(formulas))
	for _, f := range formulas {
		if !seen.Add(f.FormulaID) {
			continue
		}
		cf := compiledFormula{id: f.FormulaID, sectionID: f.SectionID}
		compiled, err := formula.Compile(f.Expression)
		if err != nil {
			a.logger.Warn("formula failed to compile, scoring it as zero",
				"formulaId", f.FormulaID, "sectionId", f.SectionID, "error", err)
		} else {
			cf.compiled = compiled
		}
		out = append(out, cf)
	}
	return out
}

// Score evaluates every formula for every branch in tables and returns the
// branch totals sorted by branch id. When snap is non-nil each formula sees
// only the sub-tags of its own section; without a snapshot the full branch
// table is used.
func (a *Accumulator) Score(formulas []formula.Formula, tables SymbolTables, snap *schema.IndicatorSnapshot) []BranchTotal {
	compiled := a.compileAll(formulas)

	branchIDs := make([]string, 0, len(tables))
	for branchID := range tables {
		branchIDs = append(branchIDs, branchID)
	}
	sort.Strings(branchIDs)

	totals := make([]BranchTotal, 0, len(branchIDs))
	for _, branchID := range branchIDs {
		totals = append(totals, a.scoreBranch(branchID, tables[branchID], compiled, snap))
	}
	return totals
}

// ScoreBranch evaluates every formula against a single branch's table.
func (a *Accumulator) ScoreBranch(branchID string, table formula.SymbolTable, formulas []formula.Formula, snap *schema.IndicatorSnapshot) BranchTotal {
	return a.scoreBranch(branchID, table, a.compileAll(formulas), snap)
}

func (a *Accumulator) scoreBranch(branchID string, table formula.SymbolTable, compiled []compiledFormula, snap *schema.IndicatorSnapshot) BranchTotal {
	total := BranchTotal{BranchID: branchID, Sections: make([]SectionScore, 0, len(compiled))}
	for _, cf := range compiled {
		score := SectionScore{SectionID: cf.sectionID, FormulaID: cf.id}
		if cf.compiled != nil {
			scoped := table
			if snap != nil {
				scoped = restrict(table, snap.SubTags(cf.sectionID))
			}
			value, err := cf.compiled.Eval(scoped)
			if err != nil {
				a.logger.Warn("formula evaluation failed, scoring it as zero",
					"formulaId", cf.id, "sectionId", cf.sectionID,
					"branchId", branchID, "error", err)
			} else {
				score.Score = value
			}
		}
		total.Total += score.Score
		total.Sections = append(total.Sections, score)
	}
	return total
}
