package scoring

import (
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/sustainhq/scorecard/pkg/formula"
	"github.com/sustainhq/scorecard/pkg/survey"
)

// SymbolTables maps branch id to that branch's summed sub-tag values.
type SymbolTables map[string]formula.SymbolTable

// Aggregate folds raw answer rows into per-branch symbol tables. Multiple
// rows for the same branch and sub-tag sum, so appended corrections stack
// on top of the original submission. Values that do not parse as numbers
// count as zero. The result depends only on the multiset of rows, not on
// their order.
func Aggregate(rows []survey.AnswerRow) SymbolTables {
	tables := make(SymbolTables)
	for _, row := range rows {
		if row.SubTag == "" {
			continue
		}
		table, ok := tables[row.BranchID]
		if !ok {
			table = make(formula.SymbolTable)
			tables[row.BranchID] = table
		}
		value, err := strconv.ParseFloat(row.Value, 64)
		if err != nil {
			value = 0
		}
		table[row.SubTag] += value
	}
	return tables
}

// restrict returns a copy of table limited to the given sub-tags. A nil
// allowed set means no restriction and returns the table unchanged, which
// is the degraded path when no schema snapshot is available.
func restrict(table formula.SymbolTable, allowed mapset.Set[string]) formula.SymbolTable {
	if allowed == nil {
		return table
	}
	filtered := make(formula.SymbolTable, len(table))
	for tag, value := range table {
		if allowed.Contains(tag) {
			filtered[tag] = value
		}
	}
	return filtered
}
