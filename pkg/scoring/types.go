// Package scoring turns raw answers into section scores, branch totals, and
// indicator reports. Scoring is read-only over the other stores and always
// prefers a partial result over failing an entire report.
package scoring

import "time"

// SectionScore is the evaluated result of one formula for one branch.
type SectionScore struct {
	SectionID string  `json:"sectionId"`
	FormulaID string  `json:"formulaId"`
	Score     float64 `json:"score"`
}

// BranchTotal is one branch's section scores and their sum.
type BranchTotal struct {
	BranchID string         `json:"branchId"`
	Total    float64        `json:"total"`
	Sections []SectionScore `json:"sections"`
}

// IndicatorReport is a cross-branch comparison for one indicator and year.
type IndicatorReport struct {
	IndicatorID string        `json:"indicatorId"`
	Year        int           `json:"year"`
	Branches    []BranchTotal `json:"branches"`
	// Degraded is set when an optional input (formulas, schema snapshot)
	// could not be fetched and the report was computed without it.
	Degraded    bool      `json:"degraded,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// RecordReport is the scored view of a single record.
type RecordReport struct {
	RecordID    string      `json:"recordId"`
	IndicatorID string      `json:"indicatorId"`
	Year        int         `json:"year"`
	Branch      BranchTotal `json:"branch"`
	Degraded    bool        `json:"degraded,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
}
