package scoring

import (
	"os"
	"strconv"
	"time"
)

// ScoringConfig controls report computation.
type ScoringConfig struct {
	// FetchTimeout bounds each backing-store fetch (answers, formulas,
	// schema snapshot) inside a single report.
	FetchTimeout time.Duration
	// ApprovedOnly restricts cross-branch reports to Approved records so
	// dashboards never mix reviewed and unreviewed submissions.
	ApprovedOnly bool
}

// DefaultScoringConfig returns the default configuration.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		FetchTimeout: 10 * time.Second,
		ApprovedOnly: false,
	}
}

// ScoringConfigFromEnv loads config from environment variables.
// SCORECARD_FETCH_TIMEOUT_SECONDS, SCORECARD_APPROVED_ONLY
func ScoringConfigFromEnv() *ScoringConfig {
	cfg := DefaultScoringConfig()

	if v := os.Getenv("SCORECARD_FETCH_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.FetchTimeout = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("SCORECARD_APPROVED_ONLY"); v != "" {
		cfg.ApprovedOnly, _ = strconv.ParseBool(v)
	}

	return cfg
}
