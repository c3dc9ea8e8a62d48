package record

import (
	"os"
	"strconv"
)

// RecordConfig controls record lifecycle behavior.
type RecordConfig struct {
	// StrictApproval makes Approved a terminal status. Off by default to
	// preserve the historical unguarded transition set.
	StrictApproval bool
}

// DefaultRecordConfig returns the default configuration.
func DefaultRecordConfig() *RecordConfig {
	return &RecordConfig{StrictApproval: false}
}

// RecordConfigFromEnv loads config from environment variables.
// SCORECARD_STRICT_APPROVAL
func RecordConfigFromEnv() *RecordConfig {
	cfg := DefaultRecordConfig()
	if v := os.Getenv("SCORECARD_STRICT_APPROVAL"); v != "" {
		cfg.StrictApproval, _ = strconv.ParseBool(v)
	}
	return cfg
}
