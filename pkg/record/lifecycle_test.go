package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleMachine_DefaultAllowsEverything(t *testing.T) {
	machine := NewLifecycleMachine(DefaultRecordConfig())

	statuses := []Status{StatusToBeReviewed, StatusNeedsRevision, StatusApproved}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.NoError(t, machine.ValidateTransition(from, to), "%s -> %s", from, to)
		}
		assert.Len(t, machine.AllowedTransitions(from), 3)
	}
}

func TestLifecycleMachine_RejectsUndefinedStatus(t *testing.T) {
	machine := NewLifecycleMachine(DefaultRecordConfig())

	err := machine.ValidateTransition(StatusToBeReviewed, Status(9))
	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, "RECORD_STATUS_INVALID", transitionErr.Code)
}

func TestLifecycleMachine_StrictApproval(t *testing.T) {
	machine := NewLifecycleMachine(&RecordConfig{StrictApproval: true})

	err := machine.ValidateTransition(StatusApproved, StatusNeedsRevision)
	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, "RECORD_APPROVED_TERMINAL", transitionErr.Code)

	// Approved -> Approved stays a no-op, and non-approved records are
	// unaffected by strict mode.
	assert.NoError(t, machine.ValidateTransition(StatusApproved, StatusApproved))
	assert.NoError(t, machine.ValidateTransition(StatusNeedsRevision, StatusApproved))
	assert.Equal(t, []Status{StatusApproved}, machine.AllowedTransitions(StatusApproved))
}

func TestRecordConfigFromEnv(t *testing.T) {
	t.Setenv("SCORECARD_STRICT_APPROVAL", "true")
	cfg := RecordConfigFromEnv()
	assert.True(t, cfg.StrictApproval)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "to-be-reviewed", StatusToBeReviewed.String())
	assert.Equal(t, "needs-revision", StatusNeedsRevision.String())
	assert.Equal(t, "approved", StatusApproved.String())
	assert.Equal(t, "unknown", Status(9).String())
}
