package record

import "fmt"

// TransitionError is a structured error for rejected status transitions.
type TransitionError struct {
	Code    string `json:"code"`
	From    Status `json:"from"`
	To      Status `json:"to"`
	Message string `json:"message"`
}

func (e *TransitionError) Error() string {
	return e.Message
}

// LifecycleMachine validates record status transitions.
//
// The historical behavior allows any status to follow any status, and that
// remains the default. With strict approval enabled, Approved becomes
// terminal for the cycle: a new record is required for the next year
// instead of reopening an approved one.
type LifecycleMachine struct {
	strictApproval bool
}

// NewLifecycleMachine creates a machine honoring cfg.StrictApproval.
func NewLifecycleMachine(cfg *RecordConfig) *LifecycleMachine {
	strict := false
	if cfg != nil {
		strict = cfg.StrictApproval
	}
	return &LifecycleMachine{strictApproval: strict}
}

// ValidateTransition checks whether a transition from->to is allowed.
// Returns nil if allowed, a *TransitionError with a machine-readable code
// if not.
func (m *LifecycleMachine) ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return &TransitionError{
			Code:    "RECORD_STATUS_INVALID",
			From:    from,
			To:      to,
			Message: fmt.Sprintf("status %d is not a defined review status", to),
		}
	}
	if m.strictApproval && from == StatusApproved && to != StatusApproved {
		return &TransitionError{
			Code:    "RECORD_APPROVED_TERMINAL",
			From:    from,
			To:      to,
			Message: "approved records cannot be reopened; create a new record for the next cycle",
		}
	}
	return nil
}

// AllowedTransitions returns the valid target statuses from the given status.
func (m *LifecycleMachine) AllowedTransitions(from Status) []Status {
	if m.strictApproval && from == StatusApproved {
		return []Status{StatusApproved}
	}
	return []Status{StatusToBeReviewed, StatusNeedsRevision, StatusApproved}
}
