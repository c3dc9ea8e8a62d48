package scoring

import "fmt"

// DataAccessError wraps a datastore failure that makes a report impossible
// to compute. Optional inputs degrade instead; only the answer fetch is
// load-bearing enough to surface one of these.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed during %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }
