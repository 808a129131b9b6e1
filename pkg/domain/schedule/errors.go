package schedule

import "fmt"

// ValidationError reports a missing or inconsistent draft field. It is
// recovered locally: the editor stays open and shows the field message.
// A ValidationError never reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failed persistence call. The editor surfaces it
// verbatim and keeps the draft so the user can retry or cancel; nothing
// propagates past the editor boundary.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("schedule store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
