package httpdata

import (
	"errors"
	"fmt"
)

// ErrGateActivated reports a second Activate on a dispatch gate. The wiring
// hook must run exactly once per process.
var ErrGateActivated = errors.New("httpdata: dispatch gate already activated")

// ErrNilDispatcher reports an Activate call without a dispatch function.
var ErrNilDispatcher = errors.New("httpdata: nil dispatcher")

// TransformError records a response-transformer failure for one key. It is
// stored as the entry's Err and never propagated to RequestData callers.
type TransformError struct {
	Key string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("httpdata: transform for %q failed: %v", e.Key, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
