package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyAnswer indicates the upstream call succeeded at the transport level
// but returned no usable content. Callers must treat it as failure-equivalent,
// distinguishable from a transport error.
var ErrEmptyAnswer = errors.New("upstream returned empty answer")

// MalformedResponseError indicates the upstream returned content that failed
// structural parsing. Raw carries the offending payload for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed upstream response: %v (raw: %s)", e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
