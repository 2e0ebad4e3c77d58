package services

import (
	"errors"
	"fmt"
)

// RetrievalError reports that the drop table could not be fetched.
type RetrievalError struct {
	Location   string
	StatusCode int   // HTTP status, 0 when the failure was not an HTTP response
	Err        error // Underlying transport or filesystem error, if any
}

func (e *RetrievalError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("retrieving %s: unexpected status %d", e.Location, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("retrieving %s: %v", e.Location, e.Err)
	default:
		return fmt.Sprintf("retrieving %s failed", e.Location)
	}
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// HeaderMismatchError reports a header row whose column count differs from the expected headers.
type HeaderMismatchError struct {
	Expected int
	Found    int
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header mismatch: expected %d columns, found %d", e.Expected, e.Found)
}

// ErrSnapshotNotFound reports a snapshot location naming a snapshot that was never saved.
var ErrSnapshotNotFound = errors.New("snapshot not found")
