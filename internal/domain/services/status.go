package services

import (
	"errors"
	"fmt"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

// StatusKind classifies the state shown to the user.
type StatusKind string

// Status kinds.
const (
	StatusLoading         StatusKind = "loading"
	StatusReady           StatusKind = "ready"
	StatusEmpty           StatusKind = "empty"
	StatusFiltered        StatusKind = "filtered"
	StatusRetrievalFailed StatusKind = "retrieval_failed"
	StatusHeaderMismatch  StatusKind = "header_mismatch"
	StatusFailed          StatusKind = "failed"
)

// Status is a human-readable state line for a view.
type Status struct {
	Kind    StatusKind
	Message string
}

// IsError reports whether the status ends the session's data loading.
func (s Status) IsError() bool {
	switch s.Kind {
	case StatusRetrievalFailed, StatusHeaderMismatch, StatusFailed:
		return true
	default:
		return false
	}
}

// LoadingStatus is shown while the drop table is being fetched.
func LoadingStatus() Status {
	return Status{Kind: StatusLoading, Message: "Loading data..."}
}

// LoadStatus classifies the outcome of a load. err takes precedence over result.
func LoadStatus(result *IngestResult, err error) Status {
	var retrievalErr *RetrievalError
	var headerErr *HeaderMismatchError

	switch {
	case errors.As(err, &retrievalErr):
		if retrievalErr.StatusCode != 0 {
			return Status{
				Kind:    StatusRetrievalFailed,
				Message: fmt.Sprintf("Error: could not load data (HTTP %d).", retrievalErr.StatusCode),
			}
		}
		return Status{Kind: StatusRetrievalFailed, Message: "Error: could not load data."}
	case errors.As(err, &headerErr):
		return Status{
			Kind: StatusHeaderMismatch,
			Message: fmt.Sprintf("Error: column count mismatch, expected %d columns but found %d.",
				headerErr.Expected, headerErr.Found),
		}
	case err != nil:
		return Status{Kind: StatusFailed, Message: "Error: the data could not be processed."}
	case result == nil || result.Empty:
		return emptyStatus()
	default:
		return Status{
			Kind:    StatusReady,
			Message: fmt.Sprintf("Data loaded, %d monster records.", len(result.Monsters)),
		}
	}
}

func emptyStatus() Status {
	return Status{Kind: StatusEmpty, Message: "Data loaded, 0 records."}
}

// FilterStatus reports the result of a filter run.
func FilterStatus(summary entities.StatusSummary) Status {
	return Status{
		Kind:    StatusFiltered,
		Message: fmt.Sprintf("Found %d of %d records.", summary.CurrentlyVisible, summary.TotalLoaded),
	}
}
