// Package ports defines interfaces for external service communication.
package ports

import "context"

// Source retrieves the raw drop table text.
type Source interface {
	// Fetch returns the full contents of the drop table.
	// Failures are reported as *services.RetrievalError.
	Fetch(ctx context.Context) ([]byte, error)

	// Describe returns the location being read, for status and logs.
	Describe() string
}
