// Package mocks provides mock implementations for testing.
package mocks

import "context"

// Source is a mock implementation of ports.Source.
type Source struct {
	Data       []byte
	Err        error
	Location   string
	FetchCalls int
}

// Fetch returns the configured data or error.
func (m *Source) Fetch(_ context.Context) ([]byte, error) {
	m.FetchCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

// Describe returns the configured location.
func (m *Source) Describe() string {
	if m.Location == "" {
		return "mock://drops.csv"
	}
	return m.Location
}
