package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ersonp/dropdex/internal/domain/services"
)

// maxBodyBytes caps the size of a fetched drop table.
const maxBodyBytes = 32 << 20

// HTTPSource fetches a drop table with a GET request.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a new HTTP source. A zero timeout means no client timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// WithClient replaces the HTTP client, mainly for tests.
func (s *HTTPSource) WithClient(client *http.Client) *HTTPSource {
	s.client = client
	return s
}

// Fetch downloads the drop table. Any non-2xx status is a retrieval failure.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &services.RetrievalError{Location: s.url, Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &services.RetrievalError{Location: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &services.RetrievalError{Location: s.url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &services.RetrievalError{Location: s.url, Err: fmt.Errorf("reading body: %w", err)}
	}
	if len(data) > maxBodyBytes {
		return nil, &services.RetrievalError{Location: s.url, Err: fmt.Errorf("body exceeds %d bytes", maxBodyBytes)}
	}

	return data, nil
}

// Describe returns the URL.
func (s *HTTPSource) Describe() string {
	return s.url
}
