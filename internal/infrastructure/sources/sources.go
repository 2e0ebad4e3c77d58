// Package sources retrieves drop tables from local files and HTTP servers.
package sources

import (
	"strings"
	"time"

	"github.com/ersonp/dropdex/internal/domain/ports"
)

// ForLocation returns an HTTP source for http(s) URLs and a file source otherwise.
func ForLocation(location string, timeout time.Duration) ports.Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return NewFileSource(location)
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	_, ok := ForLocation(location, 0).(*HTTPSource)
	return ok
}
