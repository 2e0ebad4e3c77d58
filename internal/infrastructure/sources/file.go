package sources

import (
	"context"
	"os"

	"github.com/ersonp/dropdex/internal/domain/services"
)

// FileSource reads a drop table from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a new file source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &services.RetrievalError{Location: s.path, Err: err}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &services.RetrievalError{Location: s.path, Err: err}
	}
	return data, nil
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return s.path
}

// Path returns the file path.
func (s *FileSource) Path() string {
	return s.path
}
