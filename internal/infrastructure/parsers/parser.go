// Package parsers provides parsers for reading drop tables from delimited text.
package parsers

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// RawRow is one data line split into trimmed fields, before any column-count check.
type RawRow struct {
	Line   int      // Line number in the source text (1-indexed)
	Fields []string // Trimmed field values
}

// Table is the tokenized form of a delimited file.
type Table struct {
	Header []string // Trimmed header labels; nil when the text has no data lines
	Rows   []RawRow
}

// Empty reports whether the text had no data lines below the header.
func (t *Table) Empty() bool {
	return t.Header == nil
}

// Parser defines the interface for tokenizing drop tables.
type Parser interface {
	Parse(r io.Reader) (*Table, error)
}

// Formats lists the names ForFormat accepts.
var Formats = []string{"csv", "tsv"}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "csv", "tsv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "csv":
		return NewDelimitedParser(',')
	case "tsv":
		return NewDelimitedParser('\t')
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
// URLs are judged by their path, ignoring query and fragment.
// Anything that isn't a .tsv file is read as comma-delimited.
func ForFile(location string) Parser {
	name := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		name = u.Path
	}

	if strings.EqualFold(path.Ext(name), ".tsv") {
		return NewDelimitedParser('\t')
	}
	return NewDelimitedParser(',')
}

// ForSource returns the parser for a drop table location. An explicit format
// wins over the location's extension.
func ForSource(location, format string) (Parser, error) {
	if format == "" {
		return ForFile(location), nil
	}
	p := ForFormat(format)
	if p == nil {
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
	return p, nil
}
