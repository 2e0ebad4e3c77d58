package parsers

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const byteOrderMark = "\ufeff"

var reLineBreak = regexp.MustCompile(`\r?\n`)

// DelimitedParser tokenizes delimited text into a header and data rows.
// Every line is split on the delimiter as is; quote characters are ordinary text.
type DelimitedParser struct {
	Comma rune
}

// NewDelimitedParser creates a parser splitting fields on comma.
func NewDelimitedParser(comma rune) *DelimitedParser {
	return &DelimitedParser{Comma: comma}
}

// Parse reads delimited text from the reader.
// A single leading BOM and surrounding whitespace are stripped first. Text with
// fewer than two lines yields an empty Table. Rows keep whatever field count
// they have; column-count policy belongs to the caller.
func (p *DelimitedParser) Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading delimited text: %w", err)
	}

	text := strings.TrimSpace(strings.TrimPrefix(string(data), byteOrderMark))
	lines := reLineBreak.Split(text, -1)
	if len(lines) < 2 {
		return &Table{}, nil
	}

	sep := string(p.comma())
	table := &Table{Header: p.split(lines[0], sep)}

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Line numbers are 1-indexed and the header is line 1
		table.Rows = append(table.Rows, RawRow{Line: i + 2, Fields: p.split(line, sep)})
	}

	return table, nil
}

func (p *DelimitedParser) comma() rune {
	if p.Comma == 0 {
		return ','
	}
	return p.Comma
}

// split cuts one line into trimmed fields.
func (p *DelimitedParser) split(line, sep string) []string {
	fields := strings.Split(line, sep)
	for i, v := range fields {
		fields[i] = strings.TrimSpace(v)
	}
	return fields
}
