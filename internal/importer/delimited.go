package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// delimiters are tried in order when sniffing a delimited export.
var delimiters = []rune{';', ',', '\t'}

// DelimitedAdapter parses bank-style delimited exports. The delimiter is
// sniffed per file: the first candidate that splits the first non-empty line
// into more than one column wins. A leading header line that does not parse is
// dropped silently; every later unparsable line is skipped and counted.
type DelimitedAdapter struct{}

func NewDelimitedAdapter() *DelimitedAdapter {
	return &DelimitedAdapter{}
}

func (a *DelimitedAdapter) Name() string {
	return "delimited"
}

func (a *DelimitedAdapter) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import source: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &Result{}
	first := true
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			first = false
			continue
		}
		row, err := parseRecord(record)
		if err != nil {
			// The header line is expected to fail; anything after it counts.
			if !first {
				result.Skipped++
			}
			first = false
			continue
		}
		result.Rows = append(result.Rows, row)
		first = false
	}
	return result, nil
}

func sniffDelimiter(data []byte) rune {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, d := range delimiters {
			if strings.ContainsRune(line, d) {
				return d
			}
		}
		break
	}
	return delimiters[0]
}
