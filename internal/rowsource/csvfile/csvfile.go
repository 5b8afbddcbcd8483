// Package csvfile serves rows from a local CSV or TSV export of the sheet, so
// the service can run without Google credentials.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
)

const sourceName = "csv_file"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source re-reads the file on every fetch so edits show up without a restart.
type Source struct {
	path       string
	comma      rune
	skipHeader bool
}

// Option configures a Source.
type Option func(*Source)

// WithSkipHeader controls whether the first record is dropped. Exports keep
// the header row that the Sheets range A2:AD leaves out, so the default is true.
func WithSkipHeader(skip bool) Option {
	return func(s *Source) {
		s.skipHeader = skip
	}
}

// WithComma overrides the delimiter chosen from the file extension.
func WithComma(r rune) Option {
	return func(s *Source) {
		s.comma = r
	}
}

// New reads path as TSV when it ends in .tsv and as CSV otherwise.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path, comma: ',', skipHeader: true}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		s.comma = '\t'
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FetchRows returns every record of the file. The range is ignored; a file
// holds a single sheet.
func (s *Source) FetchRows(ctx context.Context, _ string) ([]rowsource.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, rowsource.NewSourceError(rowsource.CategoryTimeout, sourceName, "request canceled", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, rowsource.NewSourceError(rowsource.CategoryUnavailable, sourceName, "read "+s.path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = s.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, rowsource.NewSourceError(rowsource.CategoryBadData, sourceName, "parse "+s.path, err)
	}

	if s.skipHeader && len(records) > 0 {
		records = records[1:]
	}
	rows := make([]rowsource.Row, len(records))
	for i, rec := range records {
		rows[i] = rowsource.Row(rec)
	}
	return rows, nil
}
