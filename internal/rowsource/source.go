// Package rowsource reads positional rows from the spreadsheet backing the
// gift registry. Concrete sources live in subpackages; the decorators in this
// package add retries, a circuit breaker and tracing around any of them.
package rowsource

import (
	"context"
	"strings"
)

//go:generate mockgen -source=source.go -destination=mocks/mocks.go -package=mocks Source

// Row is one spreadsheet row as positional cell strings. Rows may be shorter
// than the widest row of the range; trailing empty cells are usually omitted.
type Row []string

// Cell returns the trimmed cell at idx, or "" when the row is too short.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

// Source fetches every row of a range in sheet order. Returned rows are
// shared with caches and must not be mutated.
type Source interface {
	FetchRows(ctx context.Context, readRange string) ([]Row, error)
}

// SourceFunc adapts an ordinary function to Source.
type SourceFunc func(ctx context.Context, readRange string) ([]Row, error)

// FetchRows calls f.
func (f SourceFunc) FetchRows(ctx context.Context, readRange string) ([]Row, error) {
	return f(ctx, readRange)
}
