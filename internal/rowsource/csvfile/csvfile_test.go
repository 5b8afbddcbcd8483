package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFetchRows_CSV(t *testing.T) {
	path := writeFile(t, "gifts.csv", "\ufeffheader,rut\nA,12.345.678-5\nB\n")

	rows, err := New(path).FetchRows(context.Background(), "Hoja 1!A2:AD")

	require.NoError(t, err)
	assert.Equal(t, []rowsource.Row{{"A", "12.345.678-5"}, {"B"}}, rows)
}

func TestFetchRows_TSVWithoutHeaderSkip(t *testing.T) {
	path := writeFile(t, "gifts.TSV", "\ufeffa\tb\nc\td\n")

	rows, err := New(path, WithSkipHeader(false)).FetchRows(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, []rowsource.Row{{"a", "b"}, {"c", "d"}}, rows)
}

func TestFetchRows_CustomComma(t *testing.T) {
	path := writeFile(t, "gifts.txt", "h\nx;y\n")

	rows, err := New(path, WithComma(';')).FetchRows(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, []rowsource.Row{{"x", "y"}}, rows)
}

func TestFetchRows_EmptyFile(t *testing.T) {
	rows, err := New(writeFile(t, "empty.csv", "")).FetchRows(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchRows_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.csv")).FetchRows(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, rowsource.CategoryUnavailable, rowsource.CategoryOf(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchRows_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(writeFile(t, "gifts.csv", "h\n")).FetchRows(ctx, "")

	assert.ErrorIs(t, err, context.Canceled)
}
