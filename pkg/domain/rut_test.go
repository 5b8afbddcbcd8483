package domain

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
)

var formattedRUTPattern = regexp.MustCompile(`^\d{1,3}(\.\d{3})*-[0-9K]$`)

// TestComputeCheckDigit_WorkedExample pins the weighted modulo-11 sum for
// 12345678: 8·2+7·3+6·4+5·5+4·6+3·7+2·2+1·3 = 138, 138 mod 11 = 6, 11-6 = 5.
func TestComputeCheckDigit_WorkedExample(t *testing.T) {
	got, err := ComputeCheckDigit("12345678")
	require.NoError(t, err)
	assert.Equal(t, byte('5'), got)

	assert.True(t, ValidateRUT("12345678-5"))
	assert.False(t, ValidateRUT("12345678-6"))
}

func TestComputeCheckDigit(t *testing.T) {
	tests := []struct {
		body string
		want byte
	}{
		{"6", 'K'},
		{"0", '0'},
		{"31", '0'},
		{"1", '9'},
		{"11111111", '1'},
		{"10000013", 'K'},
		{"12345000", '0'},
		{"12345678", '5'},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, err := ComputeCheckDigit(tt.body)
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), string(got))
		})
	}

	t.Run("rejects malformed bodies", func(t *testing.T) {
		for _, body := range []string{"", "123456789", "12a4"} {
			_, err := ComputeCheckDigit(body)
			assert.Error(t, err, "body %q", body)
		}
	})
}

func TestNormalizeRUT(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dots and hyphen", "12.345.678-5", "123456785"},
		{"hyphen only", "12345678-5", "123456785"},
		{"lowercase k", "6-k", "6K"},
		{"spaces and junk", " 12 345 678 / 5 ", "123456785"},
		{"letters other than k are dropped", "abc12x3", "123"},
		{"empty", "", ""},
		{"punctuation only", "..--", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRUT(tt.input))
		})
	}

	t.Run("is idempotent", func(t *testing.T) {
		for _, in := range []string{"12.345.678-5", "6-k", "k.k-1", "", "x"} {
			once := NormalizeRUT(in)
			assert.Equal(t, once, NormalizeRUT(once))
		}
	})

	t.Run("punctuation and case insensitive", func(t *testing.T) {
		assert.Equal(t, NormalizeRUT("12345678-5"), NormalizeRUT("12.345.678-5"))
		assert.True(t, SameRUT("7.654.321-k", "7654321K"))
		assert.False(t, SameRUT("7654321-K", "7654321-6"))
	})
}

func TestFormatRUT(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123456785", "12.345.678-5"},
		{"12.345.678-5", "12.345.678-5"},
		{"7654321k", "7.654.321-K"},
		{"1234", "123-4"},
		{"19", "1-9"},
		{"9", "9"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRUT(tt.input))
		})
	}
}

func TestValidateRUT_Malformed(t *testing.T) {
	for _, in := range []string{"", "5", "K-5", "123456789-0", "12K45-1", "12345678-X"} {
		assert.False(t, ValidateRUT(in), "input %q", in)
	}
}

// TestRUT_RoundTrip checks that every body with its computed check character
// validates after formatting, and that the formatted shape holds.
func TestRUT_RoundTrip(t *testing.T) {
	bodies := make([]string, 0, 2048)
	for n := 0; n < 1000; n++ {
		bodies = append(bodies, strconv.Itoa(n))
	}
	for n := 1_000_000; n < 100_000_000; n += 99_991 {
		bodies = append(bodies, strconv.Itoa(n))
	}
	bodies = append(bodies, "99999999", "10000000", "1")

	for _, body := range bodies {
		check, err := ComputeCheckDigit(body)
		require.NoError(t, err)

		raw := body + string(check)
		formatted := FormatRUT(raw)
		if !ValidateRUT(formatted) {
			t.Fatalf("round trip failed for body %s: %s", body, formatted)
		}
		if !formattedRUTPattern.MatchString(formatted) {
			t.Fatalf("formatted %q does not match display pattern", formatted)
		}
	}
}

func TestParseRUT(t *testing.T) {
	t.Run("rejects empty input as missing", func(t *testing.T) {
		_, err := ParseRUT("  ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects wrong check digit", func(t *testing.T) {
		_, err := ParseRUT("12.345.678-6")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		_, err := ParseRUT(strings.Repeat("1", 20))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid input in any notation", func(t *testing.T) {
		r, err := ParseRUT("7654302-k")
		require.NoError(t, err)
		assert.Equal(t, "7.654.302-K", r.String())
		assert.Equal(t, "7654302K", r.Normalized())
		assert.Equal(t, "7654302", r.Body())
		assert.Equal(t, byte('K'), r.CheckDigit())
		assert.False(t, r.IsNil())
	})

	t.Run("zero value is nil", func(t *testing.T) {
		var r RUT
		assert.True(t, r.IsNil())
		assert.Empty(t, r.String())
	})
}
