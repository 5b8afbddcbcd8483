package domain

import (
	"fmt"
	"strings"

	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
)

const (
	rutMaxBodyDigits = 8
	rutCheckK        = 'K'
)

// RUT is a Chilean national identifier: a numeric body and a check character.
// Values built through ParseRUT always carry a correct check character.
type RUT struct {
	body  string
	check byte
}

// ParseRUT normalizes and validates input. An empty (or punctuation-only)
// input is a validation error; a malformed value or wrong check character is
// invalid input.
func ParseRUT(input string) (RUT, error) {
	n := NormalizeRUT(input)
	if n == "" {
		return RUT{}, dErrors.New(dErrors.CodeValidation, "identifier required")
	}
	body, check, ok := splitRUT(n)
	if !ok {
		return RUT{}, dErrors.New(dErrors.CodeInvalidInput, "invalid identifier")
	}
	expected, err := ComputeCheckDigit(body)
	if err != nil || expected != check {
		return RUT{}, dErrors.New(dErrors.CodeInvalidInput, "invalid identifier")
	}
	return RUT{body: body, check: check}, nil
}

// String returns the display form, e.g. 12.345.678-5.
func (r RUT) String() string {
	if r.IsNil() {
		return ""
	}
	return FormatRUT(r.Normalized())
}

// Normalized returns the compact form used for comparisons, e.g. 123456785.
func (r RUT) Normalized() string {
	if r.IsNil() {
		return ""
	}
	return r.body + string(r.check)
}

func (r RUT) Body() string {
	return r.body
}

func (r RUT) CheckDigit() byte {
	return r.check
}

func (r RUT) IsNil() bool {
	return r.body == ""
}

// NormalizeRUT drops everything except digits and k/K and uppercases the
// result. It is idempotent.
func NormalizeRUT(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == 'k' || c == 'K':
			b.WriteByte(rutCheckK)
		}
	}
	return b.String()
}

// FormatRUT renders input as body grouped in thousands, a hyphen and the check
// character. Inputs that normalize to one character or less are returned as
// normalized.
func FormatRUT(input string) string {
	n := NormalizeRUT(input)
	if len(n) <= 1 {
		return n
	}
	body, check := n[:len(n)-1], n[len(n)-1:]

	var b strings.Builder
	b.Grow(len(n) + len(body)/3 + 1)
	for i := 0; i < len(body); i++ {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(body[i])
	}
	b.WriteByte('-')
	b.WriteString(check)
	return b.String()
}

// ValidateRUT reports whether input is a well-formed RUT whose check character
// matches its body. Malformed input is simply invalid.
func ValidateRUT(input string) bool {
	body, check, ok := splitRUT(NormalizeRUT(input))
	if !ok {
		return false
	}
	expected, err := ComputeCheckDigit(body)
	return err == nil && expected == check
}

// SameRUT compares two identifiers by normalized form, regardless of validity.
func SameRUT(a, b string) bool {
	return NormalizeRUT(a) == NormalizeRUT(b)
}

// ComputeCheckDigit returns the modulo-11 check character for a body of 1-8
// digits. Digits are weighted 2..7 cyclically from the least significant one.
func ComputeCheckDigit(body string) (byte, error) {
	if len(body) == 0 || len(body) > rutMaxBodyDigits {
		return 0, fmt.Errorf("rut body must have 1-%d digits, got %d", rutMaxBodyDigits, len(body))
	}
	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		d := body[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("rut body contains non-digit %q", d)
		}
		sum += int(d-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch v := (11 - sum%11) % 11; v {
	case 10:
		return rutCheckK, nil
	default:
		return byte('0' + v), nil
	}
}

// splitRUT splits a normalized value into body and check character, checking
// the body(1-8 digits)+check(0-9|K) shape only.
func splitRUT(n string) (string, byte, bool) {
	if len(n) < 2 || len(n) > rutMaxBodyDigits+1 {
		return "", 0, false
	}
	body, check := n[:len(n)-1], n[len(n)-1]
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return "", 0, false
		}
	}
	if (check < '0' || check > '9') && check != rutCheckK {
		return "", 0, false
	}
	return body, check, true
}
