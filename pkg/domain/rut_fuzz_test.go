//go:build go1.18

package domain

import (
	"testing"
)

// FuzzParseRUT checks that parsing never panics on arbitrary input and that
// accepted values agree with ValidateRUT and survive a format round trip.
func FuzzParseRUT(f *testing.F) {
	f.Add("")
	f.Add("12.345.678-5")
	f.Add("12345678-6")
	f.Add("7654302-k")
	f.Add("'; DROP TABLE gifts;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("1.2.3.4.5.6.7.8.9-K")

	f.Fuzz(func(t *testing.T, input string) {
		r, err := ParseRUT(input)

		if (err == nil) != ValidateRUT(input) {
			t.Fatalf("ParseRUT and ValidateRUT disagree for %q", input)
		}
		if err != nil {
			return
		}

		again, err := ParseRUT(r.String())
		if err != nil {
			t.Fatalf("formatted value %q failed to parse: %v", r.String(), err)
		}
		if again != r {
			t.Fatal("round trip changed the value")
		}
	})
}

// FuzzNormalizeRUT checks idempotence and the output alphabet.
func FuzzNormalizeRUT(f *testing.F) {
	f.Add("12.345.678-5")
	f.Add("kK-k")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		n := NormalizeRUT(input)
		if NormalizeRUT(n) != n {
			t.Fatalf("normalize not idempotent for %q", input)
		}
		for i := 0; i < len(n); i++ {
			if (n[i] < '0' || n[i] > '9') && n[i] != 'K' {
				t.Fatalf("unexpected byte %q in %q", n[i], n)
			}
		}
	})
}
