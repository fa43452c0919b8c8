package money

import (
	"errors"
	"testing"
)

func TestFormatThousands(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", ""},
		{"0", "0"},
		{"12", "12"},
		{"123", "123"},
		{"1234", "1,234"},
		{"1234567", "1,234,567"},
		{"1,234,567", "1,234,567"},    // already formatted
		{"  5 000 000 ", "5,000,000"}, // spaces stripped
		{"$1234x56", "123,456"},
	}
	for _, c := range cases {
		if got := FormatThousands(c.in); got != c.want {
			t.Fatalf("FormatThousands(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 99, 100, 999, 1000, 123456, 5_000_000, 987_654_321} {
		got, err := ParseAmount(FormatInt(n))
		if err != nil {
			t.Fatalf("ParseAmount(FormatInt(%d)) err: %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip %d → %d", n, got)
		}
	}
}

func TestParseAmount_NotANumber(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12a4"} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrNotANumber) {
			t.Fatalf("ParseAmount(%q) err = %v, want ErrNotANumber", in, err)
		}
	}
}

func TestFixedInstallment_FirstPeriodOnly(t *testing.T) {
	// 5,000,000 over 12 months at 10%/yr:
	// principal part 416,666.67 + first-month interest 41,666.67 → 458,333.
	got := FixedInstallment(5_000_000, 10, 12)
	if got < 458_332 || got > 458_334 {
		t.Fatalf("FixedInstallment = %d, want 458,333 ±1", got)
	}
}

func TestFixedInstallment_ZeroRate(t *testing.T) {
	if got := FixedInstallment(1_200_000, 0, 12); got != 100_000 {
		t.Fatalf("FixedInstallment zero-rate = %d, want 100,000", got)
	}
}

func TestFixedInstallment_BadTerm(t *testing.T) {
	if got := FixedInstallment(1_000_000, 10, 0); got != 0 {
		t.Fatalf("FixedInstallment term=0 = %d, want 0", got)
	}
}
