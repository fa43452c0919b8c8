package money

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseAmount when no digits survive stripping.
var ErrNotANumber = errors.New("amount is not a number")

// FormatThousands strips every non-digit rune from in, then inserts a comma
// every three digits from the right. Total: never fails, non-numeric input
// yields "".
func FormatThousands(in string) string {
	var digits strings.Builder
	for _, r := range in {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if s == "" {
		return ""
	}

	var out strings.Builder
	n := len(s)
	for i, c := range s {
		if i > 0 && (n-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}

// FormatInt renders a non-negative integer amount with grouping separators.
func FormatInt(n int64) string {
	return FormatThousands(strconv.FormatInt(n, 10))
}

// ParseAmount removes grouping separators and surrounding whitespace and
// parses the rest as a base-10 integer.
func ParseAmount(formatted string) (int64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(formatted, ",", ""))
	if s == "" {
		return 0, ErrNotANumber
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return n, nil
}

// FixedInstallment is the equal-principal monthly payment for the FIRST
// period only: principal/term plus the first month's interest on the full
// principal. Later periods carry less interest and are intentionally not
// computed anywhere in the product flow.
func FixedInstallment(principal int64, annualRatePercent float64, termMonths int) int64 {
	if termMonths <= 0 {
		return 0
	}
	monthlyPrincipal := float64(principal) / float64(termMonths)
	firstMonthInterest := float64(principal) * annualRatePercent / 12 / 100
	return int64(math.Round(monthlyPrincipal + firstMonthInterest))
}
