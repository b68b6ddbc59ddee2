package domain

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const storedDateLayout = "2006/01/02"

// DateKey is a date at year, month or day precision. Missing components are
// zero, so a partial key sorts before every full date sharing its prefix.
// Comparing keys gives the same order as comparing zero-padded YYYY/MM/DD strings.
type DateKey struct {
	Year  int
	Month int
	Day   int
}

// ParseDateKey parses YYYY, YYYY/MM or YYYY/MM/DD. Month and day may be one or
// two digits; ranges are checked but calendar validity is not.
func ParseDateKey(s string) (DateKey, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if s == "" || len(parts) > 3 {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	var nums [3]int
	limits := [3]struct{ width, lo, hi int }{
		{4, 0, 9999},
		{2, 1, 12},
		{2, 1, 31},
	}

	for i, p := range parts {
		lim := limits[i]
		if p == "" || len(p) > lim.width || (i == 0 && len(p) != lim.width) || !allDigits(p) {
			return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < lim.lo || n > lim.hi {
			return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}

	return DateKey{Year: nums[0], Month: nums[1], Day: nums[2]}, nil
}

// allDigits reports whether p is ASCII digits only. strconv.Atoi would
// otherwise accept a leading sign.
func allDigits(p string) bool {
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return false
		}
	}
	return true
}

// ParseStoredDate parses a full YYYY/MM/DD date and rejects impossible days.
func ParseStoredDate(s string) (DateKey, error) {
	t, err := time.Parse(storedDateLayout, strings.TrimSpace(s))
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: %q must be YYYY/MM/DD", ErrInvalidDate, s)
	}
	return DateKey{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// Compare returns -1, 0 or +1 ordering k against o by year, month, then day.
func (k DateKey) Compare(o DateKey) int {
	if c := cmp.Compare(k.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(k.Day, o.Day)
}

// String renders the key in canonical zero-padded form at its own precision.
func (k DateKey) String() string {
	switch {
	case k.Month == 0:
		return fmt.Sprintf("%04d", k.Year)
	case k.Day == 0:
		return fmt.Sprintf("%04d/%02d", k.Year, k.Month)
	default:
		return fmt.Sprintf("%04d/%02d/%02d", k.Year, k.Month, k.Day)
	}
}
