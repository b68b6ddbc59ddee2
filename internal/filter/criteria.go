package filter

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
)

// ErrInvalidDate is returned by ParseCriteria for a malformed date bound.
var ErrInvalidDate = errors.New("invalid date bound")

// Criteria is a sparse conjunction of constraints. A nil field does not
// constrain its axis.
type Criteria struct {
	Tags     *string
	Author   *string
	Title    *string
	DateFrom *domain.DateKey
	DateTo   *domain.DateKey
}

// IsEmpty reports whether no field is set.
func (c Criteria) IsEmpty() bool {
	return c.Tags == nil && c.Author == nil && c.Title == nil && c.DateFrom == nil && c.DateTo == nil
}

// RawCriteria carries the filter query parameters as received.
type RawCriteria struct {
	Tags     string `form:"tags"`
	Author   string `form:"author"`
	Title    string `form:"title"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// ParseCriteria converts raw parameters. Empty strings are treated as absent.
func ParseCriteria(raw RawCriteria) (Criteria, error) {
	c := Criteria{
		Tags:   optional(raw.Tags),
		Author: optional(raw.Author),
		Title:  optional(raw.Title),
	}

	var err error
	if c.DateFrom, err = optionalDate("date_from", raw.DateFrom); err != nil {
		return Criteria{}, err
	}
	if c.DateTo, err = optionalDate("date_to", raw.DateTo); err != nil {
		return Criteria{}, err
	}

	return c, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(name, s string) (*domain.DateKey, error) {
	if s == "" {
		return nil, nil
	}
	k, err := domain.ParseDateKey(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDate, name, err)
	}
	return &k, nil
}
