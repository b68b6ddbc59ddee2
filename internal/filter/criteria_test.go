package filter_test

import (
	"errors"
	"testing"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
)

func TestParseCriteria(t *testing.T) {
	t.Parallel()

	c, err := filter.ParseCriteria(filter.RawCriteria{Tags: "Parkme", DateFrom: "2015/10"})
	if err != nil {
		t.Fatalf("ParseCriteria() error = %v", err)
	}
	if c.Tags == nil || *c.Tags != "Parkme" {
		t.Errorf("Tags = %v", c.Tags)
	}
	if c.Author != nil || c.Title != nil || c.DateTo != nil {
		t.Error("absent fields should stay nil")
	}
	if c.DateFrom == nil || *c.DateFrom != (domain.DateKey{Year: 2015, Month: 10}) {
		t.Errorf("DateFrom = %v", c.DateFrom)
	}
	if c.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
}

func TestParseCriteria_EmptyStringsAreAbsent(t *testing.T) {
	t.Parallel()

	c, err := filter.ParseCriteria(filter.RawCriteria{})
	if err != nil {
		t.Fatalf("ParseCriteria() error = %v", err)
	}
	if !c.IsEmpty() {
		t.Errorf("IsEmpty() = false for %+v", c)
	}
}

func TestParseCriteria_InvalidDates(t *testing.T) {
	t.Parallel()

	tests := []filter.RawCriteria{
		{DateFrom: "2015/13"},
		{DateTo: "yesterday"},
		{DateFrom: "2015/10", DateTo: "2015/10/27/01"},
	}

	for _, raw := range tests {
		_, err := filter.ParseCriteria(raw)
		if !errors.Is(err, filter.ErrInvalidDate) {
			t.Errorf("ParseCriteria(%+v) error = %v, want ErrInvalidDate", raw, err)
		}
		if !errors.Is(err, domain.ErrInvalidDate) {
			t.Errorf("ParseCriteria(%+v) error should wrap domain.ErrInvalidDate", raw)
		}
	}
}
