package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

const dateLayout = "2006-01-02"

// Period is the half-open range [From, To).
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func New(from, to time.Time) (Period, error) {
	if !to.After(from) {
		return Period{}, fmt.Errorf("%w: %s is not after %s", ErrInvalidPeriod, to.Format(dateLayout), from.Format(dateLayout))
	}
	return Period{From: from.UTC(), To: to.UTC()}, nil
}

func Month(year int, month time.Month) Period {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, 0)}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// ContainsPtr reports false for a nil timestamp.
func (p Period) ContainsPtr(t *time.Time) bool {
	return t != nil && p.Contains(*t)
}

func (p Period) String() string {
	return p.From.Format(dateLayout) + ".." + p.To.Format(dateLayout)
}

// Parse accepts either month=YYYY-MM or from=YYYY-MM-DD&to=YYYY-MM-DD (to is
// inclusive in the query and converted to an exclusive bound). With no input
// it returns the month containing now.
func Parse(month, from, to string, now time.Time) (Period, error) {
	switch {
	case month != "":
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return Period{}, fmt.Errorf("%w: month %q", ErrInvalidPeriod, month)
		}
		return Month(t.Year(), t.Month()), nil
	case from != "" || to != "":
		if from == "" || to == "" {
			return Period{}, fmt.Errorf("%w: from and to must be given together", ErrInvalidPeriod)
		}
		f, err := time.Parse(dateLayout, from)
		if err != nil {
			return Period{}, fmt.Errorf("%w: from %q", ErrInvalidPeriod, from)
		}
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return Period{}, fmt.Errorf("%w: to %q", ErrInvalidPeriod, to)
		}
		return New(f, t.AddDate(0, 0, 1))
	default:
		now = now.UTC()
		return Month(now.Year(), now.Month()), nil
	}
}
