package stay

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("start date must be before end date")

const DateLayout = "2006-01-02"

// Stay is a half-open date interval [Start, End). Nights are counted by the
// interval, so [Jun 1, Jun 5) and [Jun 5, Jun 9) share the checkout day
// without overlapping.
type Stay struct {
	start time.Time
	end   time.Time
}

func New(start, end time.Time) (Stay, error) {
	if !start.Before(end) {
		return Stay{}, ErrInvalidRange
	}
	return Stay{start: start, end: end}, nil
}

func Parse(startDate, endDate string) (Stay, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return Stay{}, err
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return Stay{}, err
	}
	return New(start, end)
}

func (s Stay) Start() time.Time {
	return s.start
}

func (s Stay) End() time.Time {
	return s.end
}

func (s Stay) Nights() int {
	return int(s.end.Sub(s.start).Hours() / 24)
}

// Overlaps reports whether two half-open intervals intersect:
// existing.start < new.end AND new.start < existing.end.
func (s Stay) Overlaps(other Stay) bool {
	return s.start.Before(other.end) && other.start.Before(s.end)
}
