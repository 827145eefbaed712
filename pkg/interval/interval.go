// Package interval provides half-open time intervals and the overlap
// predicate used by the booking core. An interval [start, end) includes its
// start instant and excludes its end instant, so adjacent slots abut without
// overlapping.
package interval

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("interval start must be before end")

type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Validate rejects empty and inverted ranges. Callers must validate before
// running overlap checks; Overlaps assumes well-formed inputs.
func (iv Interval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return ErrInvalidRange
	}
	return nil
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// Overlaps reports whether two half-open intervals share any instant:
// a.Start < b.End && b.Start < a.End. Intervals that exactly abut
// (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
