package models

import "fmt"

// Interval is a half-open [Start, End) window of minutes within a day.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether [start, end) lies entirely inside the interval.
func (i Interval) Contains(start, end int) bool {
	return i.Start <= start && end <= i.End
}

// Validate rejects negative or inverted bounds.
func (i Interval) Validate() error {
	if i.Start < 0 {
		return fmt.Errorf("interval start %d is negative", i.Start)
	}
	if i.Start >= i.End {
		return fmt.Errorf("interval [%d, %d) is empty or inverted", i.Start, i.End)
	}
	return nil
}

// Availability maps a date key (YYYY-MM-DD) to the teacher's free intervals
// on that date. Intervals are expected sorted and disjoint per date.
type Availability map[string][]Interval

// Covers reports whether [start, end) fits entirely inside one of the
// intervals declared for the given date.
func (a Availability) Covers(dateKey string, start, end int) bool {
	for _, interval := range a[dateKey] {
		if interval.Contains(start, end) {
			return true
		}
	}
	return false
}

// Validate checks every interval and enforces per-date ordering and
// disjointness so malformed input fails loudly instead of producing a
// silently wrong constraint model.
func (a Availability) Validate() error {
	for dateKey, intervals := range a {
		for idx, interval := range intervals {
			if err := interval.Validate(); err != nil {
				return fmt.Errorf("availability on %s: %w", dateKey, err)
			}
			if idx > 0 && intervals[idx-1].End > interval.Start {
				return fmt.Errorf("availability on %s: intervals [%d, %d) and [%d, %d) overlap or are unsorted",
					dateKey, intervals[idx-1].Start, intervals[idx-1].End, interval.Start, interval.End)
			}
		}
	}
	return nil
}
