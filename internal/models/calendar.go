package models

import (
	"fmt"
	"time"
)

// DayType classifies a calendar day.
type DayType string

const (
	DayTypeCourse DayType = "course"
	DayTypeExam   DayType = "exam"
	DayTypeOther  DayType = "other"
)

// DateLayout is the wire format for calendar dates and availability keys.
const DateLayout = "2006-01-02"

// CalendarDay is one day of the scheduling horizon. Only course-type days
// are eligible for session placement.
type CalendarDay struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	DayType DayType   `json:"day_type"`
}

// DateKey returns the date formatted as an availability map key.
func (d CalendarDay) DateKey() string {
	return d.Date.Format(DateLayout)
}

// Validate checks the day carries a known type and a non-zero date.
func (d CalendarDay) Validate() error {
	switch d.DayType {
	case DayTypeCourse, DayTypeExam, DayTypeOther:
	default:
		return fmt.Errorf("calendar day %s: unknown day type %q", d.ID, d.DayType)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("calendar day %s: date is required", d.ID)
	}
	return nil
}

// EligibleDays filters the horizon down to course-type days, preserving
// calendar order. The index within the returned slice is the day index used
// by the solver.
func EligibleDays(calendar []CalendarDay) []CalendarDay {
	eligible := make([]CalendarDay, 0, len(calendar))
	for _, day := range calendar {
		if day.DayType == DayTypeCourse {
			eligible = append(eligible, day)
		}
	}
	return eligible
}
