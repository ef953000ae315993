package models

import (
	"fmt"
	"time"
)

// Teacher owns the availability windows a session may be placed into.
type Teacher struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Availability Availability `json:"availability"`
}

// Validate checks identity and availability cleanliness.
func (t Teacher) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("teacher %q: id is required", t.Name)
	}
	if err := t.Availability.Validate(); err != nil {
		return fmt.Errorf("teacher %s: %w", t.ID, err)
	}
	return nil
}

// Course is a teacher-subject-class assignment requiring scheduling.
// HourlyVolume is the total instruction time in the same unit as the
// session duration.
type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	HourlyVolume int       `json:"hourly_volume"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Teacher      Teacher   `json:"teacher"`
}

// Validate enforces the course invariants.
func (c Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("course %q: id is required", c.Name)
	}
	if c.HourlyVolume <= 0 {
		return fmt.Errorf("course %s: hourly volume must be positive, got %d", c.ID, c.HourlyVolume)
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("course %s: end date %s precedes start date %s",
			c.ID, c.EndDate.Format(DateLayout), c.StartDate.Format(DateLayout))
	}
	return c.Teacher.Validate()
}
