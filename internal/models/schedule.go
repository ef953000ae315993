package models

import (
	"time"
)

// Session is one atomic teaching unit derived from a course's hourly volume.
// Sessions only gain a concrete slot once a solve succeeds.
type Session struct {
	CourseID string `json:"course_id"`
	Index    int    `json:"index"`
}

// SolveStatus is the terminal outcome of a solve call.
type SolveStatus string

const (
	// StatusFeasible means every session was assigned exactly one slot.
	StatusFeasible SolveStatus = "FEASIBLE"
	// StatusInfeasible means the solver proved no assignment exists.
	StatusInfeasible SolveStatus = "INFEASIBLE"
	// StatusTimedOut means the time budget ran out before a proof either way.
	StatusTimedOut SolveStatus = "TIMED_OUT"
)

// ScheduledSession is a session bound to a concrete day and time window.
// Start and end times are offsets from midnight in scheduling time units.
type ScheduledSession struct {
	CourseID    string    `json:"course_id"`
	CourseName  string    `json:"course_name"`
	Day         time.Time `json:"day"`
	StartTime   int       `json:"start_time"`
	EndTime     int       `json:"end_time"`
	TeacherName string    `json:"teacher_name"`
}

// SolveStats summarises the constructed model and search effort.
type SolveStats struct {
	Sessions    int           `json:"sessions"`
	Variables   int           `json:"variables"`
	Constraints int           `json:"constraints"`
	Duration    time.Duration `json:"duration"`
}

// SolveResult is the outcome of one solve invocation. Sessions is populated
// only when Status is StatusFeasible.
type SolveResult struct {
	Status   SolveStatus        `json:"status"`
	Sessions []ScheduledSession `json:"sessions,omitempty"`
	Stats    SolveStats         `json:"stats"`
}
