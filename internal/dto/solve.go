package dto

import (
	"fmt"
	"time"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
)

// IntervalPayload is a half-open [start, end) availability window in
// minutes of day.
type IntervalPayload struct {
	Start int `json:"start" validate:"min=0"`
	End   int `json:"end" validate:"required,gtfield=Start"`
}

// TeacherPayload carries a teacher with pre-resolved availability keyed by
// YYYY-MM-DD date.
type TeacherPayload struct {
	ID           string                       `json:"id" validate:"required"`
	Name         string                       `json:"name"`
	Availability map[string][]IntervalPayload `json:"availability" validate:"omitempty,dive,dive"`
}

// CoursePayload is one teacher-subject-class assignment to schedule.
type CoursePayload struct {
	ID           string         `json:"id" validate:"required"`
	Name         string         `json:"name"`
	HourlyVolume int            `json:"hourly_volume" validate:"required,min=1"`
	StartDate    string         `json:"start_date,omitempty"`
	EndDate      string         `json:"end_date,omitempty"`
	Teacher      TeacherPayload `json:"teacher" validate:"required"`
}

// CalendarDayPayload is one day of the scheduling horizon.
type CalendarDayPayload struct {
	ID      string `json:"id"`
	Date    string `json:"date" validate:"required"`
	DayType string `json:"day_type" validate:"required,oneof=course exam other"`
}

// SolveRequest is a complete scheduling problem.
type SolveRequest struct {
	Calendar        []CalendarDayPayload `json:"calendar" validate:"required,min=1,dive"`
	Courses         []CoursePayload      `json:"courses" validate:"required,min=1,dive"`
	SessionDuration int                  `json:"session_duration" validate:"required,min=1"`
	WindowStart     int                  `json:"window_start" validate:"min=0"`
	WindowEnd       int                  `json:"window_end" validate:"required,gtfield=WindowStart"`
	RoomCount       int                  `json:"room_count" validate:"required,min=1"`
	TimeBudget      string               `json:"time_budget,omitempty"`
	Workers         int                  `json:"workers,omitempty" validate:"omitempty,min=1,max=64"`
}

// ScheduledSessionPayload is one placed session in a response.
type ScheduledSessionPayload struct {
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name"`
	Day         string `json:"day"`
	StartTime   int    `json:"start_time"`
	EndTime     int    `json:"end_time"`
	TeacherName string `json:"teacher_name"`
}

// SolveStatsPayload summarises model size and search effort.
type SolveStatsPayload struct {
	Sessions    int   `json:"sessions"`
	Variables   int   `json:"variables"`
	Constraints int   `json:"constraints"`
	DurationMS  int64 `json:"duration_ms"`
}

// SolveResponse reports the outcome of a solve. Sessions is empty unless
// Status is FEASIBLE.
type SolveResponse struct {
	ScheduleID string                    `json:"schedule_id"`
	Status     string                    `json:"status"`
	Sessions   []ScheduledSessionPayload `json:"sessions,omitempty"`
	Stats      SolveStatsPayload         `json:"stats"`
}

// CalendarDays parses the request calendar into domain values, preserving
// order.
func (r SolveRequest) CalendarDays() ([]models.CalendarDay, error) {
	days := make([]models.CalendarDay, 0, len(r.Calendar))
	for _, payload := range r.Calendar {
		date, err := time.Parse(models.DateLayout, payload.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar day %s: invalid date %q", payload.ID, payload.Date)
		}
		days = append(days, models.CalendarDay{
			ID:      payload.ID,
			Date:    date,
			DayType: models.DayType(payload.DayType),
		})
	}
	return days, nil
}

// CourseModels parses the request courses into domain values.
func (r SolveRequest) CourseModels() ([]models.Course, error) {
	courses := make([]models.Course, 0, len(r.Courses))
	for _, payload := range r.Courses {
		course := models.Course{
			ID:           payload.ID,
			Name:         payload.Name,
			HourlyVolume: payload.HourlyVolume,
			Teacher:      payload.Teacher.toModel(),
		}
		var err error
		if course.StartDate, err = parseOptionalDate(payload.StartDate); err != nil {
			return nil, fmt.Errorf("course %s: invalid start date %q", payload.ID, payload.StartDate)
		}
		if course.EndDate, err = parseOptionalDate(payload.EndDate); err != nil {
			return nil, fmt.Errorf("course %s: invalid end date %q", payload.ID, payload.EndDate)
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (t TeacherPayload) toModel() models.Teacher {
	availability := make(models.Availability, len(t.Availability))
	for dateKey, intervals := range t.Availability {
		converted := make([]models.Interval, 0, len(intervals))
		for _, interval := range intervals {
			converted = append(converted, models.Interval{Start: interval.Start, End: interval.End})
		}
		availability[dateKey] = converted
	}
	return models.Teacher{ID: t.ID, Name: t.Name, Availability: availability}
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateLayout, raw)
}

// FromResult converts a solve outcome into its response shape.
func FromResult(scheduleID string, result *models.SolveResult) *SolveResponse {
	resp := &SolveResponse{
		ScheduleID: scheduleID,
		Status:     string(result.Status),
		Stats: SolveStatsPayload{
			Sessions:    result.Stats.Sessions,
			Variables:   result.Stats.Variables,
			Constraints: result.Stats.Constraints,
			DurationMS:  result.Stats.Duration.Milliseconds(),
		},
	}
	for _, session := range result.Sessions {
		resp.Sessions = append(resp.Sessions, ScheduledSessionPayload{
			CourseID:    session.CourseID,
			CourseName:  session.CourseName,
			Day:         session.Day.Format(models.DateLayout),
			StartTime:   session.StartTime,
			EndTime:     session.EndTime,
			TeacherName: session.TeacherName,
		})
	}
	return resp
}
