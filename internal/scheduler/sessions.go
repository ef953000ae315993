package scheduler

import (
	"fmt"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
)

// ExpandSessions converts each course into its atomic sessions. The session
// count per course is the ceiling of hourly volume over session duration.
// Output order is stable: courses in input order, indexes ascending.
func ExpandSessions(courses []models.Course, sessionDuration int) ([]models.Session, error) {
	if sessionDuration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration,
			fmt.Sprintf("session duration must be positive, got %d", sessionDuration))
	}

	sessions := make([]models.Session, 0, len(courses))
	for _, course := range courses {
		if course.HourlyVolume <= 0 {
			return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration,
				fmt.Sprintf("course %s: hourly volume must be positive, got %d", course.ID, course.HourlyVolume))
		}
		count := (course.HourlyVolume + sessionDuration - 1) / sessionDuration
		for idx := 0; idx < count; idx++ {
			sessions = append(sessions, models.Session{CourseID: course.ID, Index: idx})
		}
	}
	return sessions, nil
}
