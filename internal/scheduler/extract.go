package scheduler

import (
	"fmt"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
	"github.com/DaniOmer/planning-automation-backend/internal/solver"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
)

// extract decodes a feasible assignment back into concrete calendar
// sessions. The exactly-one constraint guarantees a single true variable per
// session, so a missing one indicates solver breakage rather than bad input.
func (c *Combinator) extract(sessions []models.Session, grid *varGrid, solution *solver.Solution) ([]models.ScheduledSession, error) {
	scheduled := make([]models.ScheduledSession, 0, len(sessions))
	for sessionIdx, session := range sessions {
		course := c.courseByID[session.CourseID]

		found := false
		for d := range c.eligible {
			for start := c.cfg.WindowStart; start < c.cfg.WindowEnd; start++ {
				if !solution.Value(grid.at(sessionIdx, d, start)) {
					continue
				}
				scheduled = append(scheduled, models.ScheduledSession{
					CourseID:    course.ID,
					CourseName:  course.Name,
					Day:         c.eligible[d].Date,
					StartTime:   start,
					EndTime:     start + c.cfg.SessionDuration,
					TeacherName: course.Teacher.Name,
				})
				found = true
				break
			}
			if found {
				break
			}
		}
		if !found {
			return nil, appErrors.Clone(appErrors.ErrInternal,
				fmt.Sprintf("no slot assigned for session %s/%d in a feasible solution", session.CourseID, session.Index))
		}
	}
	return scheduled, nil
}
