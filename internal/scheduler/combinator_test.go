package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
)

func testDay(t *testing.T, date string, dayType models.DayType) models.CalendarDay {
	t.Helper()
	parsed, err := time.Parse(models.DateLayout, date)
	require.NoError(t, err)
	return models.CalendarDay{ID: "day-" + date, Date: parsed, DayType: dayType}
}

func availabilityOn(dates []string, start, end int) models.Availability {
	availability := make(models.Availability, len(dates))
	for _, date := range dates {
		availability[date] = []models.Interval{{Start: start, End: end}}
	}
	return availability
}

func newTestCombinator(t *testing.T, calendar []models.CalendarDay, courses []models.Course, cfg Config) *Combinator {
	t.Helper()
	c, err := NewCombinator(calendar, courses, cfg, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestSolveFeasibleScheduleHonoursAllConstraints(t *testing.T) {
	calendar := []models.CalendarDay{
		testDay(t, "2025-03-03", models.DayTypeCourse),
		testDay(t, "2025-03-04", models.DayTypeExam),
		testDay(t, "2025-03-05", models.DayTypeCourse),
	}
	courseDates := []string{"2025-03-03", "2025-03-05"}
	courses := []models.Course{
		{
			ID: "math", Name: "Mathematics", HourlyVolume: 4,
			Teacher: models.Teacher{ID: "t-alice", Name: "Alice", Availability: availabilityOn(courseDates, 8, 12)},
		},
		{
			ID: "physics", Name: "Physics", HourlyVolume: 2,
			Teacher: models.Teacher{ID: "t-bob", Name: "Bob", Availability: availabilityOn([]string{"2025-03-03"}, 9, 13)},
		},
	}
	cfg := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 18, RoomCount: 2}

	combinator := newTestCombinator(t, calendar, courses, cfg)
	result, err := combinator.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.StatusFeasible, result.Status)
	require.Len(t, result.Sessions, 3)

	perCourse := map[string]int{}
	for _, session := range result.Sessions {
		perCourse[session.CourseID]++

		dateKey := session.Day.Format(models.DateLayout)
		assert.Contains(t, courseDates, dateKey, "session placed on a non-course day")

		assert.GreaterOrEqual(t, session.StartTime, cfg.WindowStart)
		assert.LessOrEqual(t, session.EndTime, cfg.WindowEnd)
		assert.Equal(t, cfg.SessionDuration, session.EndTime-session.StartTime)
	}
	assert.Equal(t, 2, perCourse["math"], "each session appears exactly once")
	assert.Equal(t, 1, perCourse["physics"])

	assertAvailabilityContainment(t, result.Sessions, courses)
	assertNoTeacherOverlap(t, result.Sessions, courses)
	assertRoomCeiling(t, result.Sessions, cfg.RoomCount)
}

func TestSolveTeacherNeverDoubleBooked(t *testing.T) {
	calendar := []models.CalendarDay{testDay(t, "2025-03-03", models.DayTypeCourse)}
	shared := models.Teacher{ID: "t-1", Name: "Solo", Availability: availabilityOn([]string{"2025-03-03"}, 8, 12)}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 2, Teacher: shared},
		{ID: "b", Name: "B", HourlyVolume: 2, Teacher: shared},
	}
	cfg := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 2}

	combinator := newTestCombinator(t, calendar, courses, cfg)
	result, err := combinator.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.StatusFeasible, result.Status)
	require.Len(t, result.Sessions, 2)
	assertNoTeacherOverlap(t, result.Sessions, courses)
}

func TestSolveInfeasibleWhenTeacherWindowTooTight(t *testing.T) {
	// Only one valid start exists for the shared teacher, so the second
	// session cannot be placed anywhere.
	calendar := []models.CalendarDay{testDay(t, "2025-03-03", models.DayTypeCourse)}
	shared := models.Teacher{ID: "t-1", Name: "Solo", Availability: availabilityOn([]string{"2025-03-03"}, 8, 10)}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 2, Teacher: shared},
		{ID: "b", Name: "B", HourlyVolume: 2, Teacher: shared},
	}
	cfg := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 2}

	combinator := newTestCombinator(t, calendar, courses, cfg)
	result, err := combinator.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInfeasible, result.Status)
	assert.Empty(t, result.Sessions)
}

func TestSolveRoomCeilingForcesInfeasibility(t *testing.T) {
	calendar := []models.CalendarDay{testDay(t, "2025-03-03", models.DayTypeCourse)}
	availability := availabilityOn([]string{"2025-03-03"}, 8, 10)
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-1", Name: "One", Availability: availability}},
		{ID: "b", Name: "B", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-2", Name: "Two", Availability: availability}},
	}

	single := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 1}
	combinator := newTestCombinator(t, calendar, courses, single)
	result, err := combinator.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInfeasible, result.Status)

	double := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 2}
	combinator = newTestCombinator(t, calendar, courses, double)
	result, err = combinator.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.StatusFeasible, result.Status)
	assertRoomCeiling(t, result.Sessions, 2)
}

func TestSolveInfeasibleTinyAvailabilityLongSessions(t *testing.T) {
	// One teacher with a single 60-minute window cannot host two 240-minute
	// sessions on the same day.
	calendar := []models.CalendarDay{testDay(t, "2025-03-03", models.DayTypeCourse)}
	teacher := models.Teacher{ID: "t-1", Name: "Short", Availability: availabilityOn([]string{"2025-03-03"}, 480, 540)}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 240, Teacher: teacher},
		{ID: "b", Name: "B", HourlyVolume: 240, Teacher: teacher},
	}
	cfg := Config{SessionDuration: 240, WindowStart: 480, WindowEnd: 720, RoomCount: 2}

	combinator := newTestCombinator(t, calendar, courses, cfg)
	result, err := combinator.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInfeasible, result.Status)
}

func TestSolveInfeasibleWithoutCourseDays(t *testing.T) {
	calendar := []models.CalendarDay{
		testDay(t, "2025-03-03", models.DayTypeExam),
		testDay(t, "2025-03-04", models.DayTypeOther),
	}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-1", Name: "One"}},
	}
	cfg := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 1}

	combinator := newTestCombinator(t, calendar, courses, cfg)
	result, err := combinator.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInfeasible, result.Status)
}

func TestSolveTimedOutOnCancelledContext(t *testing.T) {
	calendar := []models.CalendarDay{testDay(t, "2025-03-03", models.DayTypeCourse)}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-1", Name: "One", Availability: availabilityOn([]string{"2025-03-03"}, 8, 12)}},
	}
	cfg := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 1}

	combinator := newTestCombinator(t, calendar, courses, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := combinator.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTimedOut, result.Status)
	assert.Empty(t, result.Sessions)
}

func TestSolveSingleWorkerDeterministic(t *testing.T) {
	calendar := []models.CalendarDay{
		testDay(t, "2025-03-03", models.DayTypeCourse),
		testDay(t, "2025-03-04", models.DayTypeCourse),
	}
	dates := []string{"2025-03-03", "2025-03-04"}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 4, Teacher: models.Teacher{ID: "t-1", Name: "One", Availability: availabilityOn(dates, 8, 12)}},
		{ID: "b", Name: "B", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-2", Name: "Two", Availability: availabilityOn(dates, 8, 12)}},
	}
	cfg := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 2}

	first, err := newTestCombinator(t, calendar, courses, cfg).Solve(context.Background())
	require.NoError(t, err)
	second, err := newTestCombinator(t, calendar, courses, cfg).Solve(context.Background())
	require.NoError(t, err)

	require.Equal(t, models.StatusFeasible, first.Status)
	assert.Equal(t, first.Sessions, second.Sessions)
}

func TestNewCombinatorRejectsBadConfiguration(t *testing.T) {
	calendar := []models.CalendarDay{testDay(t, "2025-03-03", models.DayTypeCourse)}
	courses := []models.Course{
		{ID: "a", Name: "A", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-1", Name: "One"}},
	}
	valid := Config{SessionDuration: 2, WindowStart: 8, WindowEnd: 12, RoomCount: 1}

	cases := []struct {
		name     string
		calendar []models.CalendarDay
		courses  []models.Course
		mutate   func(*Config)
	}{
		{name: "zero duration", calendar: calendar, courses: courses, mutate: func(c *Config) { c.SessionDuration = 0 }},
		{name: "inverted window", calendar: calendar, courses: courses, mutate: func(c *Config) { c.WindowStart, c.WindowEnd = 12, 8 }},
		{name: "negative window start", calendar: calendar, courses: courses, mutate: func(c *Config) { c.WindowStart = -1 }},
		{name: "zero rooms", calendar: calendar, courses: courses, mutate: func(c *Config) { c.RoomCount = 0 }},
		{name: "empty courses", calendar: calendar, courses: nil, mutate: func(c *Config) {}},
		{
			name:     "unknown day type",
			calendar: []models.CalendarDay{{ID: "d", Date: calendar[0].Date, DayType: "holiday"}},
			courses:  courses,
			mutate:   func(c *Config) {},
		},
		{
			name:     "duplicate course id",
			calendar: calendar,
			courses: []models.Course{
				{ID: "a", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-1"}},
				{ID: "a", HourlyVolume: 2, Teacher: models.Teacher{ID: "t-1"}},
			},
			mutate: func(c *Config) {},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			_, err := NewCombinator(tc.calendar, tc.courses, cfg, nil)
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidConfiguration))
		})
	}
}

// --- assertion helpers ---

func teacherByCourse(courses []models.Course) map[string]models.Teacher {
	result := make(map[string]models.Teacher, len(courses))
	for _, course := range courses {
		result[course.ID] = course.Teacher
	}
	return result
}

func assertAvailabilityContainment(t *testing.T, sessions []models.ScheduledSession, courses []models.Course) {
	t.Helper()
	teachers := teacherByCourse(courses)
	for _, session := range sessions {
		teacher := teachers[session.CourseID]
		dateKey := session.Day.Format(models.DateLayout)
		assert.True(t, teacher.Availability.Covers(dateKey, session.StartTime, session.EndTime),
			"session %s on %s [%d, %d) outside teacher %s availability",
			session.CourseID, dateKey, session.StartTime, session.EndTime, teacher.ID)
	}
}

func assertNoTeacherOverlap(t *testing.T, sessions []models.ScheduledSession, courses []models.Course) {
	t.Helper()
	teachers := teacherByCourse(courses)
	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			if teachers[a.CourseID].ID != teachers[b.CourseID].ID || !a.Day.Equal(b.Day) {
				continue
			}
			overlap := a.StartTime < b.EndTime && b.StartTime < a.EndTime
			assert.False(t, overlap, "teacher %s double-booked: [%d, %d) and [%d, %d)",
				teachers[a.CourseID].ID, a.StartTime, a.EndTime, b.StartTime, b.EndTime)
		}
	}
}

func assertRoomCeiling(t *testing.T, sessions []models.ScheduledSession, rooms int) {
	t.Helper()
	type dayUnit struct {
		day  string
		unit int
	}
	occupancy := map[dayUnit]int{}
	for _, session := range sessions {
		for unit := session.StartTime; unit < session.EndTime; unit++ {
			occupancy[dayUnit{day: session.Day.Format(models.DateLayout), unit: unit}]++
		}
	}
	for key, count := range occupancy {
		assert.LessOrEqual(t, count, rooms, "room ceiling exceeded on %s at unit %d", key.day, key.unit)
	}
}
