package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
)

func TestExpandSessionsCeilDivision(t *testing.T) {
	cases := []struct {
		name     string
		volume   int
		duration int
		expected int
	}{
		{name: "exact divisor", volume: 240, duration: 240, expected: 1},
		{name: "remainder rounds up", volume: 241, duration: 240, expected: 2},
		{name: "multiple sessions", volume: 30, duration: 10, expected: 3},
		{name: "volume below duration", volume: 45, duration: 60, expected: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			courses := []models.Course{{ID: "c1", HourlyVolume: tc.volume}}
			sessions, err := ExpandSessions(courses, tc.duration)
			require.NoError(t, err)
			assert.Len(t, sessions, tc.expected)
		})
	}
}

func TestExpandSessionsStableOrder(t *testing.T) {
	courses := []models.Course{
		{ID: "math", HourlyVolume: 120},
		{ID: "physics", HourlyVolume: 60},
	}

	sessions, err := ExpandSessions(courses, 60)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, models.Session{CourseID: "math", Index: 0}, sessions[0])
	assert.Equal(t, models.Session{CourseID: "math", Index: 1}, sessions[1])
	assert.Equal(t, models.Session{CourseID: "physics", Index: 0}, sessions[2])

	// Expansion is deterministic: identical input yields identical output.
	again, err := ExpandSessions(courses, 60)
	require.NoError(t, err)
	assert.Equal(t, sessions, again)
}

func TestExpandSessionsRejectsBadInput(t *testing.T) {
	courses := []models.Course{{ID: "c1", HourlyVolume: 60}}

	_, err := ExpandSessions(courses, 0)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidConfiguration))

	_, err = ExpandSessions([]models.Course{{ID: "c1", HourlyVolume: 0}}, 60)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidConfiguration))
}
