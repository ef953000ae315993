package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCovers(t *testing.T) {
	availability := Availability{
		"2025-03-03": {{Start: 480, End: 600}, {Start: 720, End: 840}},
	}

	assert.True(t, availability.Covers("2025-03-03", 480, 540))
	assert.True(t, availability.Covers("2025-03-03", 720, 840))
	assert.False(t, availability.Covers("2025-03-03", 540, 660), "spans a gap")
	assert.False(t, availability.Covers("2025-03-03", 460, 500), "starts before the window")
	assert.False(t, availability.Covers("2025-03-04", 480, 540), "unknown date")
}

func TestAvailabilityValidate(t *testing.T) {
	valid := Availability{"2025-03-03": {{Start: 480, End: 600}, {Start: 600, End: 720}}}
	require.NoError(t, valid.Validate())

	overlapping := Availability{"2025-03-03": {{Start: 480, End: 610}, {Start: 600, End: 720}}}
	assert.Error(t, overlapping.Validate())

	unsorted := Availability{"2025-03-03": {{Start: 600, End: 720}, {Start: 480, End: 540}}}
	assert.Error(t, unsorted.Validate())

	inverted := Availability{"2025-03-03": {{Start: 540, End: 480}}}
	assert.Error(t, inverted.Validate())

	negative := Availability{"2025-03-03": {{Start: -10, End: 60}}}
	assert.Error(t, negative.Validate())
}

func TestEligibleDaysPreservesOrder(t *testing.T) {
	calendar := []CalendarDay{
		{ID: "1", DayType: DayTypeCourse},
		{ID: "2", DayType: DayTypeExam},
		{ID: "3", DayType: DayTypeCourse},
		{ID: "4", DayType: DayTypeOther},
	}

	eligible := EligibleDays(calendar)
	require.Len(t, eligible, 2)
	assert.Equal(t, "1", eligible[0].ID)
	assert.Equal(t, "3", eligible[1].ID)
}
