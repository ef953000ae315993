package scheduler

import (
	"github.com/DaniOmer/planning-automation-backend/internal/models"
	"github.com/DaniOmer/planning-automation-backend/internal/solver"
)

// modelBuilder threads the constraint model through each constraint family.
// Application order matters for search performance only, not correctness.
type modelBuilder struct {
	model    *solver.Model
	grid     *varGrid
	courses  map[string]models.Course
	eligible []models.CalendarDay
	cfg      Config
}

// addSessionSlotConstraints enforces exactly one slot per session. Start
// offsets that would run past the window end are fixed to false rather than
// excluded, so every session variable participates in the sum.
func (b *modelBuilder) addSessionSlotConstraints() {
	for sessionIdx := range b.grid.sessions {
		for d := range b.eligible {
			for start := b.cfg.WindowStart; start < b.cfg.WindowEnd; start++ {
				if start+b.cfg.SessionDuration > b.cfg.WindowEnd {
					b.model.FixFalse(b.grid.at(sessionIdx, d, start))
				}
			}
		}
		b.model.AddExactlyOne(b.grid.sessionVars(sessionIdx))
	}
}

// addTeacherAvailabilityConstraints pins a variable to false unless the full
// session window fits inside one of the teacher's declared intervals for
// that calendar date.
func (b *modelBuilder) addTeacherAvailabilityConstraints() {
	for sessionIdx, session := range b.grid.sessions {
		availability := b.courses[session.CourseID].Teacher.Availability
		for d, day := range b.eligible {
			dateKey := day.DateKey()
			for start := b.cfg.WindowStart; start+b.cfg.SessionDuration <= b.cfg.WindowEnd; start++ {
				if !availability.Covers(dateKey, start, start+b.cfg.SessionDuration) {
					b.model.FixFalse(b.grid.at(sessionIdx, d, start))
				}
			}
		}
	}
}

// addTeacherOverlapConstraints forbids a teacher from running two sessions
// that overlap at any time unit, not merely sessions sharing a start offset.
func (b *modelBuilder) addTeacherOverlapConstraints() {
	for _, group := range b.sessionsByTeacher() {
		if len(group) < 2 {
			continue
		}
		b.addOccupancyCeiling(group, 1)
	}
}

// addRoomCapacityConstraints bounds simultaneous sessions across all
// teachers by the room count.
func (b *modelBuilder) addRoomCapacityConstraints() {
	all := make([]int, len(b.grid.sessions))
	for i := range all {
		all[i] = i
	}
	if len(all) > b.cfg.RoomCount {
		b.addOccupancyCeiling(all, b.cfg.RoomCount)
	}
}

// addOccupancyCeiling emits, for every (day, time unit), an at-most-k
// constraint over the variables of the given sessions whose occupancy
// window [start, start+duration) covers that unit.
func (b *modelBuilder) addOccupancyCeiling(sessionIdxs []int, ceiling int) {
	duration := b.cfg.SessionDuration
	for d := range b.eligible {
		for t := b.cfg.WindowStart; t < b.cfg.WindowEnd; t++ {
			earliest := t - duration + 1
			if earliest < b.cfg.WindowStart {
				earliest = b.cfg.WindowStart
			}
			active := make([]solver.Var, 0, len(sessionIdxs)*duration)
			for _, sessionIdx := range sessionIdxs {
				for start := earliest; start <= t && start+duration <= b.cfg.WindowEnd; start++ {
					active = append(active, b.grid.at(sessionIdx, d, start))
				}
			}
			if len(active) > ceiling {
				b.model.AddAtMost(active, ceiling)
			}
		}
	}
}

// sessionsByTeacher groups session indexes by teacher ID, preserving the
// course input order so constraint emission stays deterministic.
func (b *modelBuilder) sessionsByTeacher() [][]int {
	var order []string
	groups := make(map[string][]int)
	for sessionIdx, session := range b.grid.sessions {
		teacherID := b.courses[session.CourseID].Teacher.ID
		if _, seen := groups[teacherID]; !seen {
			order = append(order, teacherID)
		}
		groups[teacherID] = append(groups[teacherID], sessionIdx)
	}

	result := make([][]int, 0, len(order))
	for _, teacherID := range order {
		result = append(result, groups[teacherID])
	}
	return result
}
