package scheduler

import (
	"github.com/DaniOmer/planning-automation-backend/internal/models"
	"github.com/DaniOmer/planning-automation-backend/internal/solver"
)

// varGrid holds one boolean variable per (session, eligible day, start
// offset) triple. Offsets span every unit of the daily window; infeasible
// combinations are pruned by constraints, not at construction time.
type varGrid struct {
	vars        []solver.Var
	sessions    []models.Session
	dayCount    int
	width       int
	windowStart int
}

func buildVariables(model *solver.Model, sessions []models.Session, eligibleDays int, windowStart, windowEnd int) *varGrid {
	width := windowEnd - windowStart
	grid := &varGrid{
		vars:        make([]solver.Var, 0, len(sessions)*eligibleDays*width),
		sessions:    sessions,
		dayCount:    eligibleDays,
		width:       width,
		windowStart: windowStart,
	}
	for range sessions {
		for d := 0; d < eligibleDays; d++ {
			for off := 0; off < width; off++ {
				grid.vars = append(grid.vars, model.NewBoolVar())
			}
		}
	}
	return grid
}

// at returns the variable for a session on eligible day d starting at the
// absolute offset start.
func (g *varGrid) at(sessionIdx, d, start int) solver.Var {
	off := start - g.windowStart
	return g.vars[(sessionIdx*g.dayCount+d)*g.width+off]
}

// sessionVars lists every variable belonging to one session.
func (g *varGrid) sessionVars(sessionIdx int) []solver.Var {
	base := sessionIdx * g.dayCount * g.width
	return g.vars[base : base+g.dayCount*g.width]
}
