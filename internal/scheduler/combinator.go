package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
	"github.com/DaniOmer/planning-automation-backend/internal/solver"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
)

// DefaultTimeBudget bounds a solve when the caller does not set one.
const DefaultTimeBudget = 30 * time.Second

// Config carries the scheduling parameters for one solve.
type Config struct {
	// SessionDuration is the fixed length of every session, in the same
	// time unit as the daily window.
	SessionDuration int
	// WindowStart and WindowEnd bound the working day as [start, end)
	// offsets from midnight.
	WindowStart int
	WindowEnd   int
	// RoomCount caps simultaneous sessions across all teachers.
	RoomCount int
	// TimeBudget limits the search; zero selects DefaultTimeBudget.
	TimeBudget time.Duration
	// Workers sets the number of parallel searches; zero or one runs a
	// single deterministic search.
	Workers int
}

// Combinator builds and solves the constraint model for one scheduling
// problem. It holds no state across Solve calls beyond its inputs; each call
// constructs a fresh model, so independent combinators may run concurrently.
type Combinator struct {
	calendar []models.CalendarDay
	courses  []models.Course
	cfg      Config
	logger   *zap.Logger

	eligible   []models.CalendarDay
	courseByID map[string]models.Course
}

// NewCombinator validates the inputs and prepares a solver instance. It
// fails fast with INVALID_CONFIGURATION before any model is built.
// Availability interval cleanliness (sorted, disjoint) is a caller
// precondition enforced at the request boundary.
func NewCombinator(calendar []models.CalendarDay, courses []models.Course, cfg Config, logger *zap.Logger) (*Combinator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionDuration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration,
			fmt.Sprintf("session duration must be positive, got %d", cfg.SessionDuration))
	}
	if cfg.WindowStart < 0 || cfg.WindowStart >= cfg.WindowEnd {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration,
			fmt.Sprintf("daily window [%d, %d) is malformed", cfg.WindowStart, cfg.WindowEnd))
	}
	if cfg.RoomCount <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration,
			fmt.Sprintf("room count must be positive, got %d", cfg.RoomCount))
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration, "course list is empty")
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = DefaultTimeBudget
	}

	courseByID := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		if err := course.Validate(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidConfiguration.Code, "invalid course")
		}
		if _, dup := courseByID[course.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration,
				fmt.Sprintf("duplicate course id %s", course.ID))
		}
		courseByID[course.ID] = course
	}
	for _, day := range calendar {
		if err := day.Validate(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidConfiguration.Code, "invalid calendar day")
		}
	}

	return &Combinator{
		calendar:   calendar,
		courses:    courses,
		cfg:        cfg,
		logger:     logger,
		eligible:   models.EligibleDays(calendar),
		courseByID: courseByID,
	}, nil
}

// Solve expands sessions, builds the boolean grid, applies the four
// constraint families and runs the search. The result status distinguishes
// a proven infeasibility from an exhausted time budget.
func (c *Combinator) Solve(ctx context.Context) (*models.SolveResult, error) {
	start := time.Now()

	sessions, err := ExpandSessions(c.courses, c.cfg.SessionDuration)
	if err != nil {
		return nil, err
	}

	model := solver.NewModel()
	grid := buildVariables(model, sessions, len(c.eligible), c.cfg.WindowStart, c.cfg.WindowEnd)

	builder := &modelBuilder{
		model:    model,
		grid:     grid,
		courses:  c.courseByID,
		eligible: c.eligible,
		cfg:      c.cfg,
	}
	builder.addSessionSlotConstraints()
	builder.addTeacherAvailabilityConstraints()
	builder.addTeacherOverlapConstraints()
	builder.addRoomCapacityConstraints()

	c.logger.Sugar().Infow("model built",
		"sessions", len(sessions),
		"eligible_days", len(c.eligible),
		"window_width", c.cfg.WindowEnd-c.cfg.WindowStart,
		"variables", model.NumVars(),
		"constraints", model.NumConstraints(),
	)

	solveCtx, cancel := context.WithTimeout(ctx, c.cfg.TimeBudget)
	defer cancel()

	status, solution := model.Solve(solveCtx, solver.Options{Workers: c.cfg.Workers})

	result := &models.SolveResult{
		Stats: models.SolveStats{
			Sessions:    len(sessions),
			Variables:   model.NumVars(),
			Constraints: model.NumConstraints(),
			Duration:    time.Since(start),
		},
	}

	switch status {
	case solver.StatusFeasible:
		scheduled, err := c.extract(sessions, grid, solution)
		if err != nil {
			return nil, err
		}
		result.Status = models.StatusFeasible
		result.Sessions = scheduled
	case solver.StatusInfeasible:
		result.Status = models.StatusInfeasible
	default:
		result.Status = models.StatusTimedOut
	}

	c.logger.Sugar().Infow("solve finished",
		"status", result.Status,
		"duration", result.Stats.Duration,
	)
	return result, nil
}
