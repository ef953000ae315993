package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DaniOmer/planning-automation-backend/internal/dto"
	"github.com/DaniOmer/planning-automation-backend/internal/models"
	"github.com/DaniOmer/planning-automation-backend/internal/scheduler"
	"github.com/DaniOmer/planning-automation-backend/pkg/config"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
	"github.com/DaniOmer/planning-automation-backend/pkg/jobs"
)

// Service-level statuses for asynchronous solves; terminal solver statuses
// come from the engine itself.
const (
	StatusPending = "PENDING"
	StatusFailed  = "FAILED"
)

// PlannerService validates scheduling requests, runs the combinator and
// keeps results addressable by id. It supports both synchronous solves and
// queued background solves.
type PlannerService struct {
	solverCfg config.SolverConfig
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	store     *resultStore
	queue     *jobs.Queue
}

// NewPlannerService wires the planner dependencies.
func NewPlannerService(solverCfg config.SolverConfig, jobsCfg config.JobsConfig, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if solverCfg.ResultTTL <= 0 {
		solverCfg.ResultTTL = 30 * time.Minute
	}

	s := &PlannerService{
		solverCfg: solverCfg,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		store:     newResultStore(solverCfg.ResultTTL),
	}
	s.queue = jobs.NewQueue("planner-solves", s.handleSolveJob, jobs.Options{
		Workers:    jobsCfg.Workers,
		BufferSize: jobsCfg.BufferSize,
		MaxRetries: jobsCfg.MaxRetries,
		RetryDelay: jobsCfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the background solve workers.
func (s *PlannerService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the background solve workers.
func (s *PlannerService) Stop() {
	s.queue.Stop()
}

// Solve runs a scheduling problem to completion and stores the outcome
// under a fresh schedule id.
func (s *PlannerService) Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error) {
	result, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := dto.FromResult(uuid.NewString(), result)
	s.store.Save(resp.ScheduleID, resp)
	return resp, nil
}

// SubmitSolve queues a solve for background execution and returns the
// schedule id the outcome will be stored under.
func (s *PlannerService) SubmitSolve(ctx context.Context, req dto.SolveRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid solve payload")
	}

	scheduleID := uuid.NewString()
	s.store.Save(scheduleID, &dto.SolveResponse{ScheduleID: scheduleID, Status: StatusPending})

	err := s.queue.Enqueue(jobs.Job{ID: scheduleID, Type: "solve", Payload: req})
	if err != nil {
		s.store.Delete(scheduleID)
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to queue solve")
	}
	return scheduleID, nil
}

// Get fetches a stored solve outcome by schedule id.
func (s *PlannerService) Get(scheduleID string) (*dto.SolveResponse, error) {
	if scheduleID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	resp, ok := s.store.Get(scheduleID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found or expired")
	}
	return resp, nil
}

func (s *PlannerService) handleSolveJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.SolveRequest)
	if !ok {
		s.store.Save(job.ID, &dto.SolveResponse{ScheduleID: job.ID, Status: StatusFailed})
		return nil
	}

	result, err := s.run(ctx, req)
	if err != nil {
		s.logger.Sugar().Errorw("background solve failed", "schedule_id", job.ID, "error", err)
		s.store.Save(job.ID, &dto.SolveResponse{ScheduleID: job.ID, Status: StatusFailed})
		return nil
	}

	resp := dto.FromResult(job.ID, result)
	s.store.Save(job.ID, resp)
	return nil
}

// run validates, converts and solves one request.
func (s *PlannerService) run(ctx context.Context, req dto.SolveRequest) (*models.SolveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid solve payload")
	}

	calendar, err := req.CalendarDays()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid calendar")
	}
	courses, err := req.CourseModels()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid courses")
	}

	// The engine documents interval cleanliness as a precondition; enforce
	// it here so malformed availability fails the request instead of
	// producing a silently wrong model.
	for _, course := range courses {
		if err := course.Teacher.Availability.Validate(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code,
				fmt.Sprintf("teacher %s has malformed availability", course.Teacher.ID))
		}
	}

	cfg, err := s.schedulerConfig(req)
	if err != nil {
		return nil, err
	}

	combinator, err := scheduler.NewCombinator(calendar, courses, cfg, s.logger)
	if err != nil {
		return nil, err
	}

	result, err := combinator.Solve(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSolve(string(result.Status), result.Stats.Duration, result.Stats.Variables)
	return result, nil
}

// schedulerConfig merges per-request knobs over the configured defaults. A
// time budget that does not parse as a positive duration rejects the request
// rather than falling back to the default.
func (s *PlannerService) schedulerConfig(req dto.SolveRequest) (scheduler.Config, error) {
	cfg := scheduler.Config{
		SessionDuration: req.SessionDuration,
		WindowStart:     req.WindowStart,
		WindowEnd:       req.WindowEnd,
		RoomCount:       req.RoomCount,
		TimeBudget:      s.solverCfg.TimeBudget,
		Workers:         s.solverCfg.Workers,
	}
	if req.TimeBudget != "" {
		budget, err := time.ParseDuration(req.TimeBudget)
		if err != nil {
			return scheduler.Config{}, appErrors.Wrap(err, appErrors.ErrValidation.Code,
				fmt.Sprintf("invalid time budget %q", req.TimeBudget))
		}
		if budget <= 0 {
			return scheduler.Config{}, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("time budget %q must be positive", req.TimeBudget))
		}
		cfg.TimeBudget = budget
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	return cfg, nil
}
