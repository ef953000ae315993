package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/DaniOmer/planning-automation-backend/internal/dto"
	"github.com/DaniOmer/planning-automation-backend/internal/models"
	"github.com/DaniOmer/planning-automation-backend/internal/service"
	"github.com/DaniOmer/planning-automation-backend/pkg/config"
	appErrors "github.com/DaniOmer/planning-automation-backend/pkg/errors"
	"github.com/DaniOmer/planning-automation-backend/pkg/logger"
)

func main() {
	var (
		inputPath  string
		outputPath string
		timeBudget time.Duration
	)

	flag.StringVar(&inputPath, "input", "", "Path to a JSON solve request")
	flag.StringVar(&outputPath, "output", "", "Path to write the schedule JSON (default stdout)")
	flag.DurationVar(&timeBudget, "time-budget", 0, "Override the configured solver time budget")
	flag.Parse()

	if inputPath == "" {
		log.Fatal("missing required -input flag")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if timeBudget > 0 {
		cfg.Solver.TimeBudget = timeBudget
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	req, err := loadRequest(inputPath)
	if err != nil {
		logr.Sugar().Fatalw("failed to load solve request", "path", inputPath, "error", err)
	}

	metrics := service.NewMetricsService()
	planner := service.NewPlannerService(cfg.Solver, cfg.Jobs, nil, logr, metrics)

	resp, err := planner.Solve(context.Background(), *req)
	if err != nil {
		appErr := appErrors.FromError(err)
		logr.Sugar().Errorw("solve failed", "code", appErr.Code, "error", appErr)
		os.Exit(1)
	}

	if err := writeResponse(outputPath, resp); err != nil {
		logr.Sugar().Fatalw("failed to write schedule", "path", outputPath, "error", err)
	}

	logr.Sugar().Infow("solve completed",
		"schedule_id", resp.ScheduleID,
		"status", resp.Status,
		"sessions", len(resp.Sessions),
		"duration_ms", resp.Stats.DurationMS,
	)

	// Make the terminal status visible to calling scripts.
	switch resp.Status {
	case string(models.StatusInfeasible):
		os.Exit(2)
	case string(models.StatusTimedOut):
		os.Exit(3)
	}
}

func loadRequest(path string) (*dto.SolveRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var req dto.SolveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("input is not a valid solve request: " + err.Error())
	}
	return &req, nil
}

func writeResponse(path string, resp *dto.SolveResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
