package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/stepboard/internal/metrics"
	"github.com/templui/stepboard/internal/repository"
)

var (
	ErrNotAuthorized = errors.New("admin access required")
)

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

// Goal returns the step goal in effect right now
func (s *GoalService) Goal(ctx context.Context) (int, error) {
	goal, err := s.repo.Goal(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load step goal: %w", err)
	}
	metrics.CurrentGoal.Set(float64(goal))
	return goal, nil
}

// SetGoal overwrites the daily goal. Only admins may call it; past records
// keep the goal they were submitted under.
func (s *GoalService) SetGoal(ctx context.Context, isAdmin bool, goal int) error {
	if !isAdmin {
		return ErrNotAuthorized
	}

	err := s.repo.SetGoal(ctx, goal)
	if err != nil {
		return err
	}

	metrics.CurrentGoal.Set(float64(goal))
	slog.Info("step goal updated", "goal", goal)
	return nil
}
