package repository

import (
	"context"
	"errors"
)

var (
	ErrInvalidGoal = errors.New("step goal must be at least 1")
)

// GoalRepository persists the single current daily step goal.
type GoalRepository interface {
	// Goal returns the stored goal, or model.DefaultStepGoal when none was set.
	Goal(ctx context.Context) (int, error)
	SetGoal(ctx context.Context, goal int) error
}
