package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/templui/stepboard/internal/model"
)

type fileGoalRepository struct {
	path string
}

// NewFileGoalRepository stores the goal as a single integer in a plain-text file.
func NewFileGoalRepository(path string) GoalRepository {
	return &fileGoalRepository{path: path}
}

func (r *fileGoalRepository) Goal(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.DefaultStepGoal, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read goal file: %w", err)
	}

	goal, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || goal < 1 {
		slog.Warn("unreadable goal file, using default", "path", r.path, "default", model.DefaultStepGoal)
		return model.DefaultStepGoal, nil
	}

	return goal, nil
}

func (r *fileGoalRepository) SetGoal(ctx context.Context, goal int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if goal < 1 {
		return ErrInvalidGoal
	}

	dir := filepath.Dir(r.path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".goal-*.txt")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	_, err = tmp.WriteString(strconv.Itoa(goal))
	if err == nil {
		err = tmp.Chmod(0644)
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, r.path)
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, r.path, err)
	}

	return nil
}
