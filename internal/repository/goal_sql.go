package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/templui/stepboard/internal/model"
)

const settingStepGoal = "step_goal"

type sqlGoalRepository struct {
	db *sqlx.DB
}

// NewSQLGoalRepository keeps the goal in the settings table.
func NewSQLGoalRepository(db *sqlx.DB) GoalRepository {
	return &sqlGoalRepository{db: db}
}

func (r *sqlGoalRepository) Goal(ctx context.Context) (int, error) {
	var value string
	query := `SELECT value FROM settings WHERE name = $1`

	err := r.db.GetContext(ctx, &value, query, settingStepGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultStepGoal, nil
	}
	if err != nil {
		return 0, err
	}

	goal, err := strconv.Atoi(value)
	if err != nil || goal < 1 {
		slog.Warn("unreadable goal setting, using default", "value", value, "default", model.DefaultStepGoal)
		return model.DefaultStepGoal, nil
	}

	return goal, nil
}

func (r *sqlGoalRepository) SetGoal(ctx context.Context, goal int) error {
	if goal < 1 {
		return ErrInvalidGoal
	}

	query := `INSERT INTO settings (name, value) VALUES ($1, $2)
	          ON CONFLICT (name) DO UPDATE SET value = excluded.value`

	_, err := r.db.ExecContext(ctx, query, settingStepGoal, strconv.Itoa(goal))
	if err != nil {
		return fmt.Errorf("%w: save step goal: %v", ErrPersistence, err)
	}

	return nil
}
