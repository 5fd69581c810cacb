package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/repository"
)

func TestGoal_DefaultsTo10000(t *testing.T) {
	f := newFixture(t, time.Now())

	goal, err := f.goals.Goal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultStepGoal, goal)
}

func TestSetGoal_RequiresAdmin(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	err := f.goals.SetGoal(ctx, false, 12000)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	goal, err := f.goals.Goal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10000, goal)
}

func TestSetGoal_AdminOverwrites(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	require.NoError(t, f.goals.SetGoal(ctx, true, 12000))
	require.NoError(t, f.goals.SetGoal(ctx, true, 8000))

	goal, err := f.goals.Goal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8000, goal)

	rec := f.submit(t, "Alice", 9000)
	assert.Equal(t, 8000, rec.StepGoalAtSubmission)
	assert.True(t, rec.Completed)
}

func TestSetGoal_RejectsNonPositive(t *testing.T) {
	f := newFixture(t, time.Now())

	err := f.goals.SetGoal(context.Background(), true, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidGoal)
}
