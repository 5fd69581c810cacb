package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/stepboard/internal/model"
)

func TestLeaderboard_DailySumAcrossSubmissions(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	ctx := context.Background()

	first := f.submit(t, "Alice", 4000)
	f.now = now.Add(6 * time.Hour)
	second := f.submit(t, "alice", 7000)

	assert.False(t, first.Completed)
	assert.False(t, second.Completed)

	board, err := f.leaderboard.Leaderboard(ctx, model.ViewDaily)
	require.NoError(t, err)

	assert.Equal(t, model.ViewDaily, board.View)
	assert.Equal(t, model.DefaultStepGoal, board.Goal)
	assert.Equal(t, []*model.LeaderboardRow{
		{Rank: 1, Name: "Alice", Steps: 11000, Completed: boolPtr(true)},
	}, board.Rows)
}

func TestAggregate_WeeklyWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []*model.StepRecord{
		record("Bob", 8000, now.AddDate(0, 0, -10)),
		record("Bob", 3000, now.AddDate(0, 0, -3)),
	}

	rows := Aggregate(records, model.ViewWeekly, now, 10000)

	require.Len(t, rows, 1)
	assert.Equal(t, 3000, rows[0].Steps)
	assert.Nil(t, rows[0].Completed)
}

func TestAggregate_MonthlyAndAllViews(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []*model.StepRecord{
		record("Bob", 1000, now.AddDate(0, 0, -45)),
		record("Bob", 2000, now.AddDate(0, 0, -29)),
		record("Bob", 4000, time.Time{}),
	}

	monthly := Aggregate(records, model.ViewMonthly, now, 10000)
	require.Len(t, monthly, 1)
	assert.Equal(t, 2000, monthly[0].Steps)

	all := Aggregate(records, model.ViewAll, now, 10000)
	require.Len(t, all, 1)
	assert.Equal(t, 7000, all[0].Steps)
	assert.Nil(t, all[0].Completed)
}

func TestAggregate_DailyUsesCalendarDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, loc)
	records := []*model.StepRecord{
		record("Alice", 5000, now.Add(-40*time.Minute)),
		record("Bob", 6000, now.Add(-10*time.Minute)),
		// Same instant expressed in UTC still falls on March 10 locally.
		record("Carol", 7000, now.Add(-5*time.Minute).UTC()),
	}

	rows := Aggregate(records, model.ViewDaily, now, 10000)

	require.Len(t, rows, 2)
	assert.Equal(t, "Carol", rows[0].Name)
	assert.Equal(t, "Bob", rows[1].Name)
}

func TestAggregate_MissingTimestampsExcludedFromWindows(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []*model.StepRecord{record("Alice", 5000, time.Time{})}

	for _, view := range model.Views {
		assert.Empty(t, Aggregate(records, view, now, 10000), view)
	}
}

func TestAggregate_RankOrderAndTies(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []*model.StepRecord{
		record("Bob", 5000, now),
		record("Carol", 9000, now),
		record("Alice", 5000, now),
		record("dave", 1000, now),
		record("  DAVE ", 500, now),
	}

	rows := Aggregate(records, model.ViewDaily, now, 10000)

	require.Len(t, rows, 4)
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
		assert.Equal(t, i+1, row.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].Steps, row.Steps)
		}
	}
	assert.Equal(t, []string{"Carol", "Alice", "Bob", "Dave"}, names)
	assert.Equal(t, 1500, rows[3].Steps)
}

func TestAggregate_CompletionUsesLiveGoal(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := record("Alice", 8000, now)
	rec.StepGoalAtSubmission = 10000
	rec.Completed = false

	rows := Aggregate([]*model.StepRecord{rec}, model.ViewDaily, now, 5000)

	require.Len(t, rows, 1)
	assert.Equal(t, boolPtr(true), rows[0].Completed)
}

func TestLeaderboard_GoalChangeAffectsDailyCompletion(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	ctx := context.Background()

	rec := f.submit(t, "Alice", 8000)
	assert.False(t, rec.Completed)

	require.NoError(t, f.goals.SetGoal(ctx, true, 5000))

	board, err := f.leaderboard.Leaderboard(ctx, model.ViewDaily)
	require.NoError(t, err)
	require.Len(t, board.Rows, 1)
	assert.Equal(t, 5000, board.Goal)
	assert.True(t, *board.Rows[0].Completed)

	records, err := f.records.Records(ctx)
	require.NoError(t, err)
	assert.False(t, records[0].Completed)
	assert.Equal(t, 10000, records[0].StepGoalAtSubmission)
}

func TestLeaderboard_EmptyStore(t *testing.T) {
	f := newFixture(t, time.Now())

	board, err := f.leaderboard.Leaderboard(context.Background(), model.ViewWeekly)
	require.NoError(t, err)
	assert.Empty(t, board.Rows)
}
