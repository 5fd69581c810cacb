package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/repository"
	"github.com/templui/stepboard/internal/storage"
)

type fixture struct {
	dir         string
	now         time.Time
	records     repository.RecordRepository
	goals       *GoalService
	proofs      *ProofService
	submissions *SubmissionService
	leaderboard *LeaderboardService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	f := &fixture{
		dir:     dir,
		now:     now,
		records: repository.NewCSVRecordRepository(filepath.Join(dir, "leaderboard.csv"), now.Location()),
	}
	clock := func() time.Time { return f.now }

	f.goals = NewGoalService(repository.NewFileGoalRepository(filepath.Join(dir, "daily_goal.txt")))
	f.proofs = NewProofService(store, clock)
	f.submissions = NewSubmissionService(f.records, f.goals, f.proofs, clock)
	f.leaderboard = NewLeaderboardService(f.records, f.goals, clock)
	return f
}

func (f *fixture) submit(t *testing.T, name string, steps int) *model.StepRecord {
	t.Helper()
	record, err := f.submissions.Submit(context.Background(), SubmitInput{Name: name, Steps: steps})
	require.NoError(t, err)
	return record
}

func record(name string, steps int, ts time.Time) *model.StepRecord {
	return &model.StepRecord{
		Name:                 name,
		Steps:                steps,
		Timestamp:            ts,
		Proof:                model.NoProof,
		StepGoalAtSubmission: model.DefaultStepGoal,
		Completed:            steps >= model.DefaultStepGoal,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
