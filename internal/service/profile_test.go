package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/stepboard/internal/model"
)

func TestProfileOf_NewestFirstMissingLast(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	records := []*model.StepRecord{
		record("Alice", 1000, base),
		record("Alice", 2000, time.Time{}),
		record("Bob", 9000, base.Add(time.Hour)),
		record("alice", 3000, base.Add(2*time.Hour)),
	}

	profile := ProfileOf(records, "Alice", 2500)

	require.Len(t, profile.Entries, 3)
	assert.Equal(t, 3000, profile.Entries[0].Steps)
	assert.Equal(t, 1000, profile.Entries[1].Steps)
	assert.Equal(t, 2000, profile.Entries[2].Steps)
	assert.True(t, profile.Entries[0].Completed)
	assert.False(t, profile.Entries[1].Completed)
	assert.Equal(t, 2500, profile.Goal)
}

func TestProfile_SearchNormalizesName(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	f.submit(t, "Alice Smith", 4000)

	profile, err := f.leaderboard.Profile(context.Background(), "  alice   SMITH ")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", profile.Name)
	require.Len(t, profile.Entries, 1)
	assert.Equal(t, model.NoProof, profile.Entries[0].Proof)
}

func TestProfile_NotFound(t *testing.T) {
	f := newFixture(t, time.Now())
	f.submit(t, "Alice", 4000)

	_, err := f.leaderboard.Profile(context.Background(), "Zed")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = f.leaderboard.Profile(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestParticipants_SortedAndUnique(t *testing.T) {
	f := newFixture(t, time.Now())
	f.submit(t, "carol", 1)
	f.submit(t, "Alice", 1)
	f.submit(t, "ALICE", 1)

	names, err := f.leaderboard.Participants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Carol"}, names)
}
