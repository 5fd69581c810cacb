package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/stepboard/internal/model"
)

func newTestCSVRepo(t *testing.T) (RecordRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaderboard.csv")
	return NewCSVRecordRepository(path, time.UTC), path
}

func testRecord(name string, steps int, ts time.Time) *model.StepRecord {
	return &model.StepRecord{
		Name:                 name,
		Steps:                steps,
		Timestamp:            ts,
		Proof:                model.NoProof,
		StepGoalAtSubmission: 10000,
		Completed:            steps >= 10000,
	}
}

func TestCSVRecords_MissingFileIsEmpty(t *testing.T) {
	repo, _ := newTestCSVRepo(t)

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCSVAppend_CreatesFileWithHeader(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	ts := time.Date(2025, 3, 10, 14, 22, 1, 123456000, time.UTC)

	require.NoError(t, repo.Append(context.Background(), testRecord("Alice", 4000, ts)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Name,Steps,Timestamp,Proof,stepgoalatsubmission,Completed\n"+
			"Alice,4000,2025-03-10 14:22:01.123456,No Proof,10000,False\n",
		string(data))
}

func TestCSVAppend_PreservesPriorRecordsInOrder(t *testing.T) {
	repo, _ := newTestCSVRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testRecord("Alice", 4000, base)))
	require.NoError(t, repo.Append(ctx, testRecord("Bob", 12000, base.Add(time.Hour))))

	before, err := repo.Records(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	// Earlier wall-clock time than existing rows; storage order still follows insertion.
	late := testRecord("Carol", 7000, base.Add(-time.Hour))
	require.NoError(t, repo.Append(ctx, late))

	after, err := repo.Records(ctx)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, before, after[:2])
	assert.Equal(t, "Carol", after[2].Name)
	assert.Equal(t, 7000, after[2].Steps)
	assert.True(t, late.Timestamp.Equal(after[2].Timestamp))
}

func TestCSVRecords_IdempotentLoad(t *testing.T) {
	repo, _ := newTestCSVRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testRecord("Alice", 4000, now)))
	require.NoError(t, repo.Append(ctx, testRecord("Alice", 11000, now.Add(time.Minute))))

	first, err := repo.Records(ctx)
	require.NoError(t, err)
	second, err := repo.Records(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCSVRecords_MalformedTimestampBecomesMissing(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	content := "Name,Steps,Timestamp,Proof,stepgoalatsubmission,Completed\n" +
		"Alice,4000,not-a-date,No Proof,10000,False\n" +
		"Bob,5000,,uploads/20250310.jpg,10000,False\n" +
		"Carol,6000,2025-03-10 10:00:00,,10000,False\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.False(t, records[0].HasTimestamp())
	assert.False(t, records[1].HasTimestamp())
	assert.Equal(t, "uploads/20250310.jpg", records[1].Proof)
	assert.True(t, records[2].HasTimestamp())
	assert.Equal(t, model.NoProof, records[2].Proof)
}

func TestCSVRecords_LegacyColumnsAndFloatSteps(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	// Older files: goal column appended last, blank for rows written before it existed.
	content := "Name,Steps,Timestamp,Proof,Completed,stepgoalatsubmission\n" +
		"Alice,4000.0,2025-03-01 09:00:00.000001,No Proof,False,\n" +
		"Bob,12000,2025-03-02 09:00:00,No Proof,True,10000.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 4000, records[0].Steps)
	assert.Equal(t, 0, records[0].StepGoalAtSubmission)
	assert.False(t, records[0].Completed)
	assert.Equal(t, 12000, records[1].Steps)
	assert.Equal(t, 10000, records[1].StepGoalAtSubmission)
	assert.True(t, records[1].Completed)
}

func TestCSVAppend_RewritesLegacyHeaderOnce(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	content := "Name,Steps,Timestamp,Proof,Completed\n" +
		"Alice,4000,2025-03-01 09:00:00,No Proof,False\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ctx := context.Background()

	rec := testRecord("Bob", 12000, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Append(ctx, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name,Steps,Timestamp,Proof,stepgoalatsubmission,Completed\n")

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alice", records[0].Name)
	assert.Equal(t, "Bob", records[1].Name)
}

func TestCSVAppend_HandlesMissingTrailingNewline(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	content := "Name,Steps,Timestamp,Proof,stepgoalatsubmission,Completed\n" +
		"Alice,4000,2025-03-01 09:00:00,No Proof,10000,False"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, repo.Append(context.Background(), testRecord("Bob", 500, time.Now())))

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bob", records[1].Name)
}

func TestCSVRecords_MissingNameColumn(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("Steps,Timestamp\n10,2025-03-01\n"), 0644))

	_, err := repo.Records(context.Background())
	assert.ErrorIs(t, err, ErrMalformedStore)
}

func TestCSVAppend_UnwritableMedium(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	repo := NewCSVRecordRepository(filepath.Join(blocker, "leaderboard.csv"), time.UTC)

	err := repo.Append(context.Background(), testRecord("Alice", 1, time.Now()))
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestCSVAppend_LegacyMigrationKeepsRawRows(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	content := "Name,Steps,Timestamp,Proof,Completed,stepgoalatsubmission\n" +
		"Alice,4000,2025-03-01 09:00:00,No Proof,False,10000\n" +
		",3000,2025-03-01 10:00:00,No Proof,False,10000\n" +
		"Carol,abc,2025-03-01 11:00:00,No Proof,False,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rec := testRecord("Bob", 12000, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Append(context.Background(), rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Name,Steps,Timestamp,Proof,stepgoalatsubmission,Completed\n"+
			"Alice,4000,2025-03-01 09:00:00,No Proof,10000,False\n"+
			",3000,2025-03-01 10:00:00,No Proof,10000,False\n"+
			"Carol,abc,2025-03-01 11:00:00,No Proof,,False\n"+
			"Bob,12000,2025-03-02 09:00:00.000000,No Proof,10000,True\n",
		string(data))
}

func TestCSVAppend_KeepsExtraColumns(t *testing.T) {
	repo, path := newTestCSVRepo(t)
	content := "Name,Steps,Notes\n" +
		"Alice,4000,first day\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testRecord("Bob", 500, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.Append(ctx, testRecord("Carol", 600, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Name,Steps,Timestamp,Proof,stepgoalatsubmission,Completed,Notes\n"+
			"Alice,4000,,,,,first day\n"+
			"Bob,500,2025-03-02 09:00:00.000000,No Proof,10000,False,\n"+
			"Carol,600,2025-03-02 10:00:00.000000,No Proof,10000,False,\n",
		string(data))
}
