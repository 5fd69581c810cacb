package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/repository"
	"github.com/templui/stepboard/internal/validation"
)

type failingRecords struct {
	appended int
}

func (r *failingRecords) Records(ctx context.Context) ([]*model.StepRecord, error) {
	return []*model.StepRecord{}, nil
}

func (r *failingRecords) Append(ctx context.Context, record *model.StepRecord) error {
	r.appended++
	return repository.ErrPersistence
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSubmit_BlankNameIsDropped(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t\n"} {
		rec, err := f.submissions.Submit(ctx, SubmitInput{Name: name, Steps: 5000})
		require.NoError(t, err)
		assert.Nil(t, rec)
	}

	records, err := f.records.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmit_InvalidSteps(t *testing.T) {
	f := newFixture(t, time.Now())

	for _, steps := range []int{0, -5} {
		_, err := f.submissions.Submit(context.Background(), SubmitInput{Name: "Alice", Steps: steps})
		assert.ErrorIs(t, err, ErrInvalidSteps)
	}

	records, err := f.records.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmit_NameTooLong(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.submissions.Submit(context.Background(), SubmitInput{Name: strings.Repeat("a", 101), Steps: 1})
	assert.ErrorIs(t, err, validation.ErrNameTooLong)
}

func TestSubmit_RecordFields(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)

	rec := f.submit(t, "  bob   smith ", 12000)

	assert.Equal(t, "Bob Smith", rec.Name)
	assert.Equal(t, 12000, rec.Steps)
	assert.True(t, now.Equal(rec.Timestamp))
	assert.Equal(t, model.NoProof, rec.Proof)
	assert.Equal(t, 10000, rec.StepGoalAtSubmission)
	assert.True(t, rec.Completed)

	records, err := f.records.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bob Smith", records[0].Name)
}

func TestSubmit_RawProofStoredUnchanged(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)
	data := []byte("not really a png, stored as is")

	rec, err := f.submissions.Submit(context.Background(), SubmitInput{
		Name:     "alice",
		Steps:    3000,
		Proof:    &ProofUpload{Filename: "shot.png", Content: bytes.NewReader(data)},
		ProofRef: "ignored.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice_20250310142201.png", rec.Proof)
	stored, err := os.ReadFile(filepath.Join(f.dir, "uploads", rec.Proof))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSubmit_UsesCompressedProofRef(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)
	ctx := context.Background()

	key, err := f.proofs.StoreCompressed(ctx, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "20250310142201.jpg", key)

	rec, err := f.submissions.Submit(ctx, SubmitInput{Name: "Alice", Steps: 3000, ProofRef: key})
	require.NoError(t, err)
	assert.Equal(t, key, rec.Proof)
	assert.True(t, rec.HasProof())
}

func TestSubmit_UnknownProofRef(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.submissions.Submit(context.Background(), SubmitInput{Name: "Alice", Steps: 3000, ProofRef: "missing.jpg"})
	assert.ErrorIs(t, err, ErrUnknownProof)
}

func TestSubmit_ProofRefMustBeCompressedKey(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)
	ctx := context.Background()

	// Bob's raw upload exists in storage but is not a compressed upload key
	bobs, err := f.proofs.StoreRaw(ctx, "Bob", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, f.proofs.Exists(ctx, bobs))

	for _, ref := range []string{bobs, "../leaderboard.csv", "20250310142201.png", "2025031014220.jpg"} {
		_, err = f.submissions.Submit(ctx, SubmitInput{Name: "Mallory", Steps: 3000, ProofRef: ref})
		assert.ErrorIs(t, err, ErrUnknownProof, ref)
	}

	records, err := f.records.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmit_RawProofWithDotsInName(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)

	rec, err := f.submissions.Submit(context.Background(), SubmitInput{
		Name:  "j.. doe",
		Steps: 3000,
		Proof: &ProofUpload{Filename: "shot.png", Content: bytes.NewReader([]byte("img"))},
	})
	require.NoError(t, err)

	assert.Equal(t, "J.. Doe", rec.Name)
	assert.Equal(t, "J_ Doe_20250310142201.png", rec.Proof)
	assert.True(t, f.proofs.Exists(context.Background(), rec.Proof))
}

func TestSubmit_AppendFailureRemovesProof(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)
	records := &failingRecords{}
	submissions := NewSubmissionService(records, f.goals, f.proofs, func() time.Time { return now })

	_, err := submissions.Submit(context.Background(), SubmitInput{
		Name:  "Alice",
		Steps: 3000,
		Proof: &ProofUpload{Filename: "shot.png", Content: bytes.NewReader([]byte("img"))},
	})

	assert.ErrorIs(t, err, repository.ErrPersistence)
	assert.Equal(t, 1, records.appended)
	_, statErr := os.Stat(filepath.Join(f.dir, "uploads", "Alice_20250310142201.png"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestStoreCompressed_ReencodesAsJPEG(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)

	key, err := f.proofs.StoreCompressed(context.Background(), bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	rc, err := f.proofs.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()

	img, err := jpeg.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestStoreCompressed_RejectsNonImage(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.proofs.StoreCompressed(context.Background(), strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestStoreRaw_StripsPathSeparators(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC)
	f := newFixture(t, now)

	key, err := f.proofs.StoreRaw(context.Background(), "A/B", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "A-B_20250310142201.png", key)
	assert.True(t, f.proofs.Exists(context.Background(), key))

	for name, want := range map[string]string{
		"..":       "_",
		"a...b":    "a_.b",
		"../../up": "_-_-up",
		"J. Doe":   "J. Doe",
	} {
		assert.Equal(t, want, keySafe(name), name)
	}
}
