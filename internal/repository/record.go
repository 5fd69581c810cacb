package repository

import (
	"context"
	"errors"

	"github.com/templui/stepboard/internal/model"
)

var (
	// ErrPersistence wraps every failure to write to the underlying medium.
	ErrPersistence = errors.New("persistence failure")
	// ErrMalformedStore is returned when a stored table cannot be interpreted at all.
	ErrMalformedStore = errors.New("malformed record store")
)

// RecordRepository is an append-only store of step submissions.
// Records are never updated or deleted.
type RecordRepository interface {
	// Records returns every stored record in insertion order.
	// A store that does not exist yet yields an empty slice.
	Records(ctx context.Context) ([]*model.StepRecord, error)
	// Append adds one record, leaving all earlier records untouched.
	Append(ctx context.Context, record *model.StepRecord) error
}
