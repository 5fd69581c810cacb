package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/stepboard/internal/model"
)

type sqlRecordRepository struct {
	db *sqlx.DB
}

// NewSQLRecordRepository stores records in the step_records table.
// Insertion order is kept by the table's autoincrementing seq column.
func NewSQLRecordRepository(db *sqlx.DB) RecordRepository {
	return &sqlRecordRepository{db: db}
}

func (r *sqlRecordRepository) Records(ctx context.Context) ([]*model.StepRecord, error) {
	records := []*model.StepRecord{}
	query := `SELECT id, name, steps, submitted_at, proof, step_goal_at_submission, completed
	          FROM step_records ORDER BY seq ASC`

	err := r.db.SelectContext(ctx, &records, query)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *sqlRecordRepository) Append(ctx context.Context, record *model.StepRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	proof := record.Proof
	if proof == "" {
		proof = model.NoProof
	}

	query := `INSERT INTO step_records (id, name, steps, submitted_at, proof, step_goal_at_submission, completed)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		record.Steps,
		record.Timestamp,
		proof,
		record.StepGoalAtSubmission,
		record.Completed,
	)
	if err != nil {
		return fmt.Errorf("%w: insert step record: %v", ErrPersistence, err)
	}

	return nil
}
