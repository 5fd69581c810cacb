package model

import (
	"time"
)

// NoProof is stored in the Proof column when a submission came without a screenshot.
const NoProof = "No Proof"

// DefaultStepGoal applies until an admin sets a goal.
const DefaultStepGoal = 10000

// StepRecord is one submission. Records are never updated or deleted.
type StepRecord struct {
	ID                   string    `db:"id" json:"-"`
	Name                 string    `db:"name" json:"name"`
	Steps                int       `db:"steps" json:"steps"`
	Timestamp            time.Time `db:"submitted_at" json:"timestamp"` // zero when the stored value was unreadable
	Proof                string    `db:"proof" json:"proof"`
	StepGoalAtSubmission int       `db:"step_goal_at_submission" json:"step_goal_at_submission"`
	Completed            bool      `db:"completed" json:"completed"`
}

func (r *StepRecord) HasProof() bool {
	return r.Proof != "" && r.Proof != NoProof
}

// HasTimestamp is false for records whose persisted timestamp could not be parsed.
func (r *StepRecord) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
