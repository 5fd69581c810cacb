package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/templui/stepboard/internal/metrics"
	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/repository"
	"github.com/templui/stepboard/internal/validation"
)

var (
	ErrInvalidSteps = errors.New("steps must be at least 1")
	ErrUnknownProof = errors.New("uploaded proof was not found, please upload it again")
)

// compressedKeyPattern matches keys handed out by StoreCompressed. A proof_ref
// can only point at one of those, never at another participant's raw upload.
var compressedKeyPattern = regexp.MustCompile(`^\d{14}\.jpg$`)

type SubmitInput struct {
	Name  string
	Steps int
	// Proof is an image attached to the form itself. It takes precedence over ProofRef.
	Proof *ProofUpload
	// ProofRef is the key returned by an earlier compressed upload.
	ProofRef string
}

type SubmissionService struct {
	records repository.RecordRepository
	goals   *GoalService
	proofs  *ProofService
	now     Clock
}

func NewSubmissionService(records repository.RecordRepository, goals *GoalService, proofs *ProofService, now Clock) *SubmissionService {
	if now == nil {
		now = time.Now
	}
	return &SubmissionService{
		records: records,
		goals:   goals,
		proofs:  proofs,
		now:     now,
	}
}

// Submit appends one record. A blank name is dropped silently and returns
// (nil, nil) so the caller can leave the page unchanged.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*model.StepRecord, error) {
	name := validation.NormalizeName(in.Name)
	if name == "" {
		slog.Debug("submission without name ignored")
		return nil, nil
	}

	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	if in.Steps < 1 {
		return nil, ErrInvalidSteps
	}

	goal, err := s.goals.Goal(ctx)
	if err != nil {
		return nil, err
	}

	proof, stored, err := s.resolveProof(ctx, name, in)
	if err != nil {
		return nil, err
	}

	record := &model.StepRecord{
		Name:                 name,
		Steps:                in.Steps,
		Timestamp:            s.now(),
		Proof:                proof,
		StepGoalAtSubmission: goal,
		Completed:            in.Steps >= goal,
	}

	err = s.records.Append(ctx, record)
	if err != nil {
		if stored {
			delErr := s.proofs.Delete(ctx, proof)
			if delErr != nil {
				slog.Error("failed to delete proof during cleanup", "error", delErr, "key", proof)
			}
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	metrics.ObserveSubmission(record.Steps, record.Completed)
	slog.Info("steps submitted",
		"name", record.Name,
		"steps", record.Steps,
		"goal", goal,
		"completed", record.Completed,
		"has_proof", record.HasProof(),
	)

	return record, nil
}

// resolveProof returns the proof key for the record and whether this call stored it.
func (s *SubmissionService) resolveProof(ctx context.Context, name string, in SubmitInput) (string, bool, error) {
	if in.Proof != nil && in.Proof.Content != nil {
		key, err := s.proofs.StoreRaw(ctx, name, in.Proof.Content)
		if err != nil {
			return "", false, err
		}
		return key, true, nil
	}

	if in.ProofRef != "" {
		if !compressedKeyPattern.MatchString(in.ProofRef) || !s.proofs.Exists(ctx, in.ProofRef) {
			return "", false, ErrUnknownProof
		}
		return in.ProofRef, false, nil
	}

	return model.NoProof, false, nil
}
