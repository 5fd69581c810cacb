package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/validation"
)

var ErrProfileNotFound = errors.New("no submissions found for this name")

// Profile returns every submission of one person, newest first
func (s *LeaderboardService) Profile(ctx context.Context, name string) (*model.Profile, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, ErrProfileNotFound
	}

	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	goal, err := s.goals.Goal(ctx)
	if err != nil {
		return nil, err
	}

	profile := ProfileOf(records, name, goal)
	if len(profile.Entries) == 0 {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// Participants lists every distinct name that has submitted, sorted
func (s *LeaderboardService) Participants(ctx context.Context) ([]string, error) {
	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	names := make(map[string]struct{})
	for _, record := range records {
		name := validation.NormalizeName(record.Name)
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(names)), nil
}

// ProfileOf builds the history for an already normalized name. Completion is
// recomputed against goal rather than read from the record.
func ProfileOf(records []*model.StepRecord, name string, goal int) *model.Profile {
	var matches []*model.StepRecord
	for _, record := range records {
		if validation.NormalizeName(record.Name) == name {
			matches = append(matches, record)
		}
	}

	// Missing timestamps sort after every dated entry.
	slices.SortStableFunc(matches, func(a, b *model.StepRecord) int {
		switch {
		case !a.HasTimestamp() && !b.HasTimestamp():
			return 0
		case !a.HasTimestamp():
			return 1
		case !b.HasTimestamp():
			return -1
		}
		return b.Timestamp.Compare(a.Timestamp)
	})

	entries := make([]*model.ProfileEntry, 0, len(matches))
	for _, record := range matches {
		entries = append(entries, &model.ProfileEntry{
			Timestamp: record.Timestamp,
			Steps:     record.Steps,
			Proof:     record.Proof,
			Completed: record.Steps >= goal,
		})
	}

	return &model.Profile{
		Name:    name,
		Goal:    goal,
		Entries: entries,
	}
}
