package service

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/repository"
	"github.com/templui/stepboard/internal/validation"
)

const (
	weeklyWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

// Clock returns the current time in the challenge's timezone.
type Clock func() time.Time

type LeaderboardService struct {
	records repository.RecordRepository
	goals   *GoalService
	now     Clock
}

func NewLeaderboardService(records repository.RecordRepository, goals *GoalService, now Clock) *LeaderboardService {
	if now == nil {
		now = time.Now
	}
	return &LeaderboardService{
		records: records,
		goals:   goals,
		now:     now,
	}
}

// Leaderboard reloads every record and ranks them for the given view
func (s *LeaderboardService) Leaderboard(ctx context.Context, view model.View) (*model.Leaderboard, error) {
	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	goal, err := s.goals.Goal(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &model.Leaderboard{
		View:        view,
		Goal:        goal,
		GeneratedAt: now,
		Rows:        Aggregate(records, view, now, goal),
	}, nil
}

// Aggregate sums steps per person inside the view's time window and ranks
// them, highest first. Equal totals keep alphabetical order. Completion is only
// reported for the daily view and is judged against goal, the live goal, not
// the goal stored on each record.
func Aggregate(records []*model.StepRecord, view model.View, now time.Time, goal int) []*model.LeaderboardRow {
	totals := make(map[string]int)
	for _, record := range records {
		if !InWindow(record, view, now) {
			continue
		}
		name := validation.NormalizeName(record.Name)
		if name == "" {
			continue
		}
		totals[name] += record.Steps
	}

	rows := make([]*model.LeaderboardRow, 0, len(totals))
	for _, name := range slices.Sorted(maps.Keys(totals)) {
		rows = append(rows, &model.LeaderboardRow{Name: name, Steps: totals[name]})
	}

	slices.SortStableFunc(rows, func(a, b *model.LeaderboardRow) int {
		return cmp.Compare(b.Steps, a.Steps)
	})

	for i, row := range rows {
		row.Rank = i + 1
		if view.ShowsCompletion() {
			completed := row.Steps >= goal
			row.Completed = &completed
		}
	}

	return rows
}

// InWindow reports whether a record counts toward the view at time now.
// Records with a missing timestamp only count toward the all-time view.
func InWindow(record *model.StepRecord, view model.View, now time.Time) bool {
	if view == model.ViewAll {
		return true
	}
	if !record.HasTimestamp() {
		return false
	}

	switch view {
	case model.ViewDaily:
		ry, rm, rd := record.Timestamp.In(now.Location()).Date()
		ny, nm, nd := now.Date()
		return ry == ny && rm == nm && rd == nd
	case model.ViewWeekly:
		return !record.Timestamp.Before(now.Add(-weeklyWindow))
	case model.ViewMonthly:
		return !record.Timestamp.Before(now.Add(-monthlyWindow))
	}
	return false
}
