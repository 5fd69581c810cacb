package model

import (
	"fmt"
	"strings"
	"time"
)

type View string

const (
	ViewDaily   View = "daily"
	ViewWeekly  View = "weekly"
	ViewMonthly View = "monthly"
	ViewAll     View = "all"
)

// Views lists the selectable leaderboard windows in display order.
var Views = []View{ViewDaily, ViewWeekly, ViewMonthly}

func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewDaily, "":
		return ViewDaily, nil
	case ViewWeekly:
		return ViewWeekly, nil
	case ViewMonthly:
		return ViewMonthly, nil
	case ViewAll:
		return ViewAll, nil
	}
	return "", fmt.Errorf("unknown leaderboard view %q", s)
}

func (v View) Label() string {
	switch v {
	case ViewDaily:
		return "Daily"
	case ViewWeekly:
		return "Weekly"
	case ViewMonthly:
		return "Monthly"
	}
	return "All Time"
}

// ShowsCompletion is true only for the daily view.
func (v View) ShowsCompletion() bool {
	return v == ViewDaily
}

type LeaderboardRow struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Steps     int    `json:"steps"`
	Completed *bool  `json:"completed,omitempty"` // nil outside the daily view
}

type Leaderboard struct {
	View        View              `json:"view"`
	Goal        int               `json:"goal"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        []*LeaderboardRow `json:"rows"`
}

// ProfileEntry is one row of a user's history, completion judged against the live goal.
type ProfileEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Steps     int       `json:"steps"`
	Proof     string    `json:"proof"`
	Completed bool      `json:"completed"`
}

type Profile struct {
	Name    string          `json:"name"`
	Goal    int             `json:"goal"`
	Entries []*ProfileEntry `json:"entries"`
}
