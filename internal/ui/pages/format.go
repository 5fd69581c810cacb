package pages

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/templui/stepboard/internal/ctxkeys"
	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/ui"
)

// NewNameOption is the name select value meaning "use the new_name field"
const NewNameOption = "__new__"

// formatSteps groups thousands: 11000 -> 11,000
func formatSteps(n int) string {
	return humanize.Comma(int64(n))
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("2006-01-02 15:04")
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

// ProofURL is where a stored proof can be downloaded
func ProofURL(key string) string {
	return "/uploads/" + url.PathEscape(key)
}

func hasProof(proof string) bool {
	return proof != "" && proof != model.NoProof
}

func pageTitle(ctx context.Context, title string) string {
	appName := "Stepboard"
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		appName = cfg.AppName
	}
	if title == "" || title == appName {
		return appName
	}
	return title + " · " + appName
}

// csrfHeaders makes htmx send the CSRF token on every request
func csrfHeaders(ctx context.Context) string {
	b, _ := json.Marshal(map[string]string{"X-CSRF-Token": ctxkeys.CSRFToken(ctx)})
	return string(b)
}

func tabClass(active bool) string {
	return ui.Class(
		"rounded-md px-3 py-1.5 text-sm font-medium",
		"bg-white text-gray-700 hover:bg-gray-100",
		ui.If(active, "bg-gray-900 text-white hover:bg-gray-900"),
	)
}
