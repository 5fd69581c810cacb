package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/ui"
	"github.com/templui/stepboard/internal/ui/pages"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Leaderboard renders the #leaderboard content for ?view=
func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	view, err := model.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	board, err := h.leaderboardService.Leaderboard(r.Context(), view)
	if err != nil {
		slog.Error("failed to build leaderboard", "error", err, "view", view)
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Leaderboard(board))
}

// Profile renders the #profile content for ?name=
func (h *LeaderboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	profile, err := h.leaderboardService.Profile(r.Context(), name)
	if errors.Is(err, service.ErrProfileNotFound) {
		ui.Render(w, r, pages.ProfileNotFound(name))
		return
	}
	if err != nil {
		slog.Error("failed to load profile", "error", err, "name", name)
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Profile(profile))
}

// APILeaderboard is the JSON form of Leaderboard
func (h *LeaderboardHandler) APILeaderboard(w http.ResponseWriter, r *http.Request) {
	view, err := model.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	board, err := h.leaderboardService.Leaderboard(r.Context(), view)
	if err != nil {
		slog.Error("failed to build leaderboard", "error", err, "view", view)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (h *LeaderboardHandler) APIProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	profile, err := h.leaderboardService.Profile(r.Context(), name)
	if errors.Is(err, service.ErrProfileNotFound) {
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
		return
	}
	if err != nil {
		slog.Error("failed to load profile", "error", err, "name", name)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load profile"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
