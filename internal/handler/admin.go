package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/templui/stepboard/internal/ctxkeys"
	"github.com/templui/stepboard/internal/repository"
	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/ui"
	"github.com/templui/stepboard/internal/ui/pages"
)

type AdminHandler struct {
	authService        *service.AuthService
	goalService        *service.GoalService
	leaderboardService *service.LeaderboardService
}

func NewAdminHandler(authService *service.AuthService, goalService *service.GoalService, leaderboardService *service.LeaderboardService) *AdminHandler {
	return &AdminHandler{
		authService:        authService,
		goalService:        goalService,
		leaderboardService: leaderboardService,
	}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	token, expiry, err := h.authService.Login(username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		slog.Warn("admin login failed", "username", username)
		toastFailure(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		slog.Error("admin login error", "error", err)
		toastError(w, r, "Login failed, please try again")
		return
	}

	h.authService.SetJWTCookie(w, token, expiry)
	slog.Info("admin logged in", "username", username)
	redirect(w, r, "/")
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	redirect(w, r, "/")
}

// SetGoal updates the daily goal and refreshes the banner and the leaderboard tab in view
func (h *AdminHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := strconv.Atoi(strings.TrimSpace(r.FormValue("goal")))
	if err != nil {
		toastError(w, r, "Goal must be a whole number")
		return
	}

	err = h.goalService.SetGoal(r.Context(), ctxkeys.IsAdmin(r.Context()), goal)
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		toastFailure(w, r, http.StatusForbidden, "Only admins can change the goal")
		return
	case errors.Is(err, repository.ErrInvalidGoal):
		toastError(w, r, err.Error())
		return
	case err != nil:
		slog.Error("failed to set goal", "error", err, "goal", goal)
		toastError(w, r, "Failed to save the goal")
		return
	}

	ui.RenderOOB(w, r, pages.GoalBanner(goal), "innerHTML:#goal-banner")
	board, err := h.leaderboardService.Leaderboard(r.Context(), activeView(r))
	if err != nil {
		slog.Error("failed to reload leaderboard", "error", err)
	} else {
		ui.RenderOOB(w, r, pages.Leaderboard(board), "innerHTML:#leaderboard")
	}
	toastSuccess(w, r, "Goal updated", fmt.Sprintf("The daily goal is now %d steps.", goal))
}
