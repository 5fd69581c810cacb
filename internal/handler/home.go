package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/stepboard/internal/ctxkeys"
	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/ui"
	"github.com/templui/stepboard/internal/ui/pages"
)

type HomeHandler struct {
	contentService     *service.ContentService
	leaderboardService *service.LeaderboardService
	authService        *service.AuthService
}

func NewHomeHandler(contentService *service.ContentService, leaderboardService *service.LeaderboardService, authService *service.AuthService) *HomeHandler {
	return &HomeHandler{
		contentService:     contentService,
		leaderboardService: leaderboardService,
		authService:        authService,
	}
}

// HomePage renders everything from a fresh read of the stores
func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	challenge, err := h.contentService.Challenge()
	if err != nil {
		slog.Error("failed to load challenge content", "error", err)
		http.Error(w, "Failed to load page", http.StatusInternalServerError)
		return
	}

	board, err := h.leaderboardService.Leaderboard(ctx, model.ViewDaily)
	if err != nil {
		slog.Error("failed to build leaderboard", "error", err)
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	participants, err := h.leaderboardService.Participants(ctx)
	if err != nil {
		slog.Error("failed to list participants", "error", err)
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Home(pages.HomeProps{
		Challenge:    challenge,
		Goal:         board.Goal,
		Participants: participants,
		Leaderboard:  board,
		Admin: pages.AdminProps{
			IsAdmin:   ctxkeys.IsAdmin(ctx),
			HasAdmins: h.authService.HasAdmins(),
			Goal:      board.Goal,
		},
	}))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, pages.NotFound())
}
