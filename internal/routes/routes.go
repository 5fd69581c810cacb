package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/templui/stepboard/internal/app"
	"github.com/templui/stepboard/internal/handler"
	"github.com/templui/stepboard/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.ContentService, app.LeaderboardService, app.AuthService)
	leaderboard := handler.NewLeaderboardHandler(app.LeaderboardService)
	submission := handler.NewSubmissionHandler(app.SubmissionService, app.ProofService, app.LeaderboardService)
	admin := handler.NewAdminHandler(app.AuthService, app.GoalService, app.LeaderboardService)
	uploads := handler.NewUploadsHandler(app.ProofService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Leaderboard + profile fragments
	mux.HandleFunc("GET /leaderboard", leaderboard.Leaderboard)
	mux.HandleFunc("GET /profile", leaderboard.Profile)

	// Submissions (rate limited per IP)
	submitLimiter := middleware.RateLimit(middleware.NewRateLimiter(rate.Limit(app.Cfg.SubmitRateLimit), app.Cfg.SubmitBurst))
	mux.HandleFunc("POST /submissions", submitLimiter(submission.Submit))
	mux.HandleFunc("POST /proofs", submitLimiter(submission.UploadProof))

	// Proof images
	mux.HandleFunc("GET /uploads/{key}", uploads.Proof)

	// JSON API (readable cross origin)
	api := middleware.APICORS(app.Cfg.APIAllowedOrigins)
	mux.Handle("GET /api/leaderboard", api(http.HandlerFunc(leaderboard.APILeaderboard)))
	mux.Handle("GET /api/profile/{name}", api(http.HandlerFunc(leaderboard.APIProfile)))
	mux.Handle("OPTIONS /api/", api(http.NotFoundHandler()))

	// ============================================================================
	// ADMIN
	// ============================================================================

	adminLimiter := middleware.RateLimitAdmin()
	mux.HandleFunc("POST /admin/login", adminLimiter(admin.Login))
	mux.HandleFunc("POST /admin/logout", admin.Logout)
	mux.HandleFunc("POST /admin/goal", middleware.RequireAdmin(admin.SetGoal))

	// ============================================================================
	// OPS
	// ============================================================================

	mux.Handle("GET /metrics", middleware.MetricsAuth(app.Cfg.MetricsUser, app.Cfg.MetricsPass)(promhttp.Handler()))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.Config(app.Cfg), // Config must be first (SecurityHeaders reads the S3 endpoint)
		middleware.NonceMiddleware, // Must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.MonitorMiddleware,
		middleware.CSRFProtection,
		middleware.AdminMiddleware(app.AuthService),
		middleware.WithURLPath,
	)

	return handler
}
