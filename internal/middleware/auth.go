package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/stepboard/internal/ctxkeys"
	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/ui"
	"github.com/templui/stepboard/internal/ui/components/toast"
)

// AdminMiddleware marks the request as admin when it carries a valid admin cookie.
// Invalid or stale cookies are cleared and the request continues as a visitor.
func AdminMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AdminCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if !authService.IsAdminToken(cookie.Value) {
				slog.Debug("dropping invalid admin cookie", "path", r.URL.Path)
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithIsAdmin(r.Context(), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects visitors with 403. htmx requests get an error toast
// with 200 instead, since htmx drops 4xx responses.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.IsAdmin(r.Context()) {
			slog.Warn("admin route without admin session", "path", r.URL.Path, "ip", getClientIP(r))
			if r.Header.Get("HX-Request") == "true" {
				ui.RenderOOB(w, r, toast.Error("Please log in as admin first"), "beforeend:#toast-container")
				return
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
