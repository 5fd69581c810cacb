package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	gorillaHandlers "github.com/gorilla/handlers"
)

// APICORS lets other origins read the JSON API. origins is a comma separated
// list, "*" allows everyone.
func APICORS(origins string) func(http.Handler) http.Handler {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(allowed),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
}

// Recover turns handler panics into a 500 and an error log
func Recover(next http.Handler) http.Handler {
	logger := slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)
	return gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(logger),
		gorillaHandlers.PrintRecoveryStack(true),
	)(next)
}
