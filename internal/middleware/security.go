package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/templui/stepboard/internal/config"
	"github.com/templui/stepboard/internal/ctxkeys"
)

// Script and style hosts the layout pulls htmx and tailwind from
const (
	htmxOrigin     = "https://unpkg.com"
	tailwindOrigin = "https://cdn.tailwindcss.com"
)

type nonceKey struct{}

// NonceMiddleware generates a per-request CSP nonce. Templates read it with
// templ.GetNonce, SecurityHeaders with GetNonce.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = context.WithValue(ctx, nonceKey{}, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}

// 16 bytes, base64 encoded
func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// SecurityHeaders sets CSP and the usual hardening headers. Proof images may be
// served from the S3 endpoint, so it is allowed as an image source.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scriptSrc := []string{"'self'", htmxOrigin, tailwindOrigin}
		nonce := GetNonce(r.Context())
		if nonce != "" {
			scriptSrc = append(scriptSrc, "'nonce-"+nonce+"'")
		}

		imgSrc := []string{"'self'", "data:", "blob:"}
		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.StorageDriver == config.StorageDriverS3 {
			if cfg.S3Endpoint != "" {
				imgSrc = append(imgSrc, cfg.S3Endpoint)
			} else {
				imgSrc = append(imgSrc, "https://*.amazonaws.com")
			}
		}

		csp := strings.Join([]string{
			"default-src 'self'",
			"script-src " + strings.Join(scriptSrc, " "),
			"style-src 'self' 'unsafe-inline'",
			"img-src " + strings.Join(imgSrc, " "),
			"frame-ancestors 'none'",
			"form-action 'self'",
		}, "; ")

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
