package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/security"
	"github.com/flashboard/board-service/internal/transport/rest/response"
)

const tokenHeader = "x-access-token"

// maxTokenPeekBytes bounds how much of a JSON body is buffered while looking
// for a body-carried token.
const maxTokenPeekBytes = 1 << 20

// TokenAuth verifies the identity token carried in the x-access-token header,
// the token query parameter, or a token JSON body field, and injects the
// resulting claims into the request context. Mutating routes mounted behind
// it never run without verified claims.
func TokenAuth(verifier security.TokenVerifier) func(next http.Handler) http.Handler {
	if verifier == nil {
		panic("TokenAuth: nil verifier")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				response.Error(w, domain.ErrTokenMissing())
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				response.Error(w, err)
				return
			}

			ctx := withClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if tok := strings.TrimSpace(r.Header.Get(tokenHeader)); tok != "" {
		return tok
	}
	if tok := strings.TrimSpace(r.URL.Query().Get("token")); tok != "" {
		return tok
	}
	return tokenFromBody(r)
}

// tokenFromBody peeks into a JSON body for a "token" field, restoring the
// body so handlers can decode it again.
func tokenFromBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return ""
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxTokenPeekBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(buf))
	if err != nil {
		return ""
	}

	var probe struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(buf, &probe); err != nil {
		return ""
	}
	return strings.TrimSpace(probe.Token)
}

// RateLimit applies a per-IP fixed-window limit backed by the cache.
func RateLimit(cache domain.CacheRepository, limit int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, _ := cache.AllowRequest(r.Context(), clientIP(r), limit, window)
			if !allowed {
				response.Error(w, domain.New(domain.KindRateLimited, "rate_limited", "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keeps it simple: RemoteAddr host part. Trusting X-Forwarded-For
// blindly is a spoofing risk.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
