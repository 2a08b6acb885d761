package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenVerifier resolves a bearer credential to an opaque caller identity.
// The transport layer never parses credentials itself.
type TokenVerifier interface {
	Verify(tokenString string) (callerID string, err error)
}

type contextKeyCallerID struct{}

// GetCallerID retrieves the authenticated caller identity from the context.
// Empty when the request did not pass RequireAuth.
func GetCallerID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyCallerID{}).(string); ok {
		return id
	}
	return ""
}

// WithCallerID injects a caller identity into a context. Useful for service
// unit tests that don't run the full HTTP middleware chain.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, contextKeyCallerID{}, callerID)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved caller identity in the context. Role checks happen later, at the
// access gate; this layer only establishes who is calling.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			callerID, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", GetRequestID(ctx),
					"error", err,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCallerID(ctx, callerID)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
