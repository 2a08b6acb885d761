package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type contextKeyClientIP struct{}
type contextKeyClientDevice struct{}

// ClientDevice is a parsed summary of the caller's User-Agent. It exists for
// the admin request log, where "which browser did this admin use" is a common
// support question.
type ClientDevice struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// ClientMetadata extracts the client IP and a parsed User-Agent summary and
// adds them to the context for handlers and the request logger. Apply early in
// the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.Header.Get("User-Agent"))
		name, version := ua.Browser()
		device := ClientDevice{
			Browser: strings.TrimSpace(name + " " + version),
			OS:      ua.OS(),
			Mobile:  ua.Mobile(),
			Bot:     ua.Bot(),
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIPFromRequest(r))
		ctx = context.WithValue(ctx, contextKeyClientDevice{}, device)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// GetClientDevice retrieves the parsed User-Agent summary from the context.
func GetClientDevice(ctx context.Context) ClientDevice {
	if d, ok := ctx.Value(contextKeyClientDevice{}).(ClientDevice); ok {
		return d
	}
	return ClientDevice{}
}

// clientIPFromRequest extracts the real client IP, handling proxies and load
// balancers.
func clientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs; the first is the client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if addr := r.RemoteAddr; addr != "" {
		// RemoteAddr is "ip:port" (or "[::1]:port" for IPv6).
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return ""
}
