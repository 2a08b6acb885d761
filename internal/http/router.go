// Package httpapi wires all handlers into the public router. Transport
// concerns (auth, request IDs, timeouts) live here; business rules stay in
// the services.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quizbank/internal/platform/middleware"
)

// Registrar is anything that can mount routes on a chi router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the full route tree. Health, metrics, and the token
// exchange are public; everything else sits behind bearer authentication,
// with per-operation admin checks at the access gate inside each service.
func NewRouter(verifier middleware.TokenVerifier, auth Registrar, logger *slog.Logger, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	auth.Register(r)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Timeout(30 * time.Second))
		authed.Use(middleware.RequireAuth(verifier, logger))
		for _, h := range handlers {
			h.Register(authed)
		}
	})

	return r
}
