package bundle

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/platform/middleware"
	"quizbank/internal/transport/http/shared"
	"quizbank/pkg/domainerrors"
)

// Handler serves bundle downloads. The route sits behind RequireAuth, so a
// missing or invalid bearer token never reaches this code.
type Handler struct {
	builder *Builder
	logger  *slog.Logger
}

func NewHandler(builder *Builder, logger *slog.Logger) *Handler {
	return &Handler{builder: builder, logger: logger}
}

// Register mounts the bundle route on an already-authenticated router. The
// bare paths exist so a missing category reads as a client error instead of
// an unmatched route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/bundles/{category}", h.handleGet)
	r.Get("/bundles", h.handleMissingCategory)
	r.Get("/bundles/", h.handleMissingCategory)
}

func (h *Handler) handleMissingCategory(w http.ResponseWriter, _ *http.Request) {
	shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "category is required"))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := chi.URLParam(r, "category")
	if category == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "category is required"))
		return
	}

	artifact, err := h.builder.Build(ctx, category)
	if err != nil {
		h.logger.ErrorContext(ctx, "bundle build failed",
			"request_id", middleware.GetRequestID(ctx),
			"category", category,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s.bundle", QueryName(category)))
	// Bundles may differ per caller's auth, so caching stays private. An hour
	// bounds staleness; there is no push invalidation.
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}
