package quality

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/platform/middleware"
	"quizbank/internal/transport/http/shared"
)

// Handler exposes the reference check for the admin UI's review workflow.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the reference-check route on an already-authenticated
// router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/questions/{id}/reference", h.handleCheckReference)
}

func (h *Handler) handleCheckReference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	result, err := h.service.CheckReference(ctx, middleware.GetCallerID(ctx), id)
	if err != nil {
		h.logger.WarnContext(ctx, "reference check failed",
			"request_id", middleware.GetRequestID(ctx),
			"question_id", id,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
