package reconcile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/platform/middleware"
	"quizbank/internal/transport/http/shared"
)

// Handler exposes the admin reconciliation trigger.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the reconcile route on an already-authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/infographics/reconcile", h.handleRun)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.Run(ctx, middleware.GetCallerID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "reconciliation run failed",
			"request_id", middleware.GetRequestID(ctx),
			"caller_id", middleware.GetCallerID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		Result
	}{Success: true, Result: result})
}
