package category

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/platform/middleware"
	"quizbank/internal/transport/http/shared"
	"quizbank/pkg/domainerrors"
)

// Handler exposes the subcategory registry endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the category routes on an already-authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/categories/{main}/subcategories", h.handleRegister)
	r.Get("/admin/categories/{main}/subcategories", h.handleList)
}

type registerRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	err := h.service.Register(ctx, middleware.GetCallerID(ctx), chi.URLParam(r, "main"), req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "subcategory registration failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	names, err := h.service.List(ctx, middleware.GetCallerID(ctx), chi.URLParam(r, "main"))
	if err != nil {
		h.logger.WarnContext(ctx, "subcategory list failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string][]string{"subcategories": names})
}
