package question

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/catalog"
	"quizbank/internal/platform/middleware"
	"quizbank/internal/store"
	"quizbank/internal/transport/http/shared"
	"quizbank/pkg/domainerrors"
)

// Handler exposes the admin mutation endpoints. Authentication happens in the
// router middleware; authorization happens in the service via the gate.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the question routes on an already-authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/questions", h.handleCreate)
	r.Get("/admin/questions/{id}", h.handleGet)
	r.Put("/admin/questions/{id}", h.handleUpdate)
	r.Delete("/admin/questions/{id}", h.handleDelete)
}

type createRequest struct {
	ID string `json:"id"`
	catalog.Record
}

type mutationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	record := req.Record
	record.ID = req.ID

	if err := h.service.Create(ctx, middleware.GetCallerID(ctx), record); err != nil {
		h.logFailure(r, "create question failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, mutationResponse{Success: true, ID: record.ID})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	record, err := h.service.Get(ctx, middleware.GetCallerID(ctx), id)
	if err != nil {
		h.logFailure(r, "get question failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
		catalog.Record
	}{ID: record.ID, Record: record})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var patch store.Document
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	if _, err := h.service.Update(ctx, middleware.GetCallerID(ctx), id, patch); err != nil {
		h.logFailure(r, "update question failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, mutationResponse{Success: true, ID: id})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(ctx, middleware.GetCallerID(ctx), id); err != nil {
		h.logFailure(r, "delete question failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, mutationResponse{Success: true, ID: id})
}

func (h *Handler) logFailure(r *http.Request, msg string, err error) {
	ctx := r.Context()
	device := middleware.GetClientDevice(ctx)
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"caller_id", middleware.GetCallerID(ctx),
		"client_browser", device.Browser,
		"client_os", device.OS,
		"error", err,
	)
}
