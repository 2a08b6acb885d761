package identity

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/platform/middleware"
	"quizbank/internal/store"
	"quizbank/internal/transport/http/shared"
	"quizbank/pkg/domainerrors"
	"quizbank/pkg/platform/sentinel"
)

// TokenTTL bounds issued bearer tokens. Callers re-exchange their secret when
// a token expires; there is no refresh flow.
const TokenTTL = time.Hour

// Handler exchanges a user's secret for a bearer token. This is the only
// unauthenticated route besides health and metrics, and the only consumer of
// the bootstrap secret that SeedAdmin provisions.
type Handler struct {
	store    store.Store
	verifier *Verifier
	logger   *slog.Logger
}

func NewHandler(st store.Store, verifier *Verifier, logger *slog.Logger) *Handler {
	return &Handler{store: st, verifier: verifier, logger: logger}
}

// Register mounts the exchange route on the public router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/token", h.handleToken)
}

type tokenRequest struct {
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.UserID == "" || req.Secret == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "user ID and secret are required"))
		return
	}

	doc, err := h.store.Get(ctx, UsersCollection, req.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Same response as a wrong secret so callers can't enumerate
			// user IDs.
			h.rejectCredentials(w, r, req.UserID, err)
			return
		}
		shared.WriteError(w, domainerrors.Wrap(domainerrors.CodeInternal, "could not read user", err))
		return
	}

	hash, _ := doc["secretHash"].(string)
	if hash == "" {
		h.rejectCredentials(w, r, req.UserID, errors.New("user has no secret"))
		return
	}
	if err := VerifySecret(req.Secret, hash); err != nil {
		h.rejectCredentials(w, r, req.UserID, err)
		return
	}

	token, err := h.verifier.Issue(req.UserID, TokenTTL)
	if err != nil {
		shared.WriteError(w, domainerrors.Wrap(domainerrors.CodeInternal, "could not issue token", err))
		return
	}
	shared.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(TokenTTL.Seconds()),
	})
}

func (h *Handler) rejectCredentials(w http.ResponseWriter, r *http.Request, userID string, err error) {
	h.logger.WarnContext(r.Context(), "token exchange rejected",
		"request_id", middleware.GetRequestID(r.Context()),
		"user_id", userID,
		"error", err,
	)
	shared.WriteError(w, domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials"))
}
