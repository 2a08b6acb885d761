package bundle

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"quizbank/internal/catalog"
	"quizbank/internal/identity"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/platform/middleware"
	"quizbank/internal/store"
)

type BundleHandlerSuite struct {
	suite.Suite
	router   chi.Router
	verifier *identity.Verifier
}

func TestBundleHandlerSuite(t *testing.T) {
	suite.Run(t, new(BundleHandlerSuite))
}

func (s *BundleHandlerSuite) SetupTest() {
	log := slog.New(slog.DiscardHandler)
	st := store.NewMemory()
	s.Require().NoError(st.Set(context.Background(), catalog.QuestionsCollection, "q1",
		store.Document{"category": "Head", "difficulty": "easy"}, false))

	builder := NewBuilder(st, metrics.NewWith(prometheus.NewRegistry()))
	handler := NewHandler(builder, log)

	s.verifier = identity.NewVerifier("handler-test-key", "quizbank")
	s.router = chi.NewRouter()
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.verifier, log))
		handler.Register(r)
	})
}

func (s *BundleHandlerSuite) request(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *BundleHandlerSuite) token() string {
	token, err := s.verifier.Issue("admin", time.Minute)
	s.Require().NoError(err)
	return token
}

func (s *BundleHandlerSuite) TestDownload() {
	rec := s.request("/bundles/Head", s.token())

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/octet-stream", rec.Header().Get("Content-Type"))
	s.Equal("attachment; filename=questions-head.bundle", rec.Header().Get("Content-Disposition"))
	s.Equal("private, max-age=3600", rec.Header().Get("Cache-Control"))

	header, snaps, err := Decode(rec.Body.Bytes())
	s.Require().NoError(err)
	s.Equal(1, header.Count)
	s.Equal("q1", snaps[0].ID)
}

func (s *BundleHandlerSuite) TestMissingCategory() {
	s.Equal(http.StatusBadRequest, s.request("/bundles", s.token()).Code)
	s.Equal(http.StatusBadRequest, s.request("/bundles/", s.token()).Code)
}

func (s *BundleHandlerSuite) TestRequiresToken() {
	s.Equal(http.StatusUnauthorized, s.request("/bundles/Head", "").Code)
}

func (s *BundleHandlerSuite) TestRejectsForeignToken() {
	foreign := identity.NewVerifier("other-key", "quizbank")
	token, err := foreign.Issue("admin", time.Minute)
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, s.request("/bundles/Head", token).Code)
}
