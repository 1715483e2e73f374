// Package api implements the eqcoachd REST API.
// It serves the questionnaire and stores submitted assessments per user.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/eqcoach/eqcoach/internal/auth"
	"github.com/eqcoach/eqcoach/internal/submission"
	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// Submissions is the backend service the handler delegates to.
type Submissions interface {
	Definition() *assessment.Definition
	Submit(ctx context.Context, externalUserID string, answers []int) (*submission.Record, error)
	List(ctx context.Context, externalUserID string) ([]submission.Record, error)
	Latest(ctx context.Context, externalUserID string) (*submission.Record, error)
	Get(ctx context.Context, externalUserID, resultID string) (*submission.Record, error)
	Export(ctx context.Context, externalUserID, resultID string) ([]byte, error)
}

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures a Handler.
type Options struct {
	CORSOrigin string
	Cache      *ResultCache
	Logger     *zap.Logger
}

// Handler is the top-level API handler for the eqcoach backend.
type Handler struct {
	db       Pinger
	svc      Submissions
	verifier auth.Verifier
	cache    *ResultCache
	logger   *zap.Logger
	cors     string
}

// NewHandler creates a new API handler.
func NewHandler(db Pinger, svc Submissions, verifier auth.Verifier, opts Options) *Handler {
	if opts.Cache == nil {
		opts.Cache = NewResultCacheFromEnv()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{
		db:       db,
		svc:      svc,
		verifier: verifier,
		cache:    opts.Cache,
		logger:   opts.Logger,
		cors:     opts.CORSOrigin,
	}
}

// Routes returns the router serving every API endpoint.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(h.cors))

	r.Get("/healthz", h.handleHealth)
	r.Get("/api/eq/questionnaire", h.handleQuestionnaire)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(h.verifier))
		r.Post("/api/eq/submit", h.handleSubmit)
		r.Get("/api/eq/results", h.handleListResults)
		r.Get("/api/eq/results/latest", h.handleLatestResult)
		r.Get("/api/eq/results/{resultID}", h.handleGetResult)
		r.Get("/api/eq/results/{resultID}/archive", h.handleGetArchive)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Definition())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
