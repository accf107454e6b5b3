package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Dependency is an upstream checked by /v1/ping.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// NewRouter wires the trivia routes plus health and metrics endpoints. Unknown
// paths answer with the 404 envelope; known paths with the wrong method with 405.
func NewRouter(cfg *config.App, logger zerolog.Logger, handlers *trivia.HTTPHandlers, deps ...Dependency) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	mux.HandleFunc("/categories", handlers.Categories)
	mux.HandleFunc("/categories/{id}/questions", handlers.CategoryQuestions)
	mux.HandleFunc("/questions", handlers.Questions)
	mux.HandleFunc("/questions/{id}", handlers.QuestionByID)
	mux.HandleFunc("/quizzes", handlers.Quizzes)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})

	return withMiddleware(cfg, logger, mux)
}

// withMiddleware wraps h, innermost first, in CORS, panic recovery,
// instrumentation and request logging. instrument sits outside recoverer so
// recovered panics are counted as 500s.
func withMiddleware(cfg *config.App, logger zerolog.Logger, h http.Handler) http.Handler {
	h = cors(cfg.CORS)(h)
	h = recoverer(h)
	h = instrument(h)
	h = requestLogger(logger)(h)
	return h
}

// NewHTTPServer builds the API server around NewRouter.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, handlers *trivia.HTTPHandlers, deps ...Dependency) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg, logger, handlers, deps...),
	}
}

func pingDependencies(ctx context.Context, deps []Dependency) error {
	for _, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", dep.Name, err)
		}
	}
	return nil
}
