package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/substratai/substrat/internal/api"
	"github.com/substratai/substrat/internal/api/handlers"
	"github.com/substratai/substrat/internal/api/middleware"
)

type RouterConfig struct {
	ContextHandler *handlers.ContextHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/agents/{agentID}/context", func(r chi.Router) {
		r.Post("/", cfg.ContextHandler.BuildContext)
		r.Get("/relevance", cfg.ContextHandler.CheckRelevance)
	})

	return r
}
