package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhall-ai/studyhall/internal/api"
	"github.com/studyhall-ai/studyhall/internal/api/handlers"
	"github.com/studyhall-ai/studyhall/internal/api/middleware"
)

type RouterConfig struct {
	QuestionHandler      *handlers.QuestionHandler
	KnowledgeBaseHandler *handlers.KnowledgeBaseHandler
	MetaHandler          *handlers.MetaHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", cfg.MetaHandler.Root)

	r.Route("/api", func(r chi.Router) {
		r.Post("/", cfg.QuestionHandler.Ask)
		r.Get("/stats", cfg.KnowledgeBaseHandler.Stats)
		r.Post("/reload", cfg.KnowledgeBaseHandler.Reload)
	})

	return r
}
