package server

import (
	"net/http"

	"github.com/covalentlabs/webquill/internal/api"
	"github.com/covalentlabs/webquill/internal/api/handlers"
	"github.com/covalentlabs/webquill/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

const serviceName = "webquill"

type RouterConfig struct {
	QueryHandler *handlers.QueryHandler
	IndexHandler *handlers.IndexHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": serviceName,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", cfg.QueryHandler.Stats)
		r.Post("/ask", cfg.QueryHandler.Ask)
		r.Post("/crawl", cfg.IndexHandler.Crawl)
		r.Post("/clear", cfg.QueryHandler.Clear)
	})

	return r
}
