package api

import (
	"context"
	"net/http"
	"time"

	"starshunters-server/config"
	game "starshunters-server/src"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the full HTTP surface: the WebSocket endpoint, the /api
// tree and static delivery for everything else.
func NewRouter(cfg config.ServerConfig, gs *game.GameServer) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.HandleFunc("/ws", gs.HandleConnections)
	r.Mount("/api", NewAPIRouter(gs))
	r.Handle("/*", game.StaticFileServer(cfg.StaticDir))

	return r
}

// NewAPIRouter builds the /api router with middlewares and routes.
func NewAPIRouter(source StatusSource) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)

	mh := NewMetricsHandler(source)
	r.Route("/v1", func(sub chi.Router) {
		sub.Get("/health", healthHandler(source))
		mh.Routes(sub)
	})

	return r
}

func healthHandler(source StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		_, err := source.Status(ctx)
		h := healthOf(err)
		if h != HealthOk {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": string(h)})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": string(h)})
	}
}
