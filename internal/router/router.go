package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flowread-backend/internal/handlers"
	"flowread-backend/internal/middleware"
)

func New(
	documentHandler *handlers.DocumentHandler,
	sessionHandler *handlers.SessionHandler,
	statsHandler *handlers.StatsHandler,
	readerHandler *handlers.ReaderHandler,
	uploadTimeout time.Duration,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Upload rate limiter (10 req/min per IP)
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Document Routes ────
		r.Route("/documents", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(uploadLimiter.Middleware)
				r.Use(chimiddleware.Timeout(uploadTimeout))
				r.Post("/upload", documentHandler.Upload)
			})
			r.Get("/", documentHandler.List)
			r.Get("/{id}", documentHandler.Get)
			r.Get("/{id}/words", documentHandler.GetWords)
			r.Delete("/{id}", documentHandler.Delete)
		})

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/document/{id}", sessionHandler.GetLatest)
			r.Put("/{id}", sessionHandler.Update)
		})

		// ──── Stats Routes ────
		r.Get("/stats", statsHandler.Get)

		// ──── Reader Stream (WebSocket) ────
		r.Get("/reader/{docId}/stream", readerHandler.Stream)
	})

	return r
}
