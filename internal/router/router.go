package router

import (
	"net/http"

	"fedkart/internal/handler"
	"fedkart/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	eventHandler *handler.EventHandler,
	cartHandler *handler.CartHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> Recovery -> Logging -> CORS, then APIKeyAuth under /api
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
		MaxAge:         300,
	}))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Get("/events", eventHandler.List)
		r.Get("/events/{id}", eventHandler.GetByID)

		r.Post("/orders", cartHandler.Create)
		r.Route("/orders/{id}", func(r chi.Router) {
			r.Get("/", cartHandler.GetByID)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{registrationId}", cartHandler.RemoveItem)
			r.Post("/discounts", cartHandler.Recalculate)
			r.Post("/checkout", cartHandler.Checkout)
		})
	})

	return r
}
