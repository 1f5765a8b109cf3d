package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/voyageai/go-trip-planner/internal/api/chat"
	"github.com/voyageai/go-trip-planner/internal/api/itinerary"
	"github.com/voyageai/go-trip-planner/internal/api/nearby"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler *itinerary.Handler
	NearbyHandler    *nearby.Handler
	ChatHandler      *chat.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/", cfg.ItineraryHandler.CreateItinerary)
			r.Get("/", cfg.ItineraryHandler.ListItineraries)
			r.Get("/replay", cfg.ItineraryHandler.ReplayItinerary)
			r.Post("/share", cfg.ItineraryHandler.ShareLink)
			r.Delete("/{itineraryID}", cfg.ItineraryHandler.DeleteItinerary)
		})

		r.Route("/nearby", func(r chi.Router) {
			r.Post("/search", cfg.NearbyHandler.Search)
			r.Get("/history", cfg.NearbyHandler.ListHistory)
			r.Delete("/history/{recordID}", cfg.NearbyHandler.DeleteRecord)
		})

		r.Post("/chat", cfg.ChatHandler.SendMessage)
	})

	return r
}
