package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/venuelink/marketplace-backend/api/controllers/listings"
	"github.com/venuelink/marketplace-backend/api/middleware"
	"github.com/venuelink/marketplace-backend/internal/mockstore"
	"github.com/venuelink/marketplace-backend/pkg/config"
	"github.com/venuelink/marketplace-backend/pkg/logger"
)

// NewRouter assembles the HTTP surface of the listing store.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc *mockstore.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "env": cfg.App.Env})
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/media/{mediaID}", listings.MediaFetch(svc, logg))

		r.Route("/sellers/me/listing", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/", listings.ListingFetch(svc, logg))
			r.Post("/", listings.ListingCreate(svc, logg))
			r.Put("/", listings.ListingUpdate(svc, logg))
			r.Delete("/", listings.ListingDelete(svc, logg))
			r.Delete("/photos/{index}", listings.PhotoDelete(svc, logg))
			r.Delete("/videos", listings.VideoDelete(svc, logg))
		})
	})

	return r
}
