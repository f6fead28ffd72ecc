package router

import (
	"net/http"

	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

type Handlers struct {
	Listings  *handler.ListingHandler
	Favorites *handler.FavoriteHandler
	Reviews   *handler.ReviewHandler
	Catalog   *handler.CatalogHandler
	Messages  *handler.MessageHandler
}

type Options struct {
	ServiceName string
	StaticDir   string
}

// New builds the HTTP router. The access log sits inside otelchi so it sees
// the request span.
func New(h Handlers, auth *middleware.Authenticator, log *logger.Logger, m *metrics.MetricsManager, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otelchi.Middleware(opts.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.AccessLog(log, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		SetupListingRoutes(api, h.Listings, h.Reviews, auth)
		SetupFavoriteRoutes(api, h.Favorites, auth)
		SetupCatalogRoutes(api, h.Catalog)
		SetupMessageRoutes(api, h.Messages, auth)
	})

	if opts.StaticDir != "" {
		r.Handle("/*", handler.SPA(opts.StaticDir))
	}
	return r
}
