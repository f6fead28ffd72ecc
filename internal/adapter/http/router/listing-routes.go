package router

import (
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupListingRoutes mounts listing and review routes. Reads work for
// anonymous viewers; writes need a session.
func SetupListingRoutes(r chi.Router, listings *handler.ListingHandler, reviews *handler.ReviewHandler, auth *middleware.Authenticator) {
	r.Group(func(pub chi.Router) {
		pub.Use(auth.Optional)

		pub.Get("/listings", listings.HandleLatest)
		pub.Get("/listings/search", listings.HandleSearch)
		pub.Post("/listings/search", listings.HandleSearch)
		pub.Get("/listings/{id}", listings.HandleGetByID)
		pub.Get("/listings/{id}/reviews", reviews.HandleList)
	})

	r.Group(func(priv chi.Router) {
		priv.Use(auth.Required)

		priv.Post("/listings", listings.HandleCreate)
		priv.Put("/listings/{id}", listings.HandleUpdate)
		priv.Patch("/listings/{id}/status", listings.HandleUpdateStatus)
		priv.Delete("/listings/{id}", listings.HandleDelete)
		priv.Post("/listings/{id}/images", listings.HandleUploadImage)
		priv.Post("/listings/{id}/reviews", reviews.HandleCreate)
	})
}
