package router

import (
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupFavoriteRoutes(r chi.Router, h *handler.FavoriteHandler, auth *middleware.Authenticator) {
	r.Group(func(priv chi.Router) {
		priv.Use(auth.Required)

		priv.Get("/favorites", h.HandleList)
		priv.Put("/favorites/{id}", h.HandleAdd)
		priv.Delete("/favorites/{id}", h.HandleRemove)
		priv.Post("/favorites/{id}/toggle", h.HandleToggle)
	})
}
