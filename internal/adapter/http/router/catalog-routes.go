package router

import (
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/go-chi/chi/v5"
)

func SetupCatalogRoutes(r chi.Router, h *handler.CatalogHandler) {
	r.Get("/brands", h.HandleBrands)
	r.Get("/brands/{id}/models", h.HandleModels)
}
