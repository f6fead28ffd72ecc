package handler

import (
	"net/http"
	"strconv"

	"github.com/CkBu3u/DiplomFinal/internal/listing/usecase"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalog *usecase.CatalogUsecase
	logger  *logger.Logger
}

func NewCatalogHandler(catalog *usecase.CatalogUsecase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: log.Named("catalog_handler")}
}

func (h *CatalogHandler) HandleBrands(w http.ResponseWriter, r *http.Request) {
	popular, _ := strconv.ParseBool(r.URL.Query().Get("popular"))
	brands, err := h.catalog.Brands(r.Context(), popular)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": brands})
}

func (h *CatalogHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	brandID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid brand id")
		return
	}
	models, err := h.catalog.Models(r.Context(), brandID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": models})
}
