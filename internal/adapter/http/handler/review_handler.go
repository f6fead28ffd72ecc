package handler

import (
	"encoding/json"
	"net/http"

	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/CkBu3u/DiplomFinal/internal/listing/usecase"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	logger  *logger.Logger
}

func NewReviewHandler(reviews *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: log.Named("review_handler")}
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": reviews})
}

func (h *ReviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid review body", zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviews.Create(r.Context(), middleware.ViewerFromContext(r.Context()), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, review)
}
