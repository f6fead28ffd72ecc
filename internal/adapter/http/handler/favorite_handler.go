package handler

import (
	"encoding/json"
	"net/http"

	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/CkBu3u/DiplomFinal/internal/listing/favorite"
	"github.com/CkBu3u/DiplomFinal/internal/listing/usecase"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	favorites *usecase.FavoriteUsecase
	logger    *logger.Logger
}

func NewFavoriteHandler(favorites *usecase.FavoriteUsecase, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: log.Named("favorite_handler")}
}

type toggleRequest struct {
	Favorited bool `json:"favorited"`
}

type toggleResponse struct {
	ListingID string `json:"listing_id"`
	Favorited bool   `json:"favorited"`
	Error     string `json:"error,omitempty"`
	Reauth    bool   `json:"reauth,omitempty"`
}

func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.favorites.List(r.Context(), middleware.ViewerFromContext(r.Context()))
	if err != nil {
		status, msg := statusFor(err)
		writeJSON(w, h.logger, status, map[string]any{"items": items, "error": msg})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": items})
}

func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// HandleToggle flips the favorite from the state the client reports.
func (h *FavoriteHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid toggle body", zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	h.toggle(w, r, req.Favorited)
}

func (h *FavoriteHandler) toggle(w http.ResponseWriter, r *http.Request, currentlyFavorited bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, h.logger, http.StatusBadRequest, "listing id is required")
		return
	}

	out := h.favorites.Toggle(r.Context(), middleware.ViewerFromContext(r.Context()), id, currentlyFavorited)
	resp := toggleResponse{ListingID: id, Favorited: out.Favorited}
	if out.Err == nil {
		writeJSON(w, h.logger, http.StatusOK, resp)
		return
	}

	if out.Class == favorite.ClassAuthExpired {
		resp.Error = "session expired, sign in again"
		resp.Reauth = true
		writeJSON(w, h.logger, http.StatusUnauthorized, resp)
		return
	}
	status, msg := statusFor(out.Err)
	if status == http.StatusInternalServerError {
		status = http.StatusBadGateway
		msg = "failed to update favorites"
	}
	resp.Error = msg
	writeJSON(w, h.logger, status, resp)
}
