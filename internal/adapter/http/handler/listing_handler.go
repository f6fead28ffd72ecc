package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/listing/usecase"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ListingHandler struct {
	search         *usecase.SearchUsecase
	listings       *usecase.ListingUsecase
	photos         *usecase.PhotoUsecase
	maxUploadBytes int64
	logger         *logger.Logger
}

func NewListingHandler(search *usecase.SearchUsecase, listings *usecase.ListingUsecase, photos *usecase.PhotoUsecase, maxUploadBytes int64, log *logger.Logger) *ListingHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &ListingHandler{
		search:         search,
		listings:       listings,
		photos:         photos,
		maxUploadBytes: maxUploadBytes,
		logger:         log.Named("listing_handler"),
	}
}

// HandleLatest serves the newest active listings.
func (h *ListingHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	items, err := h.search.Latest(r.Context(), middleware.ViewerFromContext(r.Context()))
	if err != nil {
		writeJSON(w, h.logger, http.StatusBadGateway, map[string]any{"items": items, "error": domain.ErrRemoteQuery.Error()})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": items})
}

// HandleSearch accepts the filter as query parameters on GET and as a JSON
// body on POST.
func (h *ListingHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var in domain.FilterInput
	if r.Method == http.MethodPost {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Warn("invalid search body", zap.Error(err))
			writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		in = filterFromQuery(r.URL.Query())
	}

	res, err := h.search.Search(r.Context(), middleware.ViewerFromContext(r.Context()), in)
	if err != nil {
		writeJSON(w, h.logger, http.StatusBadGateway, map[string]any{
			"items":     res.Items,
			"page":      res.Page,
			"page_size": res.PageSize,
			"error":     domain.ErrRemoteQuery.Error(),
		})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, res)
}

func (h *ListingHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.listings.GetByID(r.Context(), middleware.ViewerFromContext(r.Context()), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listing)
}

// HandleUploadImage takes a multipart form with an "image" file and an
// optional "is_main" flag.
func (h *ListingHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Warn("invalid upload form", zap.String("listing_id", id), zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid or too large upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded image", zap.String("listing_id", id), zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "failed to read image")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	imageURL, err := h.photos.UploadImage(r.Context(), middleware.ViewerFromContext(r.Context()), id, usecase.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
		IsMain:      r.FormValue("is_main") == "true",
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, map[string]string{"url": imageURL})
}

func (h *ListingHandler) decodeFields(w http.ResponseWriter, r *http.Request) (domain.ListingFields, bool) {
	var fields domain.ListingFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Warn("invalid listing body", zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return fields, false
	}
	return fields, true
}

func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	listing, err := h.listings.Create(r.Context(), middleware.ViewerFromContext(r.Context()), fields)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, listing)
}

// HandleUpdate changes only the fields present in the body.
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	listing, err := h.listings.Update(r.Context(), middleware.ViewerFromContext(r.Context()), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listing)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ListingHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid status body", zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	status := domain.ListingStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	listing, err := h.listings.UpdateStatus(r.Context(), middleware.ViewerFromContext(r.Context()), chi.URLParam(r, "id"), status)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listing)
}

func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.Delete(r.Context(), middleware.ViewerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var setParams = map[string]bool{
	"brand_id":     true,
	"model_id":     true,
	"body_type":    true,
	"engine_type":  true,
	"transmission": true,
	"drive_type":   true,
}

// filterFromQuery reads set parameters either repeated or comma separated.
// Absent parameters stay nil.
func filterFromQuery(q url.Values) domain.FilterInput {
	get := func(key string) any {
		values, ok := q[key]
		if !ok || len(values) == 0 {
			return nil
		}
		if !setParams[key] {
			return values[0]
		}
		var out []string
		for _, v := range values {
			out = append(out, strings.Split(v, ",")...)
		}
		return out
	}
	return domain.FilterInput{
		BrandID:      get("brand_id"),
		ModelID:      get("model_id"),
		PriceMin:     get("price_min"),
		PriceMax:     get("price_max"),
		YearMin:      get("year_min"),
		YearMax:      get("year_max"),
		City:         get("city"),
		BodyType:     get("body_type"),
		EngineType:   get("engine_type"),
		Transmission: get("transmission"),
		DriveType:    get("drive_type"),
		Search:       get("search"),
		SortBy:       get("sort_by"),
		Page:         get("page"),
		Limit:        get("limit"),
	}
}
