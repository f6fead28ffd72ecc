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

type MessageHandler struct {
	messages *usecase.MessageUsecase
	logger   *logger.Logger
}

func NewMessageHandler(messages *usecase.MessageUsecase, log *logger.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: log.Named("message_handler")}
}

type sendMessageRequest struct {
	Content   string `json:"content"`
	ListingID string `json:"listing_id"`
}

func (h *MessageHandler) HandleConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.messages.Conversations(r.Context(), middleware.ViewerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": convs})
}

func (h *MessageHandler) HandleThread(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messages.Thread(r.Context(), middleware.ViewerFromContext(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"items": msgs})
}

func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid message body", zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := h.messages.Send(r.Context(), middleware.ViewerFromContext(r.Context()), chi.URLParam(r, "userID"), req.Content, req.ListingID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, msg)
}
