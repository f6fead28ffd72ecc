package router

import (
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupMessageRoutes(r chi.Router, h *handler.MessageHandler, auth *middleware.Authenticator) {
	r.Group(func(priv chi.Router) {
		priv.Use(auth.Required)

		priv.Get("/messages", h.HandleConversations)
		priv.Get("/messages/{userID}", h.HandleThread)
		priv.Post("/messages/{userID}", h.HandleSend)
	})
}
