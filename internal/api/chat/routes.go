package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the blocking chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.Chat)
	r.Get("/chat/history", h.History)
	r.Post("/chat/clear", h.Clear)
	r.Post("/ask", h.Ask)
}

// RegisterStreamRoutes registers routes that must not be cut off by the
// request timeout
func RegisterStreamRoutes(r chi.Router, h *Handler) {
	r.Post("/chat/stream", h.ChatStream)
}
