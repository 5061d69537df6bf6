package chat

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes registers chat routes on the provided router.
func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/chat")

	grp.Post("/", h.HandleAsk)
	grp.Get("/history", h.HandleHistory)
	grp.Delete("/history", h.HandleClearHistory)
}
