package quiz

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes registers quiz lifecycle routes on the provided router.
func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/quiz")

	grp.Post("/generate", h.HandleGenerate)
	grp.Post("/answer", h.HandleAnswer)
	grp.Post("/submit", h.HandleSubmit)
	grp.Post("/save", h.HandleSave)
	grp.Get("/results", h.HandleResults)
}
