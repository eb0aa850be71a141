package catalog

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/ingredients", h.getIngredients)
}

func (h *Handler) getIngredients(c *fiber.Ctx) error {
	items, err := h.service.ListIngredients(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "The fruit list is unavailable right now."})
	}
	return c.JSON(items)
}
