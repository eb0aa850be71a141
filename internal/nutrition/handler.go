package nutrition

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	client *Client
}

func NewHandler(c *Client) *Handler {
	return &Handler{client: c}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/nutrition/:key", h.getNutrition)
}

// getNutrition answers 200 for both available and unavailable results (the
// body says which) and 502 when the API could not be reached.
func (h *Handler) getNutrition(c *fiber.Ctx) error {
	res, err := h.client.Fetch(c.UserContext(), c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "The nutrition service could not be reached."})
	}
	return c.JSON(res)
}
