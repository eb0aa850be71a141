package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
)

// Handler exposes order submission as JSON.
type Handler struct {
	catalog   *catalog.Service
	validator *Validator
	service   *Service
}

func NewHandler(cs *catalog.Service, v *Validator, s *Service) *Handler {
	return &Handler{catalog: cs, validator: v, service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
}

type createOrderRequest struct {
	NameOnOrder string   `json:"nameOnOrder"`
	Ingredients []string `json:"ingredients"`
}

type createOrderResponse struct {
	PersistedOrder
	Warnings []string `json:"warnings,omitempty"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	snap, err := h.catalog.Snapshot(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "The fruit list is unavailable right now."})
	}

	validated, err := h.validator.Validate(DraftFromNames(payload.NameOnOrder, payload.Ingredients, snap), snap)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ve.Message()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.Submit(c.UserContext(), validated); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": Message(err)})
	}
	return c.Status(fiber.StatusCreated).JSON(createOrderResponse{
		PersistedOrder: validated.Persisted(),
		Warnings:       validated.WarningMessages(),
	})
}
