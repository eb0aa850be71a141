package form

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/logger"
)

// Handler serves the HTML order form.
type Handler struct {
	controller *Controller
	sessions   *Sessions
	page       *Page
	log        *zap.Logger
}

func NewHandler(ctl *Controller, sessions *Sessions, log *zap.Logger) (*Handler, error) {
	page, err := NewPage()
	if err != nil {
		return nil, err
	}
	return &Handler{controller: ctl, sessions: sessions, page: page, log: logger.Component(log, "form")}, nil
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/", h.showForm)
	app.Post("/", h.sessions.Middleware(h.sessionExpired), h.postForm)
}

func (h *Handler) showForm(c *fiber.Ctx) error {
	if _, err := h.sessions.SetCookie(c); err != nil {
		h.log.Error("form session not issued", zap.Error(err))
	}
	return h.render(c, h.controller.Load(c.UserContext()))
}

// postForm handles both a selection change (action=preview) and the Submit
// Order button (action=submit).
func (h *Handler) postForm(c *fiber.Ctx) error {
	in := readInput(c)
	action := c.FormValue("action", "preview")
	h.log.Debug("form post",
		zap.String("session_id", SessionID(c)),
		zap.String("action", action),
		zap.Int("selected", len(in.Ingredients)))

	if action == "submit" {
		return h.render(c, h.controller.Submit(c.UserContext(), in))
	}
	return h.render(c, h.controller.Preview(c.UserContext(), in))
}

// sessionExpired reloads the form with a fresh session instead of acting on
// a post whose session cookie is missing, forged or stale.
func (h *Handler) sessionExpired(c *fiber.Ctx, err error) error {
	h.log.Info("form session rejected", zap.Error(err))
	if _, err := h.sessions.SetCookie(c); err != nil {
		h.log.Error("form session not issued", zap.Error(err))
	}
	return h.render(c, h.controller.SessionExpired(c.UserContext(), readInput(c)))
}

func (h *Handler) render(c *fiber.Ctx, view View) error {
	body, err := h.page.Render(view)
	if err != nil {
		h.log.Error("form render failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "An unexpected error occurred. Please check the logs for more details.")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(body)
}

func readInput(c *fiber.Ctx) Input {
	in := Input{NameOnOrder: c.FormValue("name_on_order")}
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if mf, err := c.MultipartForm(); err == nil {
			in.Ingredients = append(in.Ingredients, mf.Value["ingredients"]...)
		}
		return in
	}
	for _, v := range c.Request().PostArgs().PeekMulti("ingredients") {
		in.Ingredients = append(in.Ingredients, string(v))
	}
	return in
}
