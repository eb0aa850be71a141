package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
	"github.com/wichananm65/smoothie-order-form/internal/config"
	"github.com/wichananm65/smoothie-order-form/internal/database"
	"github.com/wichananm65/smoothie-order-form/internal/form"
	"github.com/wichananm65/smoothie-order-form/internal/logger"
	"github.com/wichananm65/smoothie-order-form/internal/nutrition"
	"github.com/wichananm65/smoothie-order-form/internal/order"
)

const (
	bodyLimit       = 1 << 20
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the order form HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Store)
	if err != nil {
		log.Error("store unavailable", zap.Error(err))
		return err
	}
	defer db.Close()

	// A store that is down at startup is not fatal: the form renders with a
	// warning until it comes back.
	if err := database.Ping(cmd.Context(), db, cfg.Store); err != nil {
		log.Warn("store not reachable at startup", zap.Error(err))
	}

	app, err := newApp(cfg, db, &http.Client{}, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// newApp wires every component onto one fiber app.
func newApp(cfg config.Config, db *sql.DB, httpClient *http.Client, log *zap.Logger) (*fiber.App, error) {
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db, cfg.Store.CatalogTable), log)
	nutritionClient := nutrition.NewClient(httpClient, cfg.Nutrition, log)
	validator := order.NewValidator(cfg.Order.MaxSelections)
	orderService := order.NewService(order.NewPostgresRepository(db, cfg.Store.OrdersTable), log)

	secret := cfg.Session.Secret
	if secret == "" {
		secret = randomSecret()
		log.Warn("SESSION_SECRET not set, using a per-process secret; open forms stop working after a restart")
	}
	sessions := form.NewSessions(secret, cfg.Session.TTL)

	controller := form.NewController(catalogService, nutritionClient, orderService, validator, log)
	formHandler, err := form.NewHandler(controller, sessions, log)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "smoothie-order-form",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})
	app.Use(logger.Middleware(log))
	app.Use(recover.New())

	app.Get("/healthz", healthz(db, cfg.Store))
	formHandler.RegisterPublicRoutes(app)
	catalog.NewHandler(catalogService).RegisterPublicRoutes(app)
	nutrition.NewHandler(nutritionClient).RegisterPublicRoutes(app)
	order.NewHandler(catalogService, validator, orderService).RegisterPublicRoutes(app)

	return app, nil
}

func healthz(db *sql.DB, cfg config.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db, cfg); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// errorHandler answers for errors no handler dealt with. Details stay in
// the request log.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "An unexpected error occurred. Please check the logs for more details."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	return c.Status(code).JSON(fiber.Map{"message": msg})
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
