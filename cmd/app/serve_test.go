package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/config"
)

func testApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Apple"}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.Nutrition.BaseURL = upstream.URL
	cfg.Session.Secret = "serve-test"

	app, err := newApp(cfg, db, upstream.Client(), zap.NewNop())
	require.NoError(t, err)
	return app, mock
}

func TestNewApp_Healthz(t *testing.T) {
	app, mock := testApp(t)

	mock.ExpectPing()
	res, err := app.Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	res, err = app.Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, res.StatusCode)
}

func TestNewApp_OrderRoundTrip(t *testing.T) {
	app, mock := testApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT FRUIT_NAME, SEARCH_ON FROM "fruit_options"`)).
		WillReturnRows(sqlmock.NewRows([]string{"FRUIT_NAME", "SEARCH_ON"}).
			AddRow("Apple", "apple").
			AddRow("Mango", "mango"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders" (ingredients, name_on_order) VALUES ($1, $2)`)).
		WithArgs("Apple Mango", "Jo").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, _ := json.Marshal(map[string]any{"nameOnOrder": "Jo", "ingredients": []string{"Apple", "Mango"}})
	req := httptest.NewRequest("POST", "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_FormPage(t *testing.T) {
	app, mock := testApp(t)

	mock.ExpectQuery("SELECT FRUIT_NAME").
		WillReturnRows(sqlmock.NewRows([]string{"FRUIT_NAME", "SEARCH_ON"}).AddRow("Apple", "apple"))

	res, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	page, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(page), `<option value="Apple">`)
}

func TestNewApp_UnknownRoute(t *testing.T) {
	app, _ := testApp(t)

	res, err := app.Test(httptest.NewRequest("GET", "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: password authentication failed") })

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assert.NotContains(t, string(body), "password")
}
