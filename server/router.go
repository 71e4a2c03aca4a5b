// Package server exposes the journal and its equity charts over a JSON API.
package server

import (
	"context"
	"errors"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logger"
)

type Router struct {
	app      *fiber.App
	store    journal.Store
	defaults config.AccountDefaults
	timeout  time.Duration
}

// New wires the routes over store. New accounts take unset fields from
// defaults; every handler runs its store calls under timeout.
func New(store journal.Store, defaults config.AccountDefaults, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               "tradejournal",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	r := &Router{
		app:      app,
		store:    store,
		defaults: defaults,
		timeout:  timeout,
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/accounts", r.listAccounts)
	v1.Post("/accounts", r.createAccount)
	v1.Get("/accounts/:id", r.getAccount)
	v1.Delete("/accounts/:id", r.deleteAccount)

	v1.Get("/accounts/:id/trades", r.listTrades)
	v1.Post("/accounts/:id/trades", r.addTrades)
	v1.Delete("/accounts/:id/trades/:trade_id", r.deleteTrade)

	v1.Get("/accounts/:id/chart", r.getChart)
	v1.Get("/accounts/:id/stats", r.getStats)
	v1.Get("/accounts/:id/objectives", r.getObjectives)
	v1.Get("/accounts/:id/report", r.getReport)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

// Listen serves on addr until Shutdown is called.
func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.app.ShutdownWithContext(ctx)
}

func (r *Router) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(userContext(c), r.timeout)
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// storeError maps journal sentinels onto HTTP status codes.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, journal.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, journal.ErrDuplicateKey):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, journal.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		logger.Logger.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("request failed")
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
