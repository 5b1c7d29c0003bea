// Package api exposes the resume workflows over HTTP.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
)

// NewApp builds the Fiber app with middleware and the handler's routes.
func NewApp(h *Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Resume Analyzer API",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger)

	h.RegisterRoutes(app)
	return app
}

const requestIDHeader = "X-Request-ID"

// requestLogger tags the request context with a request id, so everything
// logged through logger.Ctx while handling it carries the same id.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	requestID := c.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDHeader, requestID)
	ctx := logger.WithContext(c.UserContext(), map[string]any{"request_id": requestID})
	c.SetUserContext(ctx)

	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	logger.Ctx(ctx).Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}

	logger.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("internal server error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
