package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/pkg/logger"
)

const localLogger = "logger"

// withLogger deja el logger de la API en los Locals de cada petición.
func withLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		c.Locals(localLogger, log)
		return c.Next()
	}
}

func requestLog(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.NewNop()
}

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error().Err(err)
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http request")
		return err
	}
}
