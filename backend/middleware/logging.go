package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func LoggingMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		entry := logger.WithFields(logrus.Fields{
			"ip":      c.IP(),
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		})
		if err != nil {
			entry.WithError(err).Error("request failed")
			return err
		}
		entry.Info("request")
		return nil
	}
}
