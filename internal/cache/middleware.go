package cache

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/auth"
)

// Respond serves GET responses from the cache keyed by caller identity and
// query shape. Misses fall through to the handler; successful JSON responses
// are stored for the configured TTL. Cache failures never fail the request.
func Respond(prefix string, store Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		identity, _ := auth.AccountIDFromContext(c)
		key := Key(prefix, identity, c.Queries())

		if payload, ok, err := store.Get(c.Context(), key); err != nil {
			logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(payload)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == http.StatusOK {
			payload := make([]byte, len(c.Response().Body()))
			copy(payload, c.Response().Body())
			if err := store.Set(c.Context(), key, payload); err != nil {
				logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
			}
		}
		return nil
	}
}
