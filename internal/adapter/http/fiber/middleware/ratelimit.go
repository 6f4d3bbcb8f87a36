package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/pkg/config"
)

// RateLimit limits requests per client IP. Each conversation turn fans out
// to several paid APIs.
func RateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	maxRequests := cfg.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 60
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(domain.ErrorResponse{
				Errors: []domain.APIError{{Code: domain.CodeAPIError, Msg: "Too many requests"}},
			})
		},
	})
}
