package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
)

// ErrorHandler renders unhandled errors in the same shape as pipeline
// errors. Internal error text is logged, never returned.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		apiErr := domain.Internal(domain.CodeAPIError)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code != fiber.StatusInternalServerError {
				apiErr.Msg = fe.Message
			}
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Internal Server Error",
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(domain.ErrorResponse{Errors: []domain.APIError{apiErr}})
	}
}
