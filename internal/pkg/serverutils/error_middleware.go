package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"profile-concierge-be/pkg/convo"
)

// ErrorHandlerMiddleware maps domain errors to polite HTTP responses.
// Raw error text and service names never reach the visitor; the full
// error goes to the server log only.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)

		switch {
		case errors.Is(err, convo.ErrValidation):
			return ctx.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse("That request is missing something. Please include a role, a question, and a session id."))
		case errors.Is(err, convo.ErrServiceUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(ErrorResponse("We're having a moment on our side. Please try again shortly."))
		case errors.Is(err, convo.ErrDuplicateAction):
			return ctx.Status(fiber.StatusConflict).
				JSON(ErrorResponse("That was already taken care of earlier in this session."))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse("Something went wrong on our side."))
	}
}
