package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers, and panics, into
// JSON envelopes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, fmt.Sprintf("internal error: %v", r)))
			}
		}()

		if err = ctx.Next(); err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(ErrorResponseWithData(fiber.StatusBadRequest, verr.Error(), verr.Fields))
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
}
