package controllers

import (
	"procurement-app/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// serviceError maps a service error onto the taxonomy's HTTP status. Guard
// violations travel back as structured 4xx responses and are never retried.
func serviceError(ctx *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		zap.L().Error("unhandled service error",
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
		return ctx.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
