package middleware

import (
	"procurement-app/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slices"
)

// RequireRole gates a route group to the given roles. Policy failures always
// surface as 403, never as a silent pass-through.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(models.Role)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden: role not resolved",
			})
		}

		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden: You do not have permission",
			})
		}

		return c.Next()
	}
}

// RequireProcurement is shorthand for the officer/admin gate used by every
// workflow transition.
func RequireProcurement() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleProcurementOfficer)
}
