package middleware

import (
	"strings"

	"procurement-app/config"
	"procurement-app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the authenticated
// identity (userID, username, role) in the request locals.
func AuthMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing Authorization header",
		})
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid Authorization header format",
		})
	}
	tokenString := tokenParts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
		}
		return []byte(config.JWTSecret), nil
	})

	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized: Invalid token",
			"error":   err.Error(),
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized: Invalid token",
		})
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized: Invalid user ID",
		})
	}

	role, ok := claims["role"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized: Invalid role",
		})
	}

	username, _ := claims["username"].(string)

	ctx.Locals("userID", userID)
	ctx.Locals("username", username)
	ctx.Locals("role", models.Role(role))
	ctx.Locals("userData", claims)

	return ctx.Next()
}

// Actor rebuilds the acting user from the request locals. The services only
// need the identity and the role, not the stored row.
func Actor(ctx *fiber.Ctx) models.User {
	user := models.User{}

	if userID, ok := ctx.Locals("userID").(float64); ok {
		user.ID = uint(userID)
	}
	if username, ok := ctx.Locals("username").(string); ok {
		user.Username = username
	}
	if role, ok := ctx.Locals("role").(models.Role); ok {
		user.Role = role
	} else {
		user.Role = models.RoleRequester
	}

	return user
}
