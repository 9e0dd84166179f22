package middleware

import (
	"strings"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/db"
	"github.com/raghupathi321/Janagraha-sub000/helper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := strings.TrimSpace(c.Get("Authorization"))
		if bearer == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Missing token",
			})
		}

		if len(bearer) < 7 || !strings.EqualFold(bearer[:7], "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Invalid bearer token format",
			})
		}
		token := strings.TrimSpace(bearer[7:])

		claims, err := helper.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
			})
		}

		if claims.Type != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Invalid token type",
			})
		}

		var count int64
		blacklistErr := db.GetDB().Model(&model.BlacklistedToken{}).Where("token = ?", token).Count(&count).Error
		if blacklistErr == nil && count > 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Token has been revoked",
			})
		}

		if claims.UserID == uuid.Nil || claims.Email == "" || claims.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Incomplete token claims",
			})
		}

		role := strings.ToLower(claims.Role)

		c.Locals("user_id", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", role)
		c.Locals("raw_token", token)
		c.Locals("user", claims)

		return c.Next()
	}
}

// RolesRequired gates a route on the token's role claim. Routes that need a
// fresher answer (the evaluation endpoints) re-fetch the role from storage
// on top of this.
func RolesRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "Missing role claim",
			})
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(model.ErrorResponse{
			Success: false,
			Message: "Access denied",
		})
	}
}
