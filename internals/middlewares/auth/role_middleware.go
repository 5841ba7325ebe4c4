package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RoleMiddlewareWithCustomError validasi role (dari AuthJWT) + custom error message.
// allowedRoles kosong berarti semua user terautentikasi boleh lewat.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(allowedRoles) == 0 {
			return c.Next()
		}
		roles, ok := c.Locals(LocRoles).([]string)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}

		for _, role := range roles {
			for _, allowed := range allowedRoles {
				if strings.EqualFold(role, allowed) {
					return c.Next()
				}
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return fiber.NewError(fiber.StatusForbidden, customForbiddenMessage)
	}
}

// Shortcut biar lebih clean pemakaian
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
