package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"impala_backend/internals/helpers/dbtime"
)

// TimezoneMiddleware menaruh zona waktu aplikasi di c.Locals("app_loc").
func TimezoneMiddleware(loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = dbtime.LoadLocation("")
	}
	return func(c *fiber.Ctx) error {
		c.Locals(dbtime.LocAppLoc, loc)
		return c.Next()
	}
}
