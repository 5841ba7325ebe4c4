package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/configs"
	"impala_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global: recover, CORS, access log,
// zona waktu, lalu rate limit global.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig, log logrus.FieldLogger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(logger.LoggerMiddleware(cfg.Timezone))
	app.Use(TimezoneMiddleware(cfg.Location()))
	app.Use(GlobalRateLimiter())
}
