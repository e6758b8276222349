package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"

	"bukuku_backend/internals/configs"
	"bukuku_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global. Urutan penting:
// logger paling luar supaya status dari panic/error ikut tercatat.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig, storage fiber.Storage) {
	app.Use(logger.LoggerMiddleware())
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(GlobalRateLimiter(cfg.RateLimitMax, storage))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
}
