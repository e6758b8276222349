// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"bukuku_backend/internals/configs"
)

// CorsMiddleware membuat middleware CORS dari daftar origin (CORS_ORIGINS).
// "*" tidak boleh dipasangkan dengan credentials.
func CorsMiddleware(origins string) fiber.Handler {
	allow := strings.Join(configs.SplitList(origins), ", ")
	if allow == "" {
		allow = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: allow != "*",
	})
}
