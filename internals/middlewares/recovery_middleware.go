package middlewares

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

// RecoveryMiddleware menangkap panic; error-nya diteruskan ke ErrorHandler (500)
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error().
				Str("panic", fmt.Sprint(e)).
				Str("path", c.OriginalURL()).
				Bytes("stack", debug.Stack()).
				Msg("[HTTP] 💥 panic")
		},
	})
}
