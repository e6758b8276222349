// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	bookRoute "bukuku_backend/internals/features/books/route"
	"bukuku_backend/internals/features/books/service"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, svc *service.BookService) {
	startTime = time.Now()

	log.Info().Msg("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db, svc.Model.Name())

	log.Info().Msg("[INFO] Mounting Book routes...")
	bookRoute.BookRoutes(app, svc)
}
