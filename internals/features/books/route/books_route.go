package route

import (
	"github.com/gofiber/fiber/v2"

	bookCtrl "bukuku_backend/internals/features/books/controller"
	"bukuku_backend/internals/features/books/service"
)

func BookRoutes(r fiber.Router, svc *service.BookService) {
	ctl := bookCtrl.NewBookController(svc)

	r.Get("/", ctl.Index)

	// ----- BUKU -----
	r.Post("/upload", ctl.Upload)
	r.Get("/get_buku", ctl.List)
	r.Get("/buku/:id", ctl.Get)

	// ----- REKOMENDASI & RATING -----
	r.Post("/rekomendasi", ctl.Recommend)
	r.Post("/rating", ctl.Rating)
	r.Get("/rating/:book_id", ctl.ListRatings)

	// ----- KATALOG FITUR -----
	r.Put("/fitur", ctl.UpsertFeature)
	r.Get("/fitur/:title", ctl.GetFeature)
}
