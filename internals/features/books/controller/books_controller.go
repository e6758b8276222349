// file: internals/features/books/controller/books_controller.go
package controller

import (
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"bukuku_backend/internals/features/books/dto"
	"bukuku_backend/internals/features/books/service"
	helper "bukuku_backend/internals/helpers"
	helperOSS "bukuku_backend/internals/helpers/oss"
)

type BookController struct {
	Svc *service.BookService
}

func NewBookController(svc *service.BookService) *BookController {
	return &BookController{Svc: svc}
}

// GET /
func (ctrl *BookController) Index(c *fiber.Ctx) error {
	return helper.StatusIndex(c, "success fetching api")
}

/* =========================================================
   UPLOAD
   ========================================================= */

// POST /upload
// multipart: user_id|user, title|name, review, author, rating, book_id,
// features (JSON object) / satu field per nama fitur, file|image|cover|photo.
// JSON (tanpa file) juga diterima.
func (ctrl *BookController) Upload(c *fiber.Ctx) error {
	var (
		req  dto.UploadRequest
		file *dto.FileInput
	)

	if helperOSS.IsMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Form multipart tidak valid")
		}
		if req, err = ctrl.uploadFromForm(form); err != nil {
			return helper.FromAppError(c, err)
		}

		if fh := helperOSS.PickFile(form, helperOSS.DefaultImageFields...); fh != nil {
			f, err := fh.Open()
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
			}
			defer f.Close()
			file = &dto.FileInput{Filename: fh.Filename, Size: fh.Size, Reader: f}
		}
	} else {
		var body uploadJSON
		if err := c.BodyParser(&body); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
		req = body.toRequest()
	}

	res, err := ctrl.Svc.Upload(c.UserContext(), req, file)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	extra := fiber.Map{"file_url": res.FileURL}
	if res.UpdatedRating != nil {
		extra["updated_rating"] = *res.UpdatedRating
	}
	return helper.JsonCreatedWith(c, "File uploaded successfully", res.Book, extra)
}

// uploadJSON menerima nama field dari kedua versi form lama (user/name).
type uploadJSON struct {
	dto.UploadRequest
	User string `json:"user"`
	Name string `json:"name"`
}

func (b uploadJSON) toRequest() dto.UploadRequest {
	req := b.UploadRequest
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = b.User
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = b.Name
	}
	return req
}

func (ctrl *BookController) uploadFromForm(form *multipart.Form) (dto.UploadRequest, error) {
	req := dto.UploadRequest{
		BookID: helperOSS.FormValue(form, "book_id"),
		UserID: helperOSS.FormValue(form, "user_id", "user"),
		Title:  helperOSS.FormValue(form, "title", "name"),
		Review: helperOSS.FormValue(form, "review"),
	}
	if a := helperOSS.FormValue(form, "author"); a != "" {
		req.Author = &a
	}

	if raw := helperOSS.FormValue(form, "rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, helper.NewValidationError("rating harus berupa angka")
		}
		req.Rating = &v
	}

	features := map[string]any{}
	if raw := helperOSS.FormValue(form, "features"); raw != "" {
		if err := sonic.UnmarshalString(raw, &features); err != nil {
			return req, helper.NewValidationError("features harus berupa JSON object")
		}
	}
	for _, name := range ctrl.Svc.FeatureNames {
		if v := helperOSS.FormValue(form, name); v != "" {
			features[name] = v
		}
	}
	if len(features) > 0 {
		req.Features = features
	}
	return req, nil
}

/* =========================================================
   LIST / DETAIL
   ========================================================= */

// GET /get_buku (opsional ?page=&per_page=)
func (ctrl *BookController) List(c *fiber.Ctx) error {
	paging, paged := helper.ResolvePaging(c, 20, 200)

	books, total, err := ctrl.Svc.ListBooks(c.UserContext(), paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var pagination *helper.Pagination
	if paged {
		p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(books))
		pagination = &p
	}
	return helper.JsonList(c, "Books retrieved successfully", books, pagination)
}

// GET /buku/:id
func (ctrl *BookController) Get(c *fiber.Ctx) error {
	book, err := ctrl.Svc.GetBook(c.UserContext(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", book)
}

/* =========================================================
   REKOMENDASI
   ========================================================= */

// POST /rekomendasi {book_id | book_title}
func (ctrl *BookController) Recommend(c *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	res, err := ctrl.Svc.Recommend(c.UserContext(), req)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOKWith(c, "ok", res, fiber.Map{"recommendations": res.Recommendations})
}

/* =========================================================
   RATING
   ========================================================= */

// POST /rating
//   - {book_id, rating[, user_id]} → simpan
//   - {user, book}                 → normalisasi
func (ctrl *BookController) Rating(c *fiber.Ctx) error {
	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	switch {
	case req.IsSubmit():
		res, err := ctrl.Svc.SubmitRating(c.UserContext(), dto.RatingSubmitRequest{
			BookID: req.BookID,
			Rating: req.Rating,
			UserID: req.UserID,
		})
		if err != nil {
			return helper.FromAppError(c, err)
		}
		return helper.JsonCreated(c, "Rating submitted successfully", res)

	case req.IsNormalize():
		res, err := ctrl.Svc.NormalizeRating(c.UserContext(), dto.RatingNormalizeRequest{
			User: req.User,
			Book: req.Book,
		})
		if err != nil {
			return helper.FromAppError(c, err)
		}
		log.Debug().Str("user", res.User).Str("book", res.Book).Float64("normalized", res.NormalizedScore).
			Msg("[BOOK][RATING] normalisasi")
		return helper.JsonOKWith(c, "ok", res, fiber.Map{"normalized_score": res.NormalizedScore})

	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing book_id and rating, or user and book")
	}
}

// GET /rating/:book_id
func (ctrl *BookController) ListRatings(c *fiber.Ctx) error {
	rows, err := ctrl.Svc.ListRatings(c.UserContext(), strings.TrimSpace(c.Params("book_id")))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonList(c, "ok", rows, nil)
}

/* =========================================================
   FITUR
   ========================================================= */

// PUT /fitur {title, features}
func (ctrl *BookController) UpsertFeature(c *fiber.Ctx) error {
	var req dto.FeatureRowUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	res, err := ctrl.Svc.UpsertFeatureRow(c.UserContext(), req)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "Feature row saved", res)
}

// GET /fitur/:title
func (ctrl *BookController) GetFeature(c *fiber.Ctx) error {
	title := c.Params("title")
	if t, err := url.PathUnescape(title); err == nil {
		title = t
	}
	res, err := ctrl.Svc.GetFeatureRow(c.UserContext(), title)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}
