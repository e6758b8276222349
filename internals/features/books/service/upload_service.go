package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"bukuku_backend/internals/features/books/dto"
	model "bukuku_backend/internals/features/books/model"
	"bukuku_backend/internals/features/books/repository"
	helper "bukuku_backend/internals/helpers"
	"bukuku_backend/internals/helpers/ml"
	helperOSS "bukuku_backend/internals/helpers/oss"
)

// Upload menjalankan pipeline upload buku:
//
//	validasi → cek tipe file → resolve fitur → (prediksi) → simpan gambar → simpan record
//
// Semua pengecekan selesai sebelum write pertama, jadi request yang ditolak
// tidak menyentuh OSS maupun DB.
func (s *BookService) Upload(ctx context.Context, req dto.UploadRequest, file *dto.FileInput) (*dto.UploadResponse, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.NewValidationError("Missing required fields: user_id, title, review").WithCause(err)
	}
	if req.Rating != nil && (math.IsNaN(*req.Rating) || math.IsInf(*req.Rating, 0)) {
		return nil, helper.NewValidationError("rating harus berupa angka")
	}
	if file != nil && !helperOSS.IsImageFile(file.Filename) {
		return nil, helper.NewValidationError("Invalid file type. Only image files are allowed.")
	}

	if req.BookID != "" {
		_, err := s.Repo.GetBook(ctx, req.BookID)
		switch {
		case err == nil:
			return nil, helper.NewConflictError("book_id sudah dipakai")
		case !errors.Is(err, repository.ErrNotFound):
			return nil, helper.NewExternalError("gagal cek book_id", err)
		}
	} else {
		req.BookID = uuid.NewString()
	}

	features, err := s.resolveFeatures(ctx, req.Title, req.Features)
	if err != nil {
		return nil, err
	}

	// rating + prediksi model → rata-rata
	var updated *float64
	if req.Rating != nil {
		if !ml.HasAnyFeature(features, s.FeatureNames) {
			return nil, helper.NewNotFoundError("Review not found: no feature row for title")
		}
		vector := ml.BuildVector(features, s.FeatureNames)
		out, err := ml.PredictOne(ctx, s.Model, vector)
		if err != nil {
			return nil, helper.NewExternalError("prediksi model gagal", err)
		}
		avg := (*req.Rating + out[0]) / 2
		updated = &avg
		log.Debug().
			Str("book_id", req.BookID).
			Floats64("vector", vector).
			Float64("predicted", out[0]).
			Float64("updated", avg).
			Msg("[BOOK][UPLOAD] rating diperbarui")
	}

	var uploaded *helperOSS.UploadResult
	if file != nil {
		res, err := s.Blob.UploadImage(ctx, file.Filename, file.Reader)
		if err != nil {
			if errors.Is(err, helperOSS.ErrInvalidImageType) {
				return nil, helper.NewValidationError("Invalid file type. Only image files are allowed.")
			}
			return nil, helper.NewExternalError("upload gambar gagal", err)
		}
		uploaded = &res
	}

	book := &model.BookModel{
		BookID:            req.BookID,
		BookTitle:         req.Title,
		BookAuthor:        req.Author,
		BookUserID:        req.UserID,
		BookReview:        req.Review,
		BookFeatures:      datatypes.JSONMap(features),
		BookRatingAverage: updated,
	}
	if uploaded != nil {
		book.BookImageURL = uploaded.PublicURL
		book.BookImageObjectKey = uploaded.ObjectKey
	}

	var rating *model.BookRatingModel
	if req.Rating != nil {
		uid := req.UserID
		rating = &model.BookRatingModel{BookRatingUserID: &uid, BookRatingScore: *req.Rating}
	}

	if err := s.Repo.CreateBook(ctx, book, rating); err != nil {
		if uploaded != nil {
			if derr := s.Blob.DeleteObject(ctx, uploaded.ObjectKey); derr != nil {
				log.Warn().Err(derr).Str("key", uploaded.ObjectKey).Msg("[BOOK][UPLOAD] gagal hapus object setelah DB error")
			}
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, helper.NewConflictError("book_id sudah dipakai")
		}
		return nil, helper.NewExternalError("gagal menyimpan buku", err)
	}

	log.Info().
		Str("book_id", book.BookID).
		Str("user_id", book.BookUserID).
		Bool("with_file", uploaded != nil).
		Msg("[BOOK][UPLOAD] ✅ buku tersimpan")

	return &dto.UploadResponse{
		Book:          dto.ToBookResponse(book),
		FileURL:       book.BookImageURL,
		UpdatedRating: updated,
	}, nil
}
