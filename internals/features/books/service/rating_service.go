package service

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog/log"

	"bukuku_backend/internals/features/books/dto"
	model "bukuku_backend/internals/features/books/model"
	"bukuku_backend/internals/features/books/repository"
	helper "bukuku_backend/internals/helpers"
)

// SubmitRating menambah satu rating ke buku yang sudah ada (tanpa dedup,
// tanpa hitung ulang rata-rata).
func (s *BookService) SubmitRating(ctx context.Context, req dto.RatingSubmitRequest) (*dto.RatingResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.NewValidationError("Missing book_id or rating").WithCause(err)
	}
	if math.IsNaN(*req.Rating) || math.IsInf(*req.Rating, 0) {
		return nil, helper.NewValidationError("rating harus berupa angka")
	}

	if _, err := s.findBook(ctx, req.BookID, ""); err != nil {
		return nil, err
	}

	row := &model.BookRatingModel{
		BookRatingBookID: req.BookID,
		BookRatingUserID: req.UserID,
		BookRatingScore:  *req.Rating,
	}
	if err := s.Repo.AppendRating(ctx, row); err != nil {
		return nil, helper.NewExternalError("gagal menyimpan rating", err)
	}
	log.Info().Str("book_id", req.BookID).Float64("rating", row.BookRatingScore).Msg("[BOOK][RATING] rating ditambahkan")

	out := dto.ToRatingResponses([]model.BookRatingModel{*row})[0]
	return &out, nil
}

// NormalizeRating: (score - min) / (max - min) dengan min/max dari seluruh
// tabel rating. Distribusi tanpa variansi → error, bukan NaN.
func (s *BookService) NormalizeRating(ctx context.Context, req dto.RatingNormalizeRequest) (*dto.NormalizeResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.NewValidationError("Missing user or book").WithCause(err)
	}

	row, err := s.Repo.LatestRating(ctx, req.User, req.Book)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, helper.NewNotFoundError("Review not found")
	case err != nil:
		return nil, helper.NewExternalError("gagal mengambil rating", err)
	}

	b, err := s.Repo.RatingBounds(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, helper.NewNotFoundError("Review not found")
	case err != nil:
		return nil, helper.NewExternalError("gagal mengambil distribusi rating", err)
	}
	if b.Max == b.Min {
		return nil, helper.NewNoVarianceError("rating distribution has no variance")
	}

	return &dto.NormalizeResponse{
		User:            req.User,
		Book:            req.Book,
		Score:           row.BookRatingScore,
		Min:             b.Min,
		Max:             b.Max,
		NormalizedScore: (row.BookRatingScore - b.Min) / (b.Max - b.Min),
	}, nil
}

func (s *BookService) ListRatings(ctx context.Context, bookID string) ([]dto.RatingResponse, error) {
	if _, err := s.findBook(ctx, bookID, ""); err != nil {
		return nil, err
	}
	rows, err := s.Repo.ListRatings(ctx, bookID)
	if err != nil {
		return nil, helper.NewExternalError("gagal mengambil rating", err)
	}
	return dto.ToRatingResponses(rows), nil
}
