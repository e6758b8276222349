// file: internals/features/books/service/books_service.go
package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"bukuku_backend/internals/features/books/dto"
	model "bukuku_backend/internals/features/books/model"
	"bukuku_backend/internals/features/books/repository"
	helper "bukuku_backend/internals/helpers"
	"bukuku_backend/internals/helpers/ml"
	helperOSS "bukuku_backend/internals/helpers/oss"
)

// BookService: pipeline upload, rekomendasi, dan rating.
// Semua collaborator di-inject supaya bisa diganti fake saat test.
type BookService struct {
	Repo         repository.BookRepository
	Blob         helperOSS.BlobService
	Model        ml.Predictor
	FeatureNames []string

	validate *validator.Validate
}

func NewBookService(
	repo repository.BookRepository,
	blob helperOSS.BlobService,
	model ml.Predictor,
	featureNames []string,
) *BookService {
	return &BookService{
		Repo:         repo,
		Blob:         blob,
		Model:        model,
		FeatureNames: featureNames,
		validate:     validator.New(),
	}
}

func (s *BookService) ListBooks(ctx context.Context, offset, limit int) ([]dto.BookResponse, int64, error) {
	rows, total, err := s.Repo.ListBooks(ctx, offset, limit)
	if err != nil {
		return nil, 0, helper.NewExternalError("gagal mengambil data buku", err)
	}
	return dto.ToBookResponses(rows), total, nil
}

func (s *BookService) GetBook(ctx context.Context, bookID string) (*dto.BookResponse, error) {
	m, err := s.findBook(ctx, bookID, "")
	if err != nil {
		return nil, err
	}
	out := dto.ToBookResponse(m)
	return &out, nil
}

// findBook: cari berdasarkan id dulu, kalau kosong pakai judul.
func (s *BookService) findBook(ctx context.Context, bookID, title string) (*model.BookModel, error) {
	var (
		m   *model.BookModel
		err error
	)
	if bookID != "" {
		m, err = s.Repo.GetBook(ctx, bookID)
	} else {
		m, err = s.Repo.FindBookByTitle(ctx, title)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, helper.NewNotFoundError("Book not found")
	case err != nil:
		return nil, helper.NewExternalError("gagal mengambil data buku", err)
	}
	return m, nil
}
