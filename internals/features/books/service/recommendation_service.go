package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"bukuku_backend/internals/features/books/dto"
	helper "bukuku_backend/internals/helpers"
	"bukuku_backend/internals/helpers/ml"
)

// Recommend mengembalikan output model (sudah diratakan) untuk satu buku.
// Tidak ada write; state sama + id sama → hasil sama.
func (s *BookService) Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.RecommendResponse, error) {
	req.Normalize()
	if req.BookID == "" && req.BookTitle == "" {
		return nil, helper.NewValidationError("book_id atau book_title wajib diisi")
	}

	book, err := s.findBook(ctx, req.BookID, req.BookTitle)
	if err != nil {
		return nil, err
	}

	vector := ml.BuildVector(book.BookFeatures, s.FeatureNames)
	out, err := ml.PredictOne(ctx, s.Model, vector)
	if err != nil {
		log.Error().Err(err).Str("book_id", book.BookID).Str("model", s.Model.Name()).
			Msg("[BOOK][RECOMMEND] prediksi gagal")
		return nil, helper.NewExternalError("failed to generate recommendations", err)
	}

	return &dto.RecommendResponse{
		BookID:          book.BookID,
		BookTitle:       book.BookTitle,
		FeatureVector:   vector,
		Recommendations: out,
	}, nil
}
