package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"bukuku_backend/internals/features/books/dto"
	model "bukuku_backend/internals/features/books/model"
	"bukuku_backend/internals/features/books/repository"
	helper "bukuku_backend/internals/helpers"
	"bukuku_backend/internals/helpers/ml"
)

func (s *BookService) UpsertFeatureRow(ctx context.Context, req dto.FeatureRowUpsertRequest) (*dto.FeatureRowResponse, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.NewValidationError("title dan features wajib diisi").WithCause(err)
	}
	for k, v := range req.Features {
		if _, ok := ml.ToFloat(v); !ok {
			return nil, helper.NewValidationError(fmt.Sprintf("fitur %q harus berupa angka", k))
		}
	}

	row := &model.FeatureRowModel{
		FeatureRowTitle:    req.Title,
		FeatureRowFeatures: datatypes.JSONMap(req.Features),
	}
	if err := s.Repo.UpsertFeatureRow(ctx, row); err != nil {
		return nil, helper.NewExternalError("gagal menyimpan fitur", err)
	}
	out := dto.ToFeatureRowResponse(row)
	return &out, nil
}

func (s *BookService) GetFeatureRow(ctx context.Context, title string) (*dto.FeatureRowResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, helper.NewValidationError("title wajib diisi")
	}
	row, err := s.Repo.GetFeatureRow(ctx, title)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, helper.NewNotFoundError("Feature row not found")
	case err != nil:
		return nil, helper.NewExternalError("gagal mengambil fitur", err)
	}
	out := dto.ToFeatureRowResponse(row)
	return &out, nil
}

// resolveFeatures: baris katalog untuk judul (kalau ada) digabung dengan
// fitur dari request. Nilai dari request menang.
func (s *BookService) resolveFeatures(ctx context.Context, title string, requested map[string]any) (map[string]any, error) {
	out := map[string]any{}

	row, err := s.Repo.GetFeatureRow(ctx, title)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, helper.NewExternalError("gagal mengambil fitur", err)
	default:
		for k, v := range row.FeatureRowFeatures {
			out[k] = v
		}
	}

	for k, v := range requested {
		f, ok := ml.ToFloat(v)
		if !ok {
			return nil, helper.NewValidationError(fmt.Sprintf("fitur %q harus berupa angka", k))
		}
		out[k] = f
	}
	return out, nil
}
