// file: internals/features/books/dto/books_dto.go
package dto

import (
	"io"
	"strings"
	"time"

	model "bukuku_backend/internals/features/books/model"
)

/* =========================================================
   REQUEST
   ========================================================= */

type UploadRequest struct {
	BookID   string         `json:"book_id"  form:"book_id"  validate:"omitempty,max=64"`
	UserID   string         `json:"user_id"  form:"user_id"  validate:"required"`
	Title    string         `json:"title"    form:"title"    validate:"required"`
	Review   string         `json:"review"   form:"review"   validate:"required"`
	Author   *string        `json:"author,omitempty" form:"author"`
	Rating   *float64       `json:"rating,omitempty" form:"rating"`
	Features map[string]any `json:"features,omitempty"`
}

// FileInput: file gambar yang sudah dibuka controller.
type FileInput struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type RecommendRequest struct {
	BookID    string `json:"book_id"`
	BookTitle string `json:"book_title"`
}

// RatingRequest menampung dua bentuk body POST /rating:
//   - {book_id, rating[, user_id]} → simpan rating
//   - {user, book}                 → normalisasi skor
type RatingRequest struct {
	BookID string   `json:"book_id"`
	Rating *float64 `json:"rating"`
	UserID *string  `json:"user_id,omitempty"`

	User string `json:"user"`
	Book string `json:"book"`
}

type RatingSubmitRequest struct {
	BookID string   `validate:"required"`
	Rating *float64 `validate:"required"`
	UserID *string
}

type RatingNormalizeRequest struct {
	User string `validate:"required"`
	Book string `validate:"required"`
}

type FeatureRowUpsertRequest struct {
	Title    string         `json:"title"    validate:"required"`
	Features map[string]any `json:"features" validate:"required,min=1"`
}

/* =========================================================
   NORMALIZER
   ========================================================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (r *UploadRequest) Normalize() {
	r.BookID = strings.TrimSpace(r.BookID)
	r.UserID = strings.TrimSpace(r.UserID)
	r.Title = strings.TrimSpace(r.Title)
	r.Review = strings.TrimSpace(r.Review)
	r.Author = trimPtr(r.Author)
}

func (r *RecommendRequest) Normalize() {
	r.BookID = strings.TrimSpace(r.BookID)
	r.BookTitle = strings.TrimSpace(r.BookTitle)
}

func (r *RatingRequest) Normalize() {
	r.BookID = strings.TrimSpace(r.BookID)
	r.UserID = trimPtr(r.UserID)
	r.User = strings.TrimSpace(r.User)
	r.Book = strings.TrimSpace(r.Book)
}

// IsSubmit: body berbentuk {book_id, rating}
func (r *RatingRequest) IsSubmit() bool { return r.BookID != "" || r.Rating != nil }

// IsNormalize: body berbentuk {user, book}
func (r *RatingRequest) IsNormalize() bool { return r.User != "" || r.Book != "" }

func (r *FeatureRowUpsertRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

/* =========================================================
   RESPONSE
   ========================================================= */

type BookResponse struct {
	BookID            string         `json:"book_id"`
	BookTitle         string         `json:"book_title"`
	BookAuthor        *string        `json:"book_author,omitempty"`
	BookUserID        string         `json:"book_user_id"`
	BookReview        string         `json:"book_review"`
	BookFeatures      map[string]any `json:"book_features"`
	BookImageURL      string         `json:"book_image_url"`
	BookRatingAverage *float64       `json:"book_rating_average,omitempty"`
	BookRatings       []float64      `json:"book_ratings"`
	BookCreatedAt     time.Time      `json:"book_created_at"`
	BookUpdatedAt     time.Time      `json:"book_updated_at"`
}

func ToBookResponse(m *model.BookModel) BookResponse {
	features := map[string]any(m.BookFeatures)
	if features == nil {
		features = map[string]any{}
	}
	ratings := make([]float64, 0, len(m.Ratings))
	for _, r := range m.Ratings {
		ratings = append(ratings, r.BookRatingScore)
	}
	return BookResponse{
		BookID:            m.BookID,
		BookTitle:         m.BookTitle,
		BookAuthor:        m.BookAuthor,
		BookUserID:        m.BookUserID,
		BookReview:        m.BookReview,
		BookFeatures:      features,
		BookImageURL:      m.BookImageURL,
		BookRatingAverage: m.BookRatingAverage,
		BookRatings:       ratings,
		BookCreatedAt:     m.BookCreatedAt,
		BookUpdatedAt:     m.BookUpdatedAt,
	}
}

func ToBookResponses(rows []model.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToBookResponse(&rows[i]))
	}
	return out
}

type UploadResponse struct {
	Book          BookResponse `json:"book"`
	FileURL       string       `json:"file_url"`
	UpdatedRating *float64     `json:"updated_rating,omitempty"`
}

type RecommendResponse struct {
	BookID          string    `json:"book_id"`
	BookTitle       string    `json:"book_title"`
	FeatureVector   []float64 `json:"feature_vector"`
	Recommendations []float64 `json:"recommendations"`
}

type RatingResponse struct {
	BookRatingID     string    `json:"book_rating_id"`
	BookRatingBookID string    `json:"book_rating_book_id"`
	BookRatingUserID *string   `json:"book_rating_user_id,omitempty"`
	BookRatingScore  float64   `json:"book_rating_score"`
	BookRatingAt     time.Time `json:"book_rating_created_at"`
}

func ToRatingResponses(rows []model.BookRatingModel) []RatingResponse {
	out := make([]RatingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, RatingResponse{
			BookRatingID:     r.BookRatingID.String(),
			BookRatingBookID: r.BookRatingBookID,
			BookRatingUserID: r.BookRatingUserID,
			BookRatingScore:  r.BookRatingScore,
			BookRatingAt:     r.BookRatingCreatedAt,
		})
	}
	return out
}

type NormalizeResponse struct {
	User            string  `json:"user"`
	Book            string  `json:"book"`
	Score           float64 `json:"score"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	NormalizedScore float64 `json:"normalized_score"`
}

type FeatureRowResponse struct {
	Title     string         `json:"title"`
	Features  map[string]any `json:"features"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func ToFeatureRowResponse(m *model.FeatureRowModel) FeatureRowResponse {
	f := map[string]any(m.FeatureRowFeatures)
	if f == nil {
		f = map[string]any{}
	}
	return FeatureRowResponse{Title: m.FeatureRowTitle, Features: f, UpdatedAt: m.FeatureRowUpdatedAt}
}
