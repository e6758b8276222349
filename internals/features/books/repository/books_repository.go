package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "bukuku_backend/internals/features/books/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// RatingBounds: min/max skor di seluruh tabel rating.
type RatingBounds struct {
	Min   float64
	Max   float64
	Count int64
}

// BookRepository: document store buku + rating + katalog fitur.
type BookRepository interface {
	// CreateBook menyimpan buku dan (opsional) rating awalnya dalam satu transaksi.
	CreateBook(ctx context.Context, book *model.BookModel, rating *model.BookRatingModel) error
	GetBook(ctx context.Context, bookID string) (*model.BookModel, error)
	FindBookByTitle(ctx context.Context, title string) (*model.BookModel, error)
	// ListBooks: limit <= 0 berarti semua.
	ListBooks(ctx context.Context, offset, limit int) ([]model.BookModel, int64, error)

	AppendRating(ctx context.Context, rating *model.BookRatingModel) error
	ListRatings(ctx context.Context, bookID string) ([]model.BookRatingModel, error)
	LatestRating(ctx context.Context, userID, bookID string) (*model.BookRatingModel, error)
	RatingBounds(ctx context.Context) (RatingBounds, error)

	GetFeatureRow(ctx context.Context, title string) (*model.FeatureRowModel, error)
	UpsertFeatureRow(ctx context.Context, row *model.FeatureRowModel) error
}

/* =========================================================
   GORM (Postgres)
   ========================================================= */

type GormBookRepository struct {
	DB *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{DB: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "sqlstate 23505") || strings.Contains(msg, "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func orderRatings(db *gorm.DB) *gorm.DB {
	return db.Order("book_rating_created_at ASC")
}

func (r *GormBookRepository) CreateBook(ctx context.Context, book *model.BookModel, rating *model.BookRatingModel) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(book).Error; err != nil {
			return err
		}
		if rating != nil {
			rating.BookRatingBookID = book.BookID
			if err := tx.Create(rating).Error; err != nil {
				return err
			}
			book.Ratings = append(book.Ratings, *rating)
		}
		return nil
	})
	return translate(err)
}

func (r *GormBookRepository) GetBook(ctx context.Context, bookID string) (*model.BookModel, error) {
	var m model.BookModel
	err := r.DB.WithContext(ctx).
		Preload("Ratings", orderRatings).
		First(&m, "book_id = ?", bookID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindBookByTitle: case-insensitive, ambil yang terbaru.
func (r *GormBookRepository) FindBookByTitle(ctx context.Context, title string) (*model.BookModel, error) {
	var m model.BookModel
	err := r.DB.WithContext(ctx).
		Preload("Ratings", orderRatings).
		Where("LOWER(book_title) = ?", strings.ToLower(strings.TrimSpace(title))).
		Order("book_created_at DESC").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormBookRepository) ListBooks(ctx context.Context, offset, limit int) ([]model.BookModel, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.BookModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.DB.WithContext(ctx).
		Preload("Ratings", orderRatings).
		Order("book_created_at ASC").
		Order("book_id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var rows []model.BookModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormBookRepository) AppendRating(ctx context.Context, rating *model.BookRatingModel) error {
	return translate(r.DB.WithContext(ctx).Create(rating).Error)
}

func (r *GormBookRepository) ListRatings(ctx context.Context, bookID string) ([]model.BookRatingModel, error) {
	var rows []model.BookRatingModel
	err := orderRatings(r.DB.WithContext(ctx)).
		Where("book_rating_book_id = ?", bookID).
		Find(&rows).Error
	return rows, err
}

// LatestRating: rating terakhir user untuk buku tsb.
func (r *GormBookRepository) LatestRating(ctx context.Context, userID, bookID string) (*model.BookRatingModel, error) {
	var m model.BookRatingModel
	err := r.DB.WithContext(ctx).
		Where("book_rating_user_id = ? AND book_rating_book_id = ?", userID, bookID).
		Order("book_rating_created_at DESC").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormBookRepository) RatingBounds(ctx context.Context) (RatingBounds, error) {
	var row struct {
		Min   *float64
		Max   *float64
		Count int64
	}
	err := r.DB.WithContext(ctx).
		Model(&model.BookRatingModel{}).
		Select("MIN(book_rating_score) AS min, MAX(book_rating_score) AS max, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return RatingBounds{}, err
	}
	if row.Count == 0 || row.Min == nil || row.Max == nil {
		return RatingBounds{}, ErrNotFound
	}
	return RatingBounds{Min: *row.Min, Max: *row.Max, Count: row.Count}, nil
}

func (r *GormBookRepository) GetFeatureRow(ctx context.Context, title string) (*model.FeatureRowModel, error) {
	var m model.FeatureRowModel
	err := r.DB.WithContext(ctx).
		First(&m, "feature_row_key = ?", model.FeatureRowKeyOf(title)).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormBookRepository) UpsertFeatureRow(ctx context.Context, row *model.FeatureRowModel) error {
	row.FeatureRowKey = model.FeatureRowKeyOf(row.FeatureRowTitle)
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature_row_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"feature_row_title", "feature_row_features", "feature_row_updated_at"}),
		}).
		Create(row).Error
	return translate(err)
}

var _ BookRepository = (*GormBookRepository)(nil)
