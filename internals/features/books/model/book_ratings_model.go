package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookRatingModel: satu baris (user, book, score). Append-only, boleh dobel per user.
type BookRatingModel struct {
	BookRatingID     uuid.UUID `gorm:"type:uuid;primaryKey;column:book_rating_id" json:"book_rating_id"`
	BookRatingBookID string    `gorm:"type:varchar(64);not null;index:idx_book_ratings_book_user,priority:1;column:book_rating_book_id" json:"book_rating_book_id"`
	BookRatingUserID *string   `gorm:"type:text;index:idx_book_ratings_book_user,priority:2;column:book_rating_user_id" json:"book_rating_user_id,omitempty"`
	BookRatingScore  float64   `gorm:"type:double precision;not null;column:book_rating_score" json:"book_rating_score"`

	BookRatingCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:book_rating_created_at" json:"book_rating_created_at"`
}

func (BookRatingModel) TableName() string { return "book_ratings" }

func (m *BookRatingModel) BeforeCreate(*gorm.DB) error {
	if m.BookRatingID == uuid.Nil {
		m.BookRatingID = uuid.New()
	}
	return nil
}
