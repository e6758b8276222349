// file: internals/features/books/model/books_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

type BookModel struct {
	BookID     string  `gorm:"type:varchar(64);primaryKey;column:book_id" json:"book_id"`
	BookTitle  string  `gorm:"type:text;not null;index;column:book_title" json:"book_title"`
	BookAuthor *string `gorm:"type:text;column:book_author" json:"book_author,omitempty"`
	BookUserID string  `gorm:"type:text;not null;index;column:book_user_id" json:"book_user_id"`
	BookReview string  `gorm:"type:text;not null;column:book_review" json:"book_review"`

	// fitur numerik bernama yang dibaca model (feature1, feature2, ...)
	BookFeatures datatypes.JSONMap `gorm:"type:jsonb;column:book_features" json:"book_features"`

	BookImageURL       string `gorm:"type:text;column:book_image_url" json:"book_image_url"`
	BookImageObjectKey string `gorm:"type:text;column:book_image_object_key" json:"-"`

	// rata-rata (rating user + prediksi model) / 2 saat upload
	BookRatingAverage *float64 `gorm:"type:double precision;column:book_rating_average" json:"book_rating_average,omitempty"`

	BookCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:book_created_at" json:"book_created_at"`
	BookUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:book_updated_at" json:"book_updated_at"`

	Ratings []BookRatingModel `gorm:"foreignKey:BookRatingBookID;references:BookID" json:"-"`
}

func (BookModel) TableName() string { return "books" }
