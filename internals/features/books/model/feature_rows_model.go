package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// FeatureRowModel: katalog fitur per judul buku (dipakai saat upload dengan rating).
type FeatureRowModel struct {
	// lower(trim(title)) supaya lookup case-insensitive
	FeatureRowKey      string            `gorm:"type:text;primaryKey;column:feature_row_key" json:"-"`
	FeatureRowTitle    string            `gorm:"type:text;not null;column:feature_row_title" json:"feature_row_title"`
	FeatureRowFeatures datatypes.JSONMap `gorm:"type:jsonb;column:feature_row_features" json:"feature_row_features"`

	FeatureRowCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:feature_row_created_at" json:"feature_row_created_at"`
	FeatureRowUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:feature_row_updated_at" json:"feature_row_updated_at"`
}

func (FeatureRowModel) TableName() string { return "book_feature_rows" }

func FeatureRowKeyOf(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
