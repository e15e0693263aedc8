package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentPage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key       string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Section   string    `gorm:"type:varchar(32);not null;index"`
	OrderKey  *int      `gorm:"index"`
	Position  int       `gorm:"not null;default:0"`
	Title     string    `gorm:"type:text;not null"`
	Body      string    `gorm:"type:text;not null"`
	ImageMime string    `gorm:"type:varchar(64)"`
	ImageData []byte    `gorm:"type:bytea"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ContentPage) TableName() string {
	return "content_pages"
}

type Product struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb"`
	Source    string            `gorm:"type:text;not null"`
	Position  int               `gorm:"not null;default:0"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (Product) TableName() string {
	return "products"
}

type ProductDescription struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Product  string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Text     string    `gorm:"type:text;not null"`
	Position int       `gorm:"not null;default:0"`
}

func (ProductDescription) TableName() string {
	return "product_descriptions"
}

// SystemAsset holds the prompt files, the logo and the model override.
type SystemAsset struct {
	Name      string    `gorm:"type:varchar(255);primaryKey"`
	Text      string    `gorm:"type:text"`
	MimeType  string    `gorm:"type:varchar(64)"`
	Data      []byte    `gorm:"type:bytea"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SystemAsset) TableName() string {
	return "system_assets"
}
