package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents one catalog listing. Price is the current sale price;
// OriginalPrice is the pre-markdown price shown struck through.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Description   *string   `gorm:"column:description"`
	Category      string    `gorm:"column:category;not null;index:products_category_idx"`
	Price         int       `gorm:"column:price;not null"`
	OriginalPrice int       `gorm:"column:original_price;not null"`
	Stock         int       `gorm:"column:stock;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	ImageURL      *string   `gorm:"column:image_url"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
