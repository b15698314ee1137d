package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/avinashm/sparkcart-backend/pkg/db/types"
)

// Coupon is a percentage discount rule. Codes are stored upper-cased and
// matched case-insensitively. An empty ApplicableProducts array means the
// coupon applies to the whole catalog. UsedCount only ever increases; a
// cancelled or refunded order does not give the use back.
type Coupon struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string             `gorm:"column:code;not null;uniqueIndex:coupons_code_key"`
	Description        *string            `gorm:"column:description"`
	DiscountPercentage int                `gorm:"column:discount_percentage;not null"`
	ApplicableProducts dbtypes.UUIDArray  `gorm:"column:applicable_products;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	IsActive           bool               `gorm:"column:is_active;not null;default:true"`
	UsageLimit         *int               `gorm:"column:usage_limit"`
	UsedCount          int                `gorm:"column:used_count;not null;default:0"`
	ValidFrom          time.Time          `gorm:"column:valid_from;not null"`
	ValidUntil         *time.Time         `gorm:"column:valid_until"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
