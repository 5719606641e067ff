package models

import (
	"time"

	"github.com/google/uuid"
)

// Decoration is the catalog entity priced in integer rupiah. FinalPriceIDR is
// the unit price after DiscountPercent is applied to BasePriceIDR; cart and
// order snapshots copy it so later catalog edits never reprice past orders.
type Decoration struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description;type:text"`
	BasePriceIDR    int64     `gorm:"column:base_price_idr;not null"`
	DiscountPercent int       `gorm:"column:discount_percent;not null;default:0"`
	FinalPriceIDR   int64     `gorm:"column:final_price_idr;not null"`
	// MinimumDPPercentage floors the down-payment percentage for orders
	// containing this decoration. 0 means the platform default applies.
	MinimumDPPercentage int       `gorm:"column:minimum_dp_percentage;not null;default:0"`
	IsActive            bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
