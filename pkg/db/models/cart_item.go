package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// CartItem snapshots a decoration's pricing at add-to-cart time. PriceIDR is
// the unit price after the decoration discount; the pricing engine never
// re-applies DiscountPercent to it.
type CartItem struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID           `gorm:"column:cart_id;type:uuid;not null;index"`
	DecorationID    uuid.UUID           `gorm:"column:decoration_id;type:uuid;not null"`
	Type            enums.OrderItemType `gorm:"column:type;not null;default:'custom'"`
	Quantity        int                 `gorm:"column:quantity;not null"`
	BasePriceIDR    int64               `gorm:"column:base_price_idr;not null"`
	DiscountPercent int                 `gorm:"column:discount_percent;not null;default:0"`
	PriceIDR        int64               `gorm:"column:price_idr;not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
