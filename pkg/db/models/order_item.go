package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// OrderItem freezes a cart line at checkout. PriceIDR = BasePriceIDR -
// DiscountIDR and is the unit price the order total was built from.
type OrderItem struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	DecorationID uuid.UUID           `gorm:"column:decoration_id;type:uuid;not null"`
	Name         string              `gorm:"column:name;not null"`
	Type         enums.OrderItemType `gorm:"column:type;not null;default:'custom'"`
	Quantity     int                 `gorm:"column:quantity;not null"`
	BasePriceIDR int64               `gorm:"column:base_price_idr;not null"`
	DiscountIDR  int64               `gorm:"column:discount_idr;not null;default:0"`
	PriceIDR     int64               `gorm:"column:price_idr;not null"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
