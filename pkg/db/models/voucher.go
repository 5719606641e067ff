package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// Voucher is a promotional code. Codes are stored uppercased. UsageCount never
// exceeds UsageLimit when a limit is set; the repository enforces that with a
// guarded update at consumption time rather than a read-modify-write.
type Voucher struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string            `gorm:"column:code;not null;uniqueIndex"`
	Description   string            `gorm:"column:description;type:text"`
	Type          enums.VoucherType `gorm:"column:type;not null"`
	DiscountValue int64             `gorm:"column:discount_value;not null"`
	// MaxDiscount caps percentage vouchers in rupiah. Nil means uncapped.
	// Ignored for fixed vouchers.
	MaxDiscount  *int64    `gorm:"column:max_discount"`
	MinPurchase  int64     `gorm:"column:min_purchase;not null;default:0"`
	UsageLimit   *int      `gorm:"column:usage_limit"`
	UsageCount   int       `gorm:"column:usage_count;not null;default:0"`
	UsagePerUser int       `gorm:"column:usage_per_user;not null;default:1"`
	ValidFrom    time.Time `gorm:"column:valid_from;not null"`
	ValidUntil   time.Time `gorm:"column:valid_until;not null"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
