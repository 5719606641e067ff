package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// Order is the aggregate root of the payment core. Every monetary column is an
// integer rupiah snapshot fixed at checkout; reconciliation only ever touches
// Status, PaymentMethod, RemainingAmountIDR and the paid-at timestamps.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string    `gorm:"column:order_number;not null;uniqueIndex"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	// Customer and shipping snapshot captured at checkout.
	FirstName   string `gorm:"column:first_name;not null"`
	LastName    string `gorm:"column:last_name;not null"`
	Email       string `gorm:"column:email;not null"`
	Phone       string `gorm:"column:phone;not null"`
	Address     string `gorm:"column:address;not null"`
	City        string `gorm:"column:city;not null"`
	District    string `gorm:"column:district"`
	SubDistrict string `gorm:"column:sub_district"`
	PostalCode  string `gorm:"column:postal_code"`

	SubtotalIDR           int64   `gorm:"column:subtotal_idr;not null"`
	VoucherCode           *string `gorm:"column:voucher_code"`
	VoucherDiscountIDR    int64   `gorm:"column:voucher_discount_idr;not null;default:0"`
	DecorationDiscountIDR int64   `gorm:"column:decoration_discount_idr;not null;default:0"`
	DeliveryFeeIDR        int64   `gorm:"column:delivery_fee_idr;not null;default:0"`
	TotalIDR              int64   `gorm:"column:total_idr;not null"`

	PaymentType        enums.PaymentType `gorm:"column:payment_type;not null"`
	DPAmountIDR        int64             `gorm:"column:dp_amount_idr;not null;default:0"`
	RemainingAmountIDR int64             `gorm:"column:remaining_amount_idr;not null;default:0"`

	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod *string           `gorm:"column:payment_method"`

	SnapToken          *string `gorm:"column:snap_token"`
	DPSnapToken        *string `gorm:"column:dp_snap_token"`
	RemainingSnapToken *string `gorm:"column:remaining_snap_token"`

	DPPaidAt        *time.Time `gorm:"column:dp_paid_at"`
	FullPaidAt      *time.Time `gorm:"column:full_paid_at"`
	RemainingPaidAt *time.Time `gorm:"column:remaining_paid_at"`

	Notes string `gorm:"column:notes;type:text"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
