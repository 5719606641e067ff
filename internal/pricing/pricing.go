package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// Item is one cart line as seen by the pricing engine. PriceIDR is the unit
// price with the decoration discount already applied; the engine never
// re-applies DiscountPercent to it.
type Item struct {
	DecorationID    uuid.UUID
	Name            string
	Type            enums.OrderItemType
	Quantity        int
	BasePriceIDR    int64
	DiscountPercent int
	PriceIDR        int64
}

// Quote is the full cost breakdown of a checkout.
type Quote struct {
	SubtotalIDR           int64
	DecorationDiscountIDR int64
	VoucherDiscountIDR    int64
	DeliveryFeeIDR        int64
	TotalIDR              int64
}

// Compute builds a quote from cart lines plus an already-calculated voucher
// discount. DecorationDiscountIDR is informational: the per-item discounts are
// baked into the unit prices, so subtracting it again would double count.
func Compute(items []Item, voucherDiscountIDR, deliveryFeeIDR int64) Quote {
	var subtotal int64
	var decorationDiscount int64

	for _, item := range items {
		qty := int64(item.Quantity)
		subtotal += item.PriceIDR * qty

		if item.DiscountPercent > 0 {
			perUnit := decimal.NewFromInt(item.BasePriceIDR).
				Mul(decimal.NewFromInt(int64(item.DiscountPercent))).
				Div(decimal.NewFromInt(100)).
				Floor().
				IntPart()
			decorationDiscount += perUnit * qty
		}
	}

	return Quote{
		SubtotalIDR:           subtotal,
		DecorationDiscountIDR: decorationDiscount,
		VoucherDiscountIDR:    voucherDiscountIDR,
		DeliveryFeeIDR:        deliveryFeeIDR,
		TotalIDR:              subtotal - voucherDiscountIDR + deliveryFeeIDR,
	}
}
