package pricing

import "testing"

func TestComputeSubtotalUsesDiscountedUnitPrices(t *testing.T) {
	items := []Item{
		{Quantity: 2, BasePriceIDR: 5_000_000, DiscountPercent: 10, PriceIDR: 4_500_000},
		{Quantity: 1, BasePriceIDR: 1_000_000, DiscountPercent: 0, PriceIDR: 1_000_000},
	}

	quote := Compute(items, 0, 0)

	if quote.SubtotalIDR != 10_000_000 {
		t.Fatalf("expected subtotal 10000000, got %d", quote.SubtotalIDR)
	}
	// Decoration discount is reported but never subtracted: the unit prices
	// above are already net.
	if quote.DecorationDiscountIDR != 1_000_000 {
		t.Fatalf("expected decoration discount 1000000, got %d", quote.DecorationDiscountIDR)
	}
	if quote.TotalIDR != quote.SubtotalIDR {
		t.Fatalf("decoration discount must not reduce total: %+v", quote)
	}
}

func TestComputeAppliesVoucherAndDeliveryFee(t *testing.T) {
	items := []Item{
		{Quantity: 1, BasePriceIDR: 10_000_000, PriceIDR: 10_000_000},
	}

	quote := Compute(items, 500_000, 150_000)

	if quote.VoucherDiscountIDR != 500_000 {
		t.Fatalf("voucher discount not carried: %+v", quote)
	}
	if quote.TotalIDR != 10_000_000-500_000+150_000 {
		t.Fatalf("expected total 9650000, got %d", quote.TotalIDR)
	}
}

func TestComputeNoVoucherMeansZeroDiscount(t *testing.T) {
	items := []Item{
		{Quantity: 3, BasePriceIDR: 2_000_000, PriceIDR: 2_000_000},
	}

	quote := Compute(items, 0, 0)

	if quote.VoucherDiscountIDR != 0 {
		t.Fatalf("expected zero voucher discount, got %d", quote.VoucherDiscountIDR)
	}
	if quote.TotalIDR != 6_000_000 {
		t.Fatalf("expected total 6000000, got %d", quote.TotalIDR)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	quote := Compute(nil, 0, 0)
	if quote.SubtotalIDR != 0 || quote.TotalIDR != 0 {
		t.Fatalf("expected zero quote for empty cart, got %+v", quote)
	}
}
