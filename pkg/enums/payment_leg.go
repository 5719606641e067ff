package enums

import "fmt"

// PaymentLeg identifies which charge of an order a gateway transaction settles.
type PaymentLeg string

const (
	PaymentLegFull      PaymentLeg = "full"
	PaymentLegDP        PaymentLeg = "dp"
	PaymentLegRemaining PaymentLeg = "remaining"
)

var validPaymentLegs = []PaymentLeg{
	PaymentLegFull,
	PaymentLegDP,
	PaymentLegRemaining,
}

// String implements fmt.Stringer.
func (p PaymentLeg) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentLeg.
func (p PaymentLeg) IsValid() bool {
	for _, candidate := range validPaymentLegs {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentLeg converts raw input into a PaymentLeg.
func ParsePaymentLeg(value string) (PaymentLeg, error) {
	for _, candidate := range validPaymentLegs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment leg %q", value)
}
