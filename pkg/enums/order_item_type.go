package enums

import "fmt"

// OrderItemType records how a decoration was configured when added to the cart.
type OrderItemType string

const (
	OrderItemTypeCustom OrderItemType = "custom"
	OrderItemTypeRandom OrderItemType = "random"
)

var validOrderItemTypes = []OrderItemType{
	OrderItemTypeCustom,
	OrderItemTypeRandom,
}

// String implements fmt.Stringer.
func (o OrderItemType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderItemType.
func (o OrderItemType) IsValid() bool {
	for _, candidate := range validOrderItemTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderItemType converts raw input into an OrderItemType.
func ParseOrderItemType(value string) (OrderItemType, error) {
	for _, candidate := range validOrderItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order item type %q", value)
}
