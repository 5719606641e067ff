package midtrans

import (
	"fmt"

	mt "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// LineItem is one billable line of a Snap transaction. Negative prices are
// allowed for discount lines; the gateway only requires that all lines sum to
// the gross amount.
type LineItem struct {
	ID       string
	Name     string
	PriceIDR int64
	Quantity int32
}

// Customer carries the contact snapshot forwarded to the payment page.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// SnapParams describes one payment leg to be charged through Snap.
type SnapParams struct {
	OrderID        string
	GrossAmountIDR int64
	Items          []LineItem
	Customer       Customer
}

func (p SnapParams) validate() error {
	if p.OrderID == "" {
		return fmt.Errorf("snap order id is required")
	}
	if p.GrossAmountIDR <= 0 {
		return fmt.Errorf("snap gross amount must be positive, got %d", p.GrossAmountIDR)
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("snap transaction requires at least one line item")
	}
	var sum int64
	for _, item := range p.Items {
		sum += item.PriceIDR * int64(item.Quantity)
	}
	if sum != p.GrossAmountIDR {
		return fmt.Errorf("snap line items sum to %d, gross amount is %d", sum, p.GrossAmountIDR)
	}
	return nil
}

func (p SnapParams) toSnapRequest() *snap.Request {
	items := make([]mt.ItemDetails, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, mt.ItemDetails{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.PriceIDR,
			Qty:   item.Quantity,
		})
	}
	return &snap.Request{
		TransactionDetails: mt.TransactionDetails{
			OrderID:  p.OrderID,
			GrossAmt: p.GrossAmountIDR,
		},
		Items: &items,
		CustomerDetail: &mt.CustomerDetails{
			FName: p.Customer.FirstName,
			LName: p.Customer.LastName,
			Email: p.Customer.Email,
			Phone: p.Customer.Phone,
		},
	}
}

// SnapTransaction is the gateway's answer to a create call.
type SnapTransaction struct {
	Token       string
	RedirectURL string
}

// TransactionStatus is the gateway's view of one payment leg, keyed by the
// order id the leg was created with.
type TransactionStatus struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
	SettlementTime    string
}
