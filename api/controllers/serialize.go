package controllers

import (
	"time"

	"github.com/narendraputra/weddecor-backend/internal/orders"
	"github.com/narendraputra/weddecor-backend/pkg/db/models"
)

type orderItemResponse struct {
	ID           string `json:"id"`
	DecorationID string `json:"decoration_id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Quantity     int    `json:"quantity"`
	BasePriceIDR int64  `json:"base_price_idr"`
	DiscountIDR  int64  `json:"discount_idr"`
	PriceIDR     int64  `json:"price_idr"`
}

type orderResponse struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	District    string `json:"district,omitempty"`
	SubDistrict string `json:"sub_district,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`

	SubtotalIDR           int64   `json:"subtotal_idr"`
	VoucherCode           *string `json:"voucher_code,omitempty"`
	VoucherDiscountIDR    int64   `json:"voucher_discount_idr"`
	DecorationDiscountIDR int64   `json:"decoration_discount_idr"`
	DeliveryFeeIDR        int64   `json:"delivery_fee_idr"`
	TotalIDR              int64   `json:"total_idr"`

	PaymentType        string `json:"payment_type"`
	DPAmountIDR        int64  `json:"dp_amount_idr"`
	RemainingAmountIDR int64  `json:"remaining_amount_idr"`

	Status        string  `json:"status"`
	PaymentMethod *string `json:"payment_method,omitempty"`

	SnapToken          *string `json:"snap_token,omitempty"`
	DPSnapToken        *string `json:"dp_snap_token,omitempty"`
	RemainingSnapToken *string `json:"remaining_snap_token,omitempty"`

	DPPaidAt        *time.Time `json:"dp_paid_at,omitempty"`
	FullPaidAt      *time.Time `json:"full_paid_at,omitempty"`
	RemainingPaidAt *time.Time `json:"remaining_paid_at,omitempty"`

	Notes     string              `json:"notes,omitempty"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,

		FirstName:   order.FirstName,
		LastName:    order.LastName,
		Email:       order.Email,
		Phone:       order.Phone,
		Address:     order.Address,
		City:        order.City,
		District:    order.District,
		SubDistrict: order.SubDistrict,
		PostalCode:  order.PostalCode,

		SubtotalIDR:           order.SubtotalIDR,
		VoucherCode:           order.VoucherCode,
		VoucherDiscountIDR:    order.VoucherDiscountIDR,
		DecorationDiscountIDR: order.DecorationDiscountIDR,
		DeliveryFeeIDR:        order.DeliveryFeeIDR,
		TotalIDR:              order.TotalIDR,

		PaymentType:        order.PaymentType.String(),
		DPAmountIDR:        order.DPAmountIDR,
		RemainingAmountIDR: order.RemainingAmountIDR,

		Status:        order.Status.String(),
		PaymentMethod: order.PaymentMethod,

		SnapToken:          order.SnapToken,
		DPSnapToken:        order.DPSnapToken,
		RemainingSnapToken: order.RemainingSnapToken,

		DPPaidAt:        order.DPPaidAt,
		FullPaidAt:      order.FullPaidAt,
		RemainingPaidAt: order.RemainingPaidAt,

		Notes:     order.Notes,
		Items:     []orderItemResponse{},
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:           item.ID.String(),
			DecorationID: item.DecorationID.String(),
			Name:         item.Name,
			Type:         item.Type.String(),
			Quantity:     item.Quantity,
			BasePriceIDR: item.BasePriceIDR,
			DiscountIDR:  item.DiscountIDR,
			PriceIDR:     item.PriceIDR,
		})
	}
	return resp
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderListResponse(list *orders.OrderList) orderListResponse {
	resp := orderListResponse{Orders: []orderResponse{}, NextCursor: list.NextCursor}
	for i := range list.Orders {
		resp.Orders = append(resp.Orders, newOrderResponse(&list.Orders[i]))
	}
	return resp
}

type cartItemResponse struct {
	ID              string `json:"id"`
	DecorationID    string `json:"decoration_id"`
	Type            string `json:"type"`
	Quantity        int    `json:"quantity"`
	BasePriceIDR    int64  `json:"base_price_idr"`
	DiscountPercent int    `json:"discount_percent"`
	PriceIDR        int64  `json:"price_idr"`
}

type cartResponse struct {
	ID          string             `json:"id"`
	Items       []cartItemResponse `json:"items"`
	SubtotalIDR int64              `json:"subtotal_idr"`
}

func newCartResponse(userCart *models.Cart) cartResponse {
	resp := cartResponse{ID: userCart.ID.String(), Items: []cartItemResponse{}}
	for _, item := range userCart.Items {
		resp.Items = append(resp.Items, cartItemResponse{
			ID:              item.ID.String(),
			DecorationID:    item.DecorationID.String(),
			Type:            item.Type.String(),
			Quantity:        item.Quantity,
			BasePriceIDR:    item.BasePriceIDR,
			DiscountPercent: item.DiscountPercent,
			PriceIDR:        item.PriceIDR,
		})
		resp.SubtotalIDR += item.PriceIDR * int64(item.Quantity)
	}
	return resp
}
