package midtrans

import (
	"context"
	"net/http"
	"testing"

	mt "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

func TestSnapParamsValidate(t *testing.T) {
	base := SnapParams{
		OrderID:        "ORD-1700000000-AB12CD",
		GrossAmountIDR: 9_500_000,
		Items: []LineItem{
			{ID: "item-1", Name: "Rustic Garden Package", PriceIDR: 5_000_000, Quantity: 2},
			{ID: "voucher", Name: "Voucher WED10", PriceIDR: -500_000, Quantity: 1},
		},
	}
	if err := base.validate(); err != nil {
		t.Fatalf("expected valid params, got %v", err)
	}

	mismatch := base
	mismatch.GrossAmountIDR = 9_000_000
	if err := mismatch.validate(); err == nil {
		t.Fatalf("expected line item sum mismatch to fail")
	}

	empty := base
	empty.Items = nil
	if err := empty.validate(); err == nil {
		t.Fatalf("expected empty line items to fail")
	}

	noID := base
	noID.OrderID = ""
	if err := noID.validate(); err == nil {
		t.Fatalf("expected missing order id to fail")
	}
}

func TestRedact(t *testing.T) {
	c := &Client{}
	if out := c.redact("snap_token", "abc123"); out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	if out := c.redact("email", "a@b.c"); out != "[REDACTED]" {
		t.Fatalf("expected redacted email, got %v", out)
	}
	// Non-sensitive keys should be preserved.
	if v := c.redact("order_id", "ORD-1"); v != "ORD-1" {
		t.Fatalf("unexpected redaction for safe key")
	}
}

func TestMapError(t *testing.T) {
	c := &Client{}
	table := []struct {
		name     string
		status   int
		wantCode pkgerrors.Code
	}{
		{name: "not found", status: http.StatusNotFound, wantCode: pkgerrors.CodeNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: pkgerrors.CodeUnauthorized},
		{name: "bad request", status: http.StatusBadRequest, wantCode: pkgerrors.CodeValidation},
		{name: "server error", status: http.StatusInternalServerError, wantCode: pkgerrors.CodeDependency},
	}
	for _, tt := range table {
		mapped := c.mapError(&mt.Error{Message: tt.name, StatusCode: tt.status}, "check transaction")
		typed := pkgerrors.As(mapped)
		if typed == nil {
			t.Fatalf("%s: result is not a typed error", tt.name)
		}
		if typed.Code() != tt.wantCode {
			t.Fatalf("%s: expected code %s, got %s", tt.name, tt.wantCode, typed.Code())
		}
	}
}

func TestCreateSnapTransactionValidatesBeforeGateway(t *testing.T) {
	stub := &snapStub{}
	c := &Client{snap: stub}

	_, err := c.CreateSnapTransaction(context.Background(), SnapParams{
		OrderID:        "ORD-1",
		GrossAmountIDR: 100,
		Items:          []LineItem{{ID: "x", Name: "x", PriceIDR: 50, Quantity: 1}},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("gateway should not be called on invalid params")
	}
}

func TestCreateSnapTransactionReturnsToken(t *testing.T) {
	stub := &snapStub{resp: &snap.Response{Token: "tok-1", RedirectURL: "https://app.sandbox/pay"}}
	c := &Client{snap: stub}

	got, err := c.CreateSnapTransaction(context.Background(), SnapParams{
		OrderID:        "ORD-1",
		GrossAmountIDR: 100,
		Items:          []LineItem{{ID: "x", Name: "x", PriceIDR: 100, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Token != "tok-1" {
		t.Fatalf("expected token from gateway, got %q", got.Token)
	}
}

func TestQueryTransactionStatusMapsResponse(t *testing.T) {
	stub := &coreStub{resp: &coreapi.TransactionStatusResponse{
		OrderID:           "ORD-1-DP",
		TransactionStatus: "settlement",
		FraudStatus:       "accept",
		PaymentType:       "bank_transfer",
		GrossAmount:       "2850000.00",
	}}
	c := &Client{core: stub}

	got, err := c.QueryTransactionStatus(context.Background(), "ORD-1-DP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TransactionStatus != "settlement" || got.FraudStatus != "accept" {
		t.Fatalf("unexpected status mapping: %+v", got)
	}

	if _, err := c.QueryTransactionStatus(context.Background(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank order id, got %v", err)
	}
}

type snapStub struct {
	resp  *snap.Response
	err   *mt.Error
	calls int
}

func (s *snapStub) CreateTransaction(req *snap.Request) (*snap.Response, *mt.Error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type coreStub struct {
	resp *coreapi.TransactionStatusResponse
	err  *mt.Error
}

func (s *coreStub) CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *mt.Error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}
