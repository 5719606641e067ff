package midtrans

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	mt "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/narendraputra/weddecor-backend/pkg/config"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
)

var (
	errServerKeyRequired = errors.New("midtrans server key is required")
	errClientKeyRequired = errors.New("midtrans client key is required")
	errLoggerRequired    = errors.New("midtrans logger is required")
)

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *mt.Error)
}

type coreAPI interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *mt.Error)
}

// Client exposes the Snap/Core API primitives with centralized logging and
// error mapping. One Snap transaction is created per payment leg; statuses are
// polled through the Core API using the leg's order id.
type Client struct {
	snap        snapAPI
	core        coreAPI
	environment mt.EnvironmentType
	logger      *logger.Logger
}

// NewClient initializes the gateway wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.MidtransConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	serverKey := strings.TrimSpace(cfg.ServerKey)
	if serverKey == "" {
		return nil, errServerKeyRequired
	}
	if strings.TrimSpace(cfg.ClientKey) == "" {
		return nil, errClientKeyRequired
	}

	env := mt.Sandbox
	if cfg.IsProduction() {
		env = mt.Production
	}

	snapClient := &snap.Client{}
	snapClient.New(serverKey, env)

	coreClient := &coreapi.Client{}
	coreClient.New(serverKey, env)

	c := &Client{
		snap:        snapClient,
		core:        coreClient,
		environment: env,
		logger:      logg,
	}

	logg.Info(ctx, "midtrans client initialized")
	return c, nil
}

// CreateSnapTransaction opens a Snap transaction for one payment leg and
// returns the token the storefront embeds. Line items must sum exactly to the
// gross amount or the call is rejected before touching the gateway.
func (c *Client) CreateSnapTransaction(ctx context.Context, params SnapParams) (*SnapTransaction, error) {
	if err := params.validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid snap transaction")
	}

	c.log(ctx, "request", "create_snap_transaction", map[string]any{
		"order_id":     params.OrderID,
		"gross_amount": params.GrossAmountIDR,
		"line_items":   len(params.Items),
		"email":        params.Customer.Email,
	})

	resp, mtErr := c.snap.CreateTransaction(params.toSnapRequest())
	if mtErr != nil {
		c.log(ctx, "error", "create_snap_transaction", map[string]any{"error": mtErr.Error()})
		return nil, c.mapError(mtErr, "create snap transaction")
	}

	c.log(ctx, "response", "create_snap_transaction", map[string]any{
		"order_id":  params.OrderID,
		"has_token": resp.Token != "",
	})
	return &SnapTransaction{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// QueryTransactionStatus polls the Core API for the current state of a leg.
func (c *Client) QueryTransactionStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction order id is required")
	}

	c.log(ctx, "request", "check_transaction", map[string]any{"order_id": orderID})

	resp, mtErr := c.core.CheckTransaction(orderID)
	if mtErr != nil {
		c.log(ctx, "error", "check_transaction", map[string]any{"error": mtErr.Error()})
		return nil, c.mapError(mtErr, "check transaction")
	}

	c.log(ctx, "response", "check_transaction", map[string]any{
		"order_id":           resp.OrderID,
		"transaction_status": resp.TransactionStatus,
		"fraud_status":       resp.FraudStatus,
		"payment_type":       resp.PaymentType,
	})
	return &TransactionStatus{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		PaymentType:       resp.PaymentType,
		GrossAmount:       resp.GrossAmount,
		SettlementTime:    resp.SettlementTime,
	}, nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("midtrans %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("midtrans %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "key", "secret", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (c *Client) mapError(mtErr *mt.Error, op string) error {
	if mtErr == nil {
		return nil
	}
	code := pkgerrors.CodeDependency
	switch mtErr.StatusCode {
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case http.StatusBadRequest:
		code = pkgerrors.CodeValidation
	}
	return pkgerrors.Wrap(code, mtErr, fmt.Sprintf("midtrans %s failed", op))
}
