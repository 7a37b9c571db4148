package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"ilmhub_backend/internals/configs"
	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
)

const (
	ProviderSSLCommerz = "sslcommerz"
	ProviderMidtrans   = "midtrans"
)

var (
	ErrBadSignature   = errors.New("payment callback signature mismatch")
	ErrNotVerified    = errors.New("payment could not be verified with the gateway")
	ErrAmountMismatch = errors.New("paid amount or currency does not match the order")
	ErrGatewayDown    = errors.New("payment gateway unavailable")
)

// Session is what the buyer is redirected to after checkout.
type Session struct {
	RedirectURL string
	SessionRef  string
}

// Callback is an inbound gateway request: form fields for redirects and IPNs,
// the raw body for JSON notifications.
type Callback struct {
	Form map[string]string
	Body []byte
}

// Verdict is the gateway's view of a payment after verification.
type Verdict struct {
	TranID     string
	Status     orderModel.Status
	Amount     decimal.Decimal
	Currency   string
	PaymentRef string
	Method     string
	Raw        []byte
}

// MatchesOrder checks what the gateway collected against what the order asked for.
func (v Verdict) MatchesOrder(o orderModel.OrderModel) bool {
	return v.Amount.Equal(o.OrderTotalAmount) && strings.EqualFold(v.Currency, o.OrderCurrency)
}

type Gateway interface {
	Name() string
	InitSession(ctx context.Context, o orderModel.OrderModel, itemName string) (Session, error)
	Validate(ctx context.Context, cb Callback) (Verdict, error)
}

// NewGateways builds every provider that has credentials configured.
func NewGateways(conf configs.AppConfig) map[string]Gateway {
	out := map[string]Gateway{}
	if conf.SSLCzStoreID != "" && conf.SSLCzStorePasswd != "" {
		out[ProviderSSLCommerz] = NewSSLCommerz(conf.SSLCzStoreID, conf.SSLCzStorePasswd, conf.SSLCzIsLive, conf.APIBaseURL)
	}
	if conf.MidtransKey != "" {
		out[ProviderMidtrans] = NewMidtrans(conf.MidtransKey, conf.MidtransUseProd, conf.AppBaseURL)
	}
	return out
}
