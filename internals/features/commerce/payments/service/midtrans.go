package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
)

type Midtrans struct {
	ServerKey  string
	AppBaseURL string
	Snap       snap.Client
}

// NewMidtrans wires a snap client; useProduction=false talks to the sandbox.
func NewMidtrans(serverKey string, useProduction bool, appBaseURL string) *Midtrans {
	m := &Midtrans{ServerKey: serverKey, AppBaseURL: strings.TrimRight(appBaseURL, "/")}
	if useProduction {
		m.Snap.New(serverKey, midtrans.Production)
	} else {
		m.Snap.New(serverKey, midtrans.Sandbox)
	}
	return m
}

func (m *Midtrans) Name() string { return ProviderMidtrans }

func (m *Midtrans) InitSession(ctx context.Context, o orderModel.OrderModel, itemName string) (Session, error) {
	if !o.OrderTotalAmount.IsPositive() {
		return Session{}, errors.New("invalid order total")
	}
	unit := o.OrderUnitPrice.IntPart()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.OrderTranID,
			GrossAmt: unit * int64(o.OrderQuantity),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: o.OrderCustomerName,
			Email: o.OrderCustomerEmail,
			Phone: o.OrderCustomerPhone,
			ShipAddr: &midtrans.CustomerAddress{
				FName:   o.OrderCustomerName,
				Phone:   o.OrderCustomerPhone,
				Address: o.OrderShippingAddress,
				City:    o.OrderCity,
			},
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       o.OrderBookID.String(),
			Price:    unit,
			Qty:      int32(o.OrderQuantity),
			Name:     truncate(itemName, 50),
			Category: "Book",
		}},
		Callbacks: &snap.Callbacks{Finish: m.AppBaseURL + "/orders/" + o.OrderTranID},
	}

	resp, merr := m.Snap.CreateTransaction(req)
	if merr != nil {
		return Session{}, fmt.Errorf("%w: %s", ErrGatewayDown, merr.Error())
	}
	return Session{RedirectURL: resp.RedirectURL, SessionRef: resp.Token}, nil
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	Currency          string `json:"currency"`
}

// Signature is sha512(order_id + status_code + gross_amount + server_key).
func (m *Midtrans) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + m.ServerKey))
	return hex.EncodeToString(sum[:])
}

func (m *Midtrans) Validate(ctx context.Context, cb Callback) (Verdict, error) {
	var n midtransNotification
	if err := sonic.Unmarshal(cb.Body, &n); err != nil || n.OrderID == "" {
		return Verdict{}, ErrNotVerified
	}
	v := Verdict{
		TranID:     n.OrderID,
		PaymentRef: n.TransactionID,
		Method:     n.PaymentType,
		Currency:   n.Currency,
		Raw:        cb.Body,
	}
	expected := m.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(n.SignatureKey))) != 1 {
		return v, ErrBadSignature
	}
	if v.Currency == "" {
		v.Currency = "IDR"
	}
	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return v, fmt.Errorf("%w: bad gross_amount %q", ErrNotVerified, n.GrossAmount)
	}
	v.Amount = amount
	v.Status = MidtransStatus(n.TransactionStatus, n.FraudStatus)
	return v, nil
}

// MidtransStatus maps a notification onto an order status; anything unknown stays pending.
func MidtransStatus(transactionStatus, fraudStatus string) orderModel.Status {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		if strings.EqualFold(fraudStatus, "challenge") {
			return orderModel.StatusPending
		}
		return orderModel.StatusPaid
	case "settlement":
		return orderModel.StatusPaid
	case "deny", "cancel":
		return orderModel.StatusCancelled
	case "expire", "failure":
		return orderModel.StatusFailed
	default:
		return orderModel.StatusPending
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
