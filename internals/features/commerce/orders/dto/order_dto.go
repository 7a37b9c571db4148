package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ilmhub_backend/internals/features/commerce/orders/model"
)

type CheckoutRequest struct {
	BookID          uuid.UUID `json:"book_id" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1,max=10"`
	CustomerName    string    `json:"customer_name" validate:"required,min=2,max=160"`
	CustomerEmail   string    `json:"customer_email" validate:"required,email"`
	CustomerPhone   string    `json:"customer_phone" validate:"required,min=6,max=40"`
	ShippingAddress string    `json:"shipping_address" validate:"required,min=5,max=500"`
	City            string    `json:"city" validate:"required,max=80"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid processing shipped delivered cancelled failed"`
}

type OrderResponse struct {
	OrderID              uuid.UUID       `json:"order_id"`
	OrderTranID          string          `json:"order_tran_id"`
	OrderUserID          string          `json:"order_user_id,omitempty"`
	OrderBookID          uuid.UUID       `json:"order_book_id"`
	OrderBookTitle       string          `json:"order_book_title,omitempty"`
	OrderQuantity        int             `json:"order_quantity"`
	OrderUnitPrice       decimal.Decimal `json:"order_unit_price"`
	OrderTotalAmount     decimal.Decimal `json:"order_total_amount"`
	OrderCurrency        string          `json:"order_currency"`
	OrderStatus          model.Status    `json:"order_status"`
	OrderCustomerName    string          `json:"order_customer_name"`
	OrderCustomerEmail   string          `json:"order_customer_email"`
	OrderCustomerPhone   string          `json:"order_customer_phone"`
	OrderShippingAddress string          `json:"order_shipping_address"`
	OrderCity            string          `json:"order_city"`
	OrderPaymentProvider string          `json:"order_payment_provider"`
	OrderPaymentRef      string          `json:"order_payment_ref,omitempty"`
	OrderPaymentMethod   string          `json:"order_payment_method,omitempty"`
	OrderPaidAt          *time.Time      `json:"order_paid_at"`
	OrderCreatedAt       time.Time       `json:"order_created_at"`
	OrderUpdatedAt       time.Time       `json:"order_updated_at"`
}

func ToOrderResponse(m model.OrderModel) OrderResponse {
	return OrderResponse{
		OrderID:              m.OrderID,
		OrderTranID:          m.OrderTranID,
		OrderUserID:          m.OrderUserID,
		OrderBookID:          m.OrderBookID,
		OrderQuantity:        m.OrderQuantity,
		OrderUnitPrice:       m.OrderUnitPrice,
		OrderTotalAmount:     m.OrderTotalAmount,
		OrderCurrency:        m.OrderCurrency,
		OrderStatus:          m.OrderStatus,
		OrderCustomerName:    m.OrderCustomerName,
		OrderCustomerEmail:   m.OrderCustomerEmail,
		OrderCustomerPhone:   m.OrderCustomerPhone,
		OrderShippingAddress: m.OrderShippingAddress,
		OrderCity:            m.OrderCity,
		OrderPaymentProvider: m.OrderPaymentProvider,
		OrderPaymentRef:      m.OrderPaymentRef,
		OrderPaymentMethod:   m.OrderPaymentMethod,
		OrderPaidAt:          m.OrderPaidAt,
		OrderCreatedAt:       m.OrderCreatedAt,
		OrderUpdatedAt:       m.OrderUpdatedAt,
	}
}

func ToOrderResponseList(rows []model.OrderModel, titles map[uuid.UUID]string) []OrderResponse {
	out := make([]OrderResponse, 0, len(rows))
	for _, r := range rows {
		o := ToOrderResponse(r)
		o.OrderBookTitle = titles[r.OrderBookID]
		out = append(out, o)
	}
	return out
}

// TrackResponse is what anyone holding a tran_id may see.
type TrackResponse struct {
	OrderTranID      string          `json:"order_tran_id"`
	OrderBookTitle   string          `json:"order_book_title"`
	OrderQuantity    int             `json:"order_quantity"`
	OrderTotalAmount decimal.Decimal `json:"order_total_amount"`
	OrderCurrency    string          `json:"order_currency"`
	OrderStatus      model.Status    `json:"order_status"`
	OrderPaidAt      *time.Time      `json:"order_paid_at"`
	OrderCreatedAt   time.Time       `json:"order_created_at"`
	OrderUpdatedAt   time.Time       `json:"order_updated_at"`
}

func ToTrackResponse(m model.OrderModel, bookTitle string) TrackResponse {
	return TrackResponse{
		OrderTranID:      m.OrderTranID,
		OrderBookTitle:   bookTitle,
		OrderQuantity:    m.OrderQuantity,
		OrderTotalAmount: m.OrderTotalAmount,
		OrderCurrency:    m.OrderCurrency,
		OrderStatus:      m.OrderStatus,
		OrderPaidAt:      m.OrderPaidAt,
		OrderCreatedAt:   m.OrderCreatedAt,
		OrderUpdatedAt:   m.OrderUpdatedAt,
	}
}
