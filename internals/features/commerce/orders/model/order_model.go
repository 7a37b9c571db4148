package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusPaid: true, StatusFailed: true, StatusCancelled: true},
	StatusPaid:       {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusFailed:     {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Revenue statuses: money has been taken and not returned.
var RevenueStatuses = []Status{StatusPaid, StatusProcessing, StatusShipped, StatusDelivered}

type OrderModel struct {
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;primaryKey" json:"order_id"`
	OrderTranID string    `gorm:"column:order_tran_id;type:varchar(64);not null;uniqueIndex" json:"order_tran_id"`
	OrderUserID string    `gorm:"column:order_user_id;type:varchar(64);not null;index" json:"order_user_id"`
	OrderBookID uuid.UUID `gorm:"column:order_book_id;type:uuid;not null;index" json:"order_book_id"`

	OrderQuantity    int             `gorm:"column:order_quantity;not null" json:"order_quantity"`
	OrderUnitPrice   decimal.Decimal `gorm:"column:order_unit_price;type:numeric(12,2);not null" json:"order_unit_price"`
	OrderTotalAmount decimal.Decimal `gorm:"column:order_total_amount;type:numeric(12,2);not null" json:"order_total_amount"`
	OrderCurrency    string          `gorm:"column:order_currency;type:varchar(8);not null" json:"order_currency"`
	OrderStatus      Status          `gorm:"column:order_status;type:varchar(20);not null;index" json:"order_status"`

	OrderCustomerName    string `gorm:"column:order_customer_name;type:varchar(160);not null" json:"order_customer_name"`
	OrderCustomerEmail   string `gorm:"column:order_customer_email;type:varchar(255);not null" json:"order_customer_email"`
	OrderCustomerPhone   string `gorm:"column:order_customer_phone;type:varchar(40);not null" json:"order_customer_phone"`
	OrderShippingAddress string `gorm:"column:order_shipping_address;type:text;not null" json:"order_shipping_address"`
	OrderCity            string `gorm:"column:order_city;type:varchar(80)" json:"order_city"`

	OrderPaymentProvider string         `gorm:"column:order_payment_provider;type:varchar(20);not null" json:"order_payment_provider"`
	OrderPaymentRef      string         `gorm:"column:order_payment_ref;type:varchar(120)" json:"order_payment_ref"` // val_id / transaction_id
	OrderPaymentMethod   string         `gorm:"column:order_payment_method;type:varchar(60)" json:"order_payment_method"`
	OrderSessionRef      string         `gorm:"column:order_session_ref;type:varchar(160)" json:"-"`
	OrderGatewayPayload  datatypes.JSON `gorm:"column:order_gateway_payload" json:"-"`
	OrderPaidAt          *time.Time     `gorm:"column:order_paid_at" json:"order_paid_at"`

	OrderCreatedAt time.Time `gorm:"column:order_created_at;autoCreateTime" json:"order_created_at"`
	OrderUpdatedAt time.Time `gorm:"column:order_updated_at;autoUpdateTime" json:"order_updated_at"`
}

func (OrderModel) TableName() string {
	return "orders"
}

func (m *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if m.OrderID == uuid.Nil {
		m.OrderID = uuid.New()
	}
	if m.OrderStatus == "" {
		m.OrderStatus = StatusPending
	}
	return nil
}

// NewTranID builds the merchant transaction id sent to the gateway.
func NewTranID(now time.Time) string {
	return "ILM-" + now.UTC().Format("20060102") + "-" + uuid.NewString()[:8]
}
