package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ilmhub_backend/internals/features/commerce/orders/model"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	"ilmhub_backend/internals/helpers/mailer"
)

// Notifier turns order events into emails.
type Notifier struct {
	DB          *gorm.DB
	Mailer      mailer.Mailer
	AppName     string
	AppBaseURL  string
	AdminEmails []string
}

// orderView carries the field names the email templates use.
type orderView struct {
	TranID          string
	Status          model.Status
	Quantity        int
	TotalAmount     string
	Currency        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	City            string
}

func viewOf(o model.OrderModel) orderView {
	return orderView{
		TranID:          o.OrderTranID,
		Status:          o.OrderStatus,
		Quantity:        o.OrderQuantity,
		TotalAmount:     o.OrderTotalAmount.StringFixed(2),
		Currency:        o.OrderCurrency,
		CustomerName:    o.OrderCustomerName,
		CustomerEmail:   o.OrderCustomerEmail,
		CustomerPhone:   o.OrderCustomerPhone,
		ShippingAddress: o.OrderShippingAddress,
		City:            o.OrderCity,
	}
}

// Handle sends the emails for one event. Send failures are logged by the
// mailer and never returned; only lookups and rendering fail here.
func (n *Notifier) Handle(ctx context.Context, ev Event) error {
	var o model.OrderModel
	if err := n.DB.WithContext(ctx).First(&o, "order_id = ?", ev.OrderID).Error; err != nil {
		return fmt.Errorf("load order %s: %w", ev.OrderID, err)
	}
	var book bookModel.BookModel
	title := "your book"
	if err := n.DB.WithContext(ctx).Unscoped().Select("book_title").
		First(&book, "book_id = ?", o.OrderBookID).Error; err == nil {
		title = book.BookTitle
	}

	data := map[string]any{
		"AppName":   n.AppName,
		"Order":     viewOf(o),
		"BookTitle": title,
		"Link":      n.AppBaseURL + "/orders/" + o.OrderTranID,
	}

	switch ev.EventType {
	case EventOrderPaid:
		if err := n.send(ctx, mailer.TplOrderConfirmation, []string{o.OrderCustomerEmail},
			"Order confirmed: "+o.OrderTranID, data); err != nil {
			return err
		}
		if len(n.AdminEmails) > 0 {
			return n.send(ctx, mailer.TplAdminNewOrder, n.AdminEmails, "New paid order "+o.OrderTranID, data)
		}
		return nil
	case EventOrderFailed:
		return n.send(ctx, mailer.TplOrderFailed, []string{o.OrderCustomerEmail},
			"Payment not completed: "+o.OrderTranID, data)
	case EventOrderStatusChanged:
		return n.send(ctx, mailer.TplOrderStatus, []string{o.OrderCustomerEmail},
			fmt.Sprintf("Order %s is %s", o.OrderTranID, o.OrderStatus), data)
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, tpl string, to []string, subject string, data map[string]any) error {
	html, err := mailer.Render(tpl, data)
	if err != nil {
		return err
	}
	mailer.SendLogged(ctx, n.Mailer, mailer.Message{To: to, Subject: subject, HTML: html})
	return nil
}
