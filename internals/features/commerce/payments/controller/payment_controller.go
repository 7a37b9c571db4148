package controller

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
	orderService "ilmhub_backend/internals/features/commerce/orders/service"
	"ilmhub_backend/internals/features/commerce/payments/model"
	"ilmhub_backend/internals/features/commerce/payments/service"
	helper "ilmhub_backend/internals/helpers"
)

type PaymentController struct {
	DB         *gorm.DB
	Orders     *orderService.OrderService
	Gateways   map[string]service.Gateway
	AppBaseURL string
}

func NewPaymentController(db *gorm.DB, orders *orderService.OrderService, gateways map[string]service.Gateway, appBaseURL string) *PaymentController {
	return &PaymentController{DB: db, Orders: orders, Gateways: gateways, AppBaseURL: appBaseURL}
}

// settle validates a callback and applies it to the order. It returns the
// order as it stands afterwards, whoever won the race.
func (pc *PaymentController) settle(ctx context.Context, provider, kind string, cb service.Callback) (orderModel.OrderModel, error) {
	ev := model.GatewayEventModel{
		GatewayEventID:         uuid.New(),
		GatewayEventProvider:   provider,
		GatewayEventType:       kind,
		GatewayEventStatus:     model.EventReceived,
		GatewayEventReceivedAt: time.Now().UTC(),
	}
	defer pc.logEvent(&ev)

	o, err := pc.apply(ctx, provider, cb, &ev)
	now := time.Now().UTC()
	ev.GatewayEventProcessedAt = &now
	if err != nil {
		msg := err.Error()
		ev.GatewayEventStatus = model.EventFailed
		ev.GatewayEventError = &msg
	}
	return o, err
}

func (pc *PaymentController) apply(ctx context.Context, provider string, cb service.Callback, ev *model.GatewayEventModel) (orderModel.OrderModel, error) {
	gw, ok := pc.Gateways[provider]
	if !ok {
		return orderModel.OrderModel{}, service.ErrGatewayDown
	}
	verdict, err := gw.Validate(ctx, cb)
	ev.GatewayEventTranID = verdict.TranID
	if len(verdict.Raw) > 0 {
		ev.GatewayEventPayload = datatypes.JSON(verdict.Raw)
	}
	if err != nil {
		return orderModel.OrderModel{}, err
	}

	o, err := pc.Orders.ByTranID(ctx, verdict.TranID)
	if err != nil {
		return o, err
	}

	switch verdict.Status {
	case orderModel.StatusPaid:
		if !verdict.MatchesOrder(o) {
			log.Printf("[WARN] %s paid %s %s for order %s expecting %s %s",
				provider, verdict.Amount, verdict.Currency, o.OrderTranID, o.OrderTotalAmount, o.OrderCurrency)
			return o, service.ErrAmountMismatch
		}
		won, err := pc.Orders.MarkPaid(ctx, o.OrderTranID, orderService.Payment{
			Ref: verdict.PaymentRef, Method: verdict.Method, Payload: verdict.Raw, Confirmed: true,
		})
		if err != nil {
			return o, err
		}
		if !won {
			ev.GatewayEventStatus = model.EventIgnored
		} else {
			ev.GatewayEventStatus = model.EventProcessed
		}
	case orderModel.StatusFailed, orderModel.StatusCancelled:
		won, err := pc.Orders.MarkUnpaid(ctx, o.OrderTranID, verdict.Status, verdict.Raw)
		if err != nil {
			return o, err
		}
		if !won {
			ev.GatewayEventStatus = model.EventIgnored
		} else {
			ev.GatewayEventStatus = model.EventProcessed
		}
	default:
		ev.GatewayEventStatus = model.EventIgnored
	}
	return pc.Orders.ByTranID(ctx, o.OrderTranID)
}

func (pc *PaymentController) logEvent(ev *model.GatewayEventModel) {
	if err := pc.DB.Create(ev).Error; err != nil {
		log.Printf("[WARN] save gateway event: %v", err)
	}
}

func formOf(c *fiber.Ctx) map[string]string {
	form := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		form[string(k)] = string(v)
	})
	if len(form) == 0 {
		for k, v := range c.Queries() {
			form[k] = v
		}
	}
	return form
}

func (pc *PaymentController) redirect(c *fiber.Ctx, tranID, status string) error {
	if tranID == "" {
		return c.Redirect(pc.AppBaseURL+"/orders?status="+url.QueryEscape(status), fiber.StatusSeeOther)
	}
	return c.Redirect(pc.AppBaseURL+"/orders/"+url.PathEscape(tranID)+"?status="+url.QueryEscape(status), fiber.StatusSeeOther)
}

// browserReturn handles the buyer coming back from the hosted page.
func (pc *PaymentController) browserReturn(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := formOf(c)
		o, err := pc.settle(c.UserContext(), service.ProviderSSLCommerz, kind, service.Callback{Form: form})
		if err != nil {
			log.Printf("[WARN] sslcommerz %s for %s: %v", kind, form["tran_id"], err)
			if o.OrderTranID != "" {
				return pc.redirect(c, o.OrderTranID, string(o.OrderStatus))
			}
			return pc.redirect(c, form["tran_id"], "unverified")
		}
		return pc.redirect(c, o.OrderTranID, string(o.OrderStatus))
	}
}

// POST /api/payments/sslcommerz/success
func (pc *PaymentController) SSLSuccess(c *fiber.Ctx) error { return pc.browserReturn("success")(c) }

// POST /api/payments/sslcommerz/fail
func (pc *PaymentController) SSLFail(c *fiber.Ctx) error { return pc.browserReturn("fail")(c) }

// POST /api/payments/sslcommerz/cancel
func (pc *PaymentController) SSLCancel(c *fiber.Ctx) error { return pc.browserReturn("cancel")(c) }

// POST /api/payments/sslcommerz/ipn
func (pc *PaymentController) SSLIPN(c *fiber.Ctx) error {
	form := formOf(c)
	o, err := pc.settle(c.UserContext(), service.ProviderSSLCommerz, "ipn", service.Callback{Form: form})
	return pc.reply(c, o, err)
}

// POST /api/payments/midtrans/notification
func (pc *PaymentController) MidtransNotification(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	if !sonic.Valid(body) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body")
	}
	o, err := pc.settle(c.UserContext(), service.ProviderMidtrans, "notification", service.Callback{Body: body})
	return pc.reply(c, o, err)
}

func (pc *PaymentController) reply(c *fiber.Ctx, o orderModel.OrderModel, err error) error {
	switch {
	case err == nil:
		return helper.JsonOK(c, "Notification processed", fiber.Map{
			"tran_id": o.OrderTranID,
			"status":  o.OrderStatus,
		})
	case errors.Is(err, service.ErrBadSignature):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature")
	case errors.Is(err, service.ErrNotVerified):
		return helper.JsonError(c, fiber.StatusBadRequest, "Payment could not be verified")
	case errors.Is(err, orderService.ErrOrderNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrAmountMismatch):
		// acknowledged so the gateway stops retrying; the order stays pending for review
		return helper.JsonOK(c, "Amount mismatch recorded", fiber.Map{
			"tran_id": o.OrderTranID,
			"status":  o.OrderStatus,
		})
	default:
		log.Printf("[ERROR] payment notification: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process notification")
	}
}
