package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/commerce/orders/dto"
	"ilmhub_backend/internals/features/commerce/orders/model"
	"ilmhub_backend/internals/features/commerce/orders/service"
	paymentService "ilmhub_backend/internals/features/commerce/payments/service"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type OrderController struct {
	DB       *gorm.DB
	Orders   *service.OrderService
	Gateways map[string]paymentService.Gateway
	Provider string
	Currency string
	Audit    audit.Logger
	Now      func() time.Time
}

func NewOrderController(db *gorm.DB, orders *service.OrderService, gateways map[string]paymentService.Gateway, provider, currency string, al audit.Logger) *OrderController {
	return &OrderController{
		DB:       db,
		Orders:   orders,
		Gateways: gateways,
		Provider: provider,
		Currency: currency,
		Audit:    al,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

var orderSorts = map[string]string{
	"created_at": "order_created_at",
	"total":      "order_total_amount",
	"status":     "order_status",
}

// POST /api/u/orders/checkout
func (oc *OrderController) Checkout(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	gw := oc.Gateways[oc.Provider]
	if gw == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Payments are not available right now")
	}

	ctx := c.UserContext()
	var book bookModel.BookModel
	if err := oc.DB.WithContext(ctx).
		First(&book, "book_id = ? AND book_is_active = ?", req.BookID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load book")
	}
	if book.BookStock < req.Quantity {
		return helper.JsonError(c, fiber.StatusConflict, "Not enough stock for this book")
	}

	unit := book.EffectivePrice()
	order := model.OrderModel{
		OrderTranID:          model.NewTranID(oc.Now()),
		OrderUserID:          userID,
		OrderBookID:          book.BookID,
		OrderQuantity:        req.Quantity,
		OrderUnitPrice:       unit,
		OrderTotalAmount:     unit.Mul(decimal.NewFromInt(int64(req.Quantity))),
		OrderCurrency:        oc.Currency,
		OrderStatus:          model.StatusPending,
		OrderCustomerName:    strings.TrimSpace(req.CustomerName),
		OrderCustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		OrderCustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		OrderShippingAddress: strings.TrimSpace(req.ShippingAddress),
		OrderCity:            strings.TrimSpace(req.City),
		OrderPaymentProvider: gw.Name(),
	}
	if err := oc.DB.WithContext(ctx).Create(&order).Error; err != nil {
		log.Printf("[ERROR] create order: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create order")
	}

	sess, err := gw.InitSession(ctx, order, book.BookTitle)
	if err != nil {
		log.Printf("[ERROR] %s init session for %s: %v", gw.Name(), order.OrderTranID, err)
		if _, ferr := oc.Orders.MarkUnpaid(ctx, order.OrderTranID, model.StatusFailed, nil); ferr != nil {
			log.Printf("[ERROR] mark order %s failed: %v", order.OrderTranID, ferr)
		}
		return helper.JsonError(c, fiber.StatusBadGateway, "Could not start payment, please try again")
	}
	if err := oc.DB.WithContext(ctx).Model(&order).
		Update("order_session_ref", sess.SessionRef).Error; err != nil {
		log.Printf("[WARN] save session ref for %s: %v", order.OrderTranID, err)
	}

	resp := dto.ToOrderResponse(order)
	resp.OrderBookTitle = book.BookTitle
	return helper.JsonCreated(c, "Order created", fiber.Map{
		"order":        resp,
		"redirect_url": sess.RedirectURL,
	})
}

func (oc *OrderController) bookTitles(c *fiber.Ctx, rows []model.OrderModel) map[uuid.UUID]string {
	out := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return out
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OrderBookID)
	}
	var books []bookModel.BookModel
	if err := oc.DB.WithContext(c.UserContext()).Unscoped().
		Select("book_id", "book_title").Where("book_id IN ?", ids).Find(&books).Error; err != nil {
		log.Printf("[WARN] order book titles: %v", err)
		return out
	}
	for _, b := range books {
		out[b.BookID] = b.BookTitle
	}
	return out
}

func (oc *OrderController) list(c *fiber.Ctx, q *gorm.DB, opt helper.Options) error {
	p := helper.ParseFiber(c, "created_at", "desc", opt)
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("order_status = ?", s)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count orders")
	}
	var rows []model.OrderModel
	if err := q.Order(p.OrderClause(orderSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list orders: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch orders")
	}
	return helper.JsonList(c, "ok", dto.ToOrderResponseList(rows, oc.bookTitles(c, rows)), helper.BuildPagination(total, p))
}

// GET /api/u/orders
func (oc *OrderController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	q := oc.DB.WithContext(c.UserContext()).Model(&model.OrderModel{}).Where("order_user_id = ?", userID)
	return oc.list(c, q, helper.DefaultOpts)
}

// GET /api/u/orders/:id (only the buyer's own orders)
func (oc *OrderController) DetailMine(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	row, err := oc.load(c)
	if err != nil {
		return err
	}
	if row.OrderUserID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Order not found")
	}
	return oc.detail(c, *row)
}

// GET /api/public/orders/track/:tran_id
func (oc *OrderController) Track(c *fiber.Ctx) error {
	o, err := oc.Orders.ByTranID(c.UserContext(), strings.TrimSpace(c.Params("tran_id")))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Order not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load order")
	}
	titles := oc.bookTitles(c, []model.OrderModel{o})
	return helper.JsonOK(c, "ok", dto.ToTrackResponse(o, titles[o.OrderBookID]))
}

// GET /api/a/orders
func (oc *OrderController) ListAdmin(c *fiber.Ctx) error {
	q := oc.DB.WithContext(c.UserContext()).Model(&model.OrderModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("order_tran_id = ? OR LOWER(order_customer_email) LIKE ? OR LOWER(order_customer_name) LIKE ?", s, like, like)
	}
	return oc.list(c, q, helper.AdminOpts)
}

// GET /api/a/orders/:id
func (oc *OrderController) DetailAdmin(c *fiber.Ctx) error {
	row, err := oc.load(c)
	if err != nil {
		return err
	}
	return oc.detail(c, *row)
}

// PATCH /api/a/orders/:id/status
func (oc *OrderController) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	row, err := oc.load(c)
	if err != nil {
		return err
	}
	from := row.OrderStatus
	updated, err := oc.Orders.ChangeStatus(c.UserContext(), *row, model.Status(req.Status))
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, "Cannot move order from "+string(from)+" to "+req.Status)
	case errors.Is(err, service.ErrStaleStatus):
		return helper.JsonError(c, fiber.StatusConflict, "Order status changed, reload and try again")
	case err != nil:
		log.Printf("[ERROR] order %s status: %v", row.OrderTranID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update order status")
	}

	audit.Record(c.UserContext(), oc.Audit, constants.AuditOrder, "status", helper.GetUserID(c), fiber.Map{
		"order_id": updated.OrderID, "from": from, "to": updated.OrderStatus,
	})
	return oc.detail(c, updated)
}

func (oc *OrderController) load(c *fiber.Ctx) (*model.OrderModel, error) {
	id, err := helper.ParseUUIDParam(c, "id", "Order")
	if err != nil {
		return nil, err
	}
	var row model.OrderModel
	if err := oc.DB.WithContext(c.UserContext()).First(&row, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load order")
	}
	return &row, nil
}

func (oc *OrderController) detail(c *fiber.Ctx, o model.OrderModel) error {
	resp := dto.ToOrderResponse(o)
	resp.OrderBookTitle = oc.bookTitles(c, []model.OrderModel{o})[o.OrderBookID]
	return helper.JsonOK(c, "ok", resp)
}
