package controller_test

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
	orderService "ilmhub_backend/internals/features/commerce/orders/service"
	"ilmhub_backend/internals/features/commerce/payments/controller"
	"ilmhub_backend/internals/features/commerce/payments/model"
	"ilmhub_backend/internals/features/commerce/payments/service"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	"ilmhub_backend/internals/testkit"
)

const form = "application/x-www-form-urlencoded"

func setup(t *testing.T, validation string) (*fiber.App, *gorm.DB, bookModel.BookModel) {
	t.Helper()
	db := testkit.NewDB(t, &orderModel.OrderModel{}, &bookModel.BookModel{}, &model.GatewayEventModel{})

	book := bookModel.BookModel{
		BookTitle: "Al-Adab al-Mufrad", BookSlug: "adab", BookAuthor: "al-Bukhari",
		BookPrice: decimal.NewFromInt(300), BookStock: 4, BookIsActive: true,
	}
	require.NoError(t, db.Create(&book).Error)
	for _, tran := range []string{"ILM-A", "ILM-B"} {
		require.NoError(t, db.Create(&orderModel.OrderModel{
			OrderTranID: tran, OrderUserID: "user_1", OrderBookID: book.BookID, OrderQuantity: 2,
			OrderUnitPrice: book.BookPrice, OrderTotalAmount: decimal.NewFromInt(600), OrderCurrency: "BDT",
			OrderCustomerName: "Amina", OrderCustomerEmail: "amina@example.com", OrderCustomerPhone: "0170",
			OrderShippingAddress: "House 1", OrderPaymentProvider: service.ProviderSSLCommerz,
		}).Error)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validation))
	}))
	t.Cleanup(srv.Close)
	ssl := service.NewSSLCommerz("store", "secret", false, "https://api.ilmhub.test")
	ssl.BaseURL = srv.URL

	gateways := map[string]service.Gateway{
		service.ProviderSSLCommerz: ssl,
		service.ProviderMidtrans:   service.NewMidtrans("SB-key", false, ""),
	}
	ctrl := controller.NewPaymentController(db, orderService.NewOrderService(db, nil), gateways, "https://ilmhub.test")

	app := testkit.NewApp()
	g := app.Group("/api/payments")
	g.Post("/sslcommerz/success", ctrl.SSLSuccess)
	g.Post("/sslcommerz/ipn", ctrl.SSLIPN)
	g.Post("/sslcommerz/fail", ctrl.SSLFail)
	g.Post("/sslcommerz/cancel", ctrl.SSLCancel)
	g.Post("/midtrans/notification", ctrl.MidtransNotification)
	return app, db, book
}

func post(t *testing.T, app *fiber.App, path string, v url.Values) *http.Response {
	return testkit.Request(t, app, http.MethodPost, path, v.Encode(), "Content-Type", form)
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// signed adds the verify_key/verify_sign pair SSLCommerz sends, made with
// the store password from setup.
func signed(v url.Values) url.Values {
	keys := make([]string, 0, len(v))
	parts := []string{"store_passwd=" + md5hex("secret")}
	for k := range v {
		keys = append(keys, k)
		parts = append(parts, k+"="+v.Get(k))
	}
	sort.Strings(keys)
	sort.Strings(parts)
	out := url.Values{}
	for k := range v {
		out.Set(k, v.Get(k))
	}
	out.Set("verify_key", strings.Join(keys, ","))
	out.Set("verify_sign", md5hex(strings.Join(parts, "&")))
	return out
}

func TestSSLCommerz_SuccessThenIPN(t *testing.T) {
	app, db, book := setup(t, `{"status":"VALID","tran_id":"ILM-A","val_id":"val_1","amount":"600.00","currency":"BDT","card_type":"VISA"}`)
	cb := signed(url.Values{"tran_id": {"ILM-A"}, "val_id": {"val_1"}, "status": {"VALID"}})

	res := post(t, app, "/api/payments/sslcommerz/success", cb)
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "https://ilmhub.test/orders/ILM-A?status=paid", res.Header.Get("Location"))

	res = post(t, app, "/api/payments/sslcommerz/ipn", cb)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "paid", testkit.Data(t, res)["status"])

	var b bookModel.BookModel
	require.NoError(t, db.First(&b, "book_id = ?", book.BookID).Error)
	assert.Equal(t, 2, b.BookStock, "stock taken once")

	var events []model.GatewayEventModel
	require.NoError(t, db.Order("gateway_event_received_at").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventProcessed, events[0].GatewayEventStatus)
	assert.Equal(t, model.EventIgnored, events[1].GatewayEventStatus)
}

func TestSSLCommerz_AmountMismatchStaysPending(t *testing.T) {
	app, db, _ := setup(t, `{"status":"VALID","tran_id":"ILM-A","val_id":"val_1","amount":"6.00","currency":"BDT"}`)

	res := post(t, app, "/api/payments/sslcommerz/ipn", signed(url.Values{"tran_id": {"ILM-A"}, "val_id": {"val_1"}, "status": {"VALID"}}))
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var o orderModel.OrderModel
	require.NoError(t, db.First(&o, "order_tran_id = ?", "ILM-A").Error)
	assert.Equal(t, orderModel.StatusPending, o.OrderStatus)
}

func TestSSLCommerz_FailAndCancel(t *testing.T) {
	app, db, _ := setup(t, `{}`)

	res := post(t, app, "/api/payments/sslcommerz/fail", signed(url.Values{"tran_id": {"ILM-A"}, "status": {"FAILED"}}))
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "https://ilmhub.test/orders/ILM-A?status=failed", res.Header.Get("Location"))

	res = post(t, app, "/api/payments/sslcommerz/cancel", signed(url.Values{"tran_id": {"ILM-B"}, "status": {"CANCELLED"}}))
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "https://ilmhub.test/orders/ILM-B?status=cancelled", res.Header.Get("Location"))

	var o orderModel.OrderModel
	require.NoError(t, db.First(&o, "order_tran_id = ?", "ILM-B").Error)
	assert.Equal(t, orderModel.StatusCancelled, o.OrderStatus)

	res = post(t, app, "/api/payments/sslcommerz/success", signed(url.Values{"tran_id": {"ILM-X"}, "status": {"VALID"}}))
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "https://ilmhub.test/orders/ILM-X?status=unverified", res.Header.Get("Location"))
}

func TestSSLCommerz_UnsignedFailLeavesOrderPending(t *testing.T) {
	app, db, _ := setup(t, `{}`)

	res := post(t, app, "/api/payments/sslcommerz/fail", url.Values{"tran_id": {"ILM-A"}, "status": {"FAILED"}})
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "https://ilmhub.test/orders/ILM-A?status=unverified", res.Header.Get("Location"))

	res = post(t, app, "/api/payments/sslcommerz/ipn", url.Values{"tran_id": {"ILM-A"}, "status": {"CANCELLED"}})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	var o orderModel.OrderModel
	require.NoError(t, db.First(&o, "order_tran_id = ?", "ILM-A").Error)
	assert.Equal(t, orderModel.StatusPending, o.OrderStatus)
}

func TestSSLCommerz_FailThenValidIPNRecordsPayment(t *testing.T) {
	app, db, book := setup(t, `{"status":"VALID","tran_id":"ILM-A","val_id":"val_1","amount":"600.00","currency":"BDT","card_type":"VISA"}`)

	res := post(t, app, "/api/payments/sslcommerz/fail", signed(url.Values{"tran_id": {"ILM-A"}, "status": {"FAILED"}}))
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)

	res = post(t, app, "/api/payments/sslcommerz/ipn", signed(url.Values{"tran_id": {"ILM-A"}, "val_id": {"val_1"}, "status": {"VALID"}}))
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "paid", testkit.Data(t, res)["status"])

	var o orderModel.OrderModel
	require.NoError(t, db.First(&o, "order_tran_id = ?", "ILM-A").Error)
	assert.Equal(t, orderModel.StatusPaid, o.OrderStatus)
	require.NotNil(t, o.OrderPaidAt)
	assert.Equal(t, "val_1", o.OrderPaymentRef)

	var b bookModel.BookModel
	require.NoError(t, db.First(&b, "book_id = ?", book.BookID).Error)
	assert.Equal(t, 2, b.BookStock)
}

func TestMidtrans_BadSignature(t *testing.T) {
	app, _, _ := setup(t, `{}`)
	res := testkit.Request(t, app, http.MethodPost, "/api/payments/midtrans/notification", map[string]any{
		"order_id": "ILM-A", "status_code": "200", "gross_amount": "600.00",
		"signature_key": "deadbeef", "transaction_status": "settlement",
	})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
