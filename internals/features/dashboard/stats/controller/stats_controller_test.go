package controller_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
	"ilmhub_backend/internals/features/dashboard/stats/controller"
	"ilmhub_backend/internals/features/dashboard/stats/service"
	masalahModel "ilmhub_backend/internals/features/home/masalah/model"
	questionModel "ilmhub_backend/internals/features/home/questions/model"
	subscriptionModel "ilmhub_backend/internals/features/home/subscriptions/model"
	videoModel "ilmhub_backend/internals/features/home/videos/model"
	institutionModel "ilmhub_backend/internals/features/institutions/institutions/model"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	eventModel "ilmhub_backend/internals/features/programme/events/model"
	userModel "ilmhub_backend/internals/features/users/users/model"
	"ilmhub_backend/internals/helpers/cache"
	"ilmhub_backend/internals/testkit"
)

func TestDashboardStats(t *testing.T) {
	db := testkit.NewDB(t,
		&userModel.UserModel{}, &bookModel.BookModel{}, &videoModel.VideoModel{}, &masalahModel.MasalahModel{},
		&institutionModel.InstitutionModel{}, &subscriptionModel.SubscriptionModel{}, &questionModel.QuestionModel{},
		&eventModel.EventModel{}, &orderModel.OrderModel{},
	)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&userModel.UserModel{ID: "u1", Email: "a@example.com"}).Error)
	require.NoError(t, db.Create(&userModel.UserModel{ID: "u2", Email: "b@example.com"}).Error)
	book := bookModel.BookModel{BookTitle: "Book", BookSlug: "book", BookAuthor: "A", BookPrice: decimal.NewFromInt(100), BookIsActive: true}
	require.NoError(t, db.Create(&book).Error)
	require.NoError(t, db.Create(&subscriptionModel.SubscriptionModel{SubscriptionEmail: "s1@example.com", SubscriptionIsActive: true}).Error)
	require.NoError(t, db.Create(&questionModel.QuestionModel{QuestionUserID: "u1", QuestionTitle: "t", QuestionBody: "b"}).Error)
	require.NoError(t, db.Create(&eventModel.EventModel{EventTitle: "Halaqa", EventSlug: "halaqa", EventStartAt: now.Add(48 * time.Hour)}).Error)
	require.NoError(t, db.Create(&eventModel.EventModel{EventTitle: "Past", EventSlug: "past", EventStartAt: now.Add(-48 * time.Hour), EventStatus: eventModel.StatusCompleted}).Error)

	for i, st := range []orderModel.Status{orderModel.StatusPaid, orderModel.StatusShipped, orderModel.StatusPending, orderModel.StatusFailed} {
		require.NoError(t, db.Create(&orderModel.OrderModel{
			OrderTranID: "ILM-" + string(st), OrderUserID: "u1", OrderBookID: book.BookID, OrderQuantity: 1,
			OrderUnitPrice: decimal.NewFromInt(int64(100 * (i + 1))), OrderTotalAmount: decimal.NewFromInt(int64(100 * (i + 1))),
			OrderCurrency: "BDT", OrderStatus: st, OrderPaymentProvider: "sslcommerz",
		}).Error)
	}
	require.NoError(t, db.Create(&orderModel.OrderModel{
		OrderTranID: "ILM-idr", OrderUserID: "u2", OrderBookID: book.BookID, OrderQuantity: 1,
		OrderUnitPrice: decimal.NewFromInt(85000), OrderTotalAmount: decimal.NewFromInt(85000),
		OrderCurrency: "IDR", OrderStatus: orderModel.StatusPaid, OrderPaymentProvider: "midtrans",
	}).Error)

	c := cache.NewLRUCache(16, time.Minute)
	ctrl := controller.NewStatsController(service.NewStatsService(db), c)
	app := testkit.NewApp()
	app.Get("/a/dashboard/stats", ctrl.Get)

	res := testkit.Request(t, app, http.MethodGet, "/a/dashboard/stats", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "MISS", res.Header.Get("X-Cache"))
	data := testkit.Data(t, res)

	counts := data["counts"].(map[string]any)
	assert.EqualValues(t, 2, counts["users"])
	assert.EqualValues(t, 1, counts["books"])
	assert.EqualValues(t, 1, counts["subscribers"])
	assert.EqualValues(t, 1, counts["pending_questions"])
	assert.EqualValues(t, 1, counts["upcoming_events"])

	byStatus := data["orders_by_status"].(map[string]any)
	assert.EqualValues(t, 2, byStatus["paid"])
	assert.EqualValues(t, 1, byStatus["pending"])
	assert.Equal(t, map[string]any{"BDT": "300", "IDR": "85000"}, data["revenue"], "paid 100 + shipped 200, IDR kept apart")
	assert.Len(t, data["recent_orders"], 5)

	require.NoError(t, db.Create(&userModel.UserModel{ID: "u3", Email: "c@example.com"}).Error)

	res = testkit.Request(t, app, http.MethodGet, "/a/dashboard/stats", nil)
	assert.Equal(t, "HIT", res.Header.Get("X-Cache"))
	assert.EqualValues(t, 2, testkit.Data(t, res)["counts"].(map[string]any)["users"])

	res = testkit.Request(t, app, http.MethodGet, "/a/dashboard/stats?refresh=1", nil)
	assert.Equal(t, "MISS", res.Header.Get("X-Cache"))
	assert.EqualValues(t, 3, testkit.Data(t, res)["counts"].(map[string]any)["users"])
}
