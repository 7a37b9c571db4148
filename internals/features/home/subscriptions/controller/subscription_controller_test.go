package controller_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/features/home/subscriptions/controller"
	"ilmhub_backend/internals/features/home/subscriptions/model"
	"ilmhub_backend/internals/helpers/mailer"
	"ilmhub_backend/internals/testkit"
)

func TestSubscriptions_SubscribeIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t, &model.SubscriptionModel{})
	ctrl := controller.NewSubscriptionController(db, nil, "IlmHub", "")
	app := testkit.NewApp()
	app.Post("/subscriptions", ctrl.Subscribe)
	app.Get("/subscriptions/unsubscribe/:token", ctrl.Unsubscribe)
	app.Get("/a/subscriptions", testkit.AsUser("admin", true), ctrl.List)

	res := testkit.Request(t, app, http.MethodPost, "/subscriptions", map[string]any{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPost, "/subscriptions", map[string]any{"email": "Reader@Example.com", "name": "Reader"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.Equal(t, "reader@example.com", testkit.Data(t, res)["subscription_email"])

	var row model.SubscriptionModel
	require.NoError(t, db.First(&row, "subscription_email = ?", "reader@example.com").Error)
	require.NotEmpty(t, row.SubscriptionToken)

	res = testkit.Request(t, app, http.MethodGet, "/subscriptions/unsubscribe/"+row.SubscriptionToken, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodGet, "/subscriptions/unsubscribe/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodGet, "/a/subscriptions?active=false", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)

	// subscribing again re-activates the same row
	res = testkit.Request(t, app, http.MethodPost, "/subscriptions", map[string]any{"email": "reader@example.com"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, true, testkit.Data(t, res)["subscription_is_active"])

	var n int64
	db.Model(&model.SubscriptionModel{}).Count(&n)
	assert.EqualValues(t, 1, n)

	res = testkit.Request(t, app, http.MethodGet, "/a/subscriptions?active=true&q=reader", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)
}

func TestSubscriptions_WelcomeEmailCarriesUnsubscribeLink(t *testing.T) {
	db := testkit.NewDB(t, &model.SubscriptionModel{})
	mail := &mailer.ConsoleMailer{Quiet: true}
	ctrl := controller.NewSubscriptionController(db, mail, "IlmHub", "https://api.ilmhub.test/")
	app := testkit.NewApp()
	app.Post("/api/public/subscriptions", ctrl.Subscribe)
	app.Get("/api/public/subscriptions/unsubscribe/:token", ctrl.Unsubscribe)

	res := testkit.Request(t, app, http.MethodPost, "/api/public/subscriptions", map[string]any{"email": "reader@example.com", "name": "Reader"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var row model.SubscriptionModel
	require.NoError(t, db.First(&row, "subscription_email = ?", "reader@example.com").Error)
	link := "https://api.ilmhub.test/api/public/subscriptions/unsubscribe/" + row.SubscriptionToken

	sent := mail.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"reader@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].HTML, link)

	// the emailed link is what turns the subscription off
	u, err := url.Parse(link)
	require.NoError(t, err)
	res = testkit.Request(t, app, http.MethodGet, u.Path, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	// an active subscriber re-posting gets no second email; a returning one does
	res = testkit.Request(t, app, http.MethodPost, "/api/public/subscriptions", map[string]any{"email": "reader@example.com"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodPost, "/api/public/subscriptions", map[string]any{"email": "reader@example.com"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	sent = mail.Messages()
	require.Len(t, sent, 2)
	assert.True(t, strings.Contains(sent[1].HTML, link))
}
