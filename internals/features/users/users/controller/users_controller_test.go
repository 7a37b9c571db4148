package controller_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/users/users/controller"
	"ilmhub_backend/internals/features/users/users/model"
	"ilmhub_backend/internals/testkit"
)

var webhookSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("clerk-test-secret-0123456789abcd"))

func newWebhookApp(t *testing.T, db *gorm.DB, admins ...string) *fiber.App {
	t.Helper()
	ctrl := controller.NewClerkWebhookController(db, webhookSecret, func(email string) bool {
		for _, a := range admins {
			if a == email {
				return true
			}
		}
		return false
	})
	app := testkit.NewApp()
	app.Post("/api/webhooks/clerk", ctrl.Handle)
	return app
}

func signedRequest(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()
	wh, err := svix.NewWebhook(webhookSecret)
	require.NoError(t, err)
	now := time.Now()
	sig, err := wh.Sign("msg_1", now, []byte(payload))
	require.NoError(t, err)
	return testkit.Request(t, app, http.MethodPost, "/api/webhooks/clerk", payload,
		"svix-id", "msg_1",
		"svix-timestamp", strconv.FormatInt(now.Unix(), 10),
		"svix-signature", sig,
	)
}

const createdPayload = `{"type":"user.created","data":{"id":"user_abc","first_name":"Aisha","last_name":"Rahman","image_url":"https://img/a.png","primary_email_address_id":"em_2","email_addresses":[{"id":"em_1","email_address":"old@example.com"},{"id":"em_2","email_address":"Aisha@Example.com"}],"public_metadata":{}}}`

func TestClerkWebhook_CreateUpdateDelete(t *testing.T) {
	db := testkit.NewDB(t, &model.UserModel{})
	app := newWebhookApp(t, db, "aisha@example.com")

	res := signedRequest(t, app, createdPayload)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var u model.UserModel
	require.NoError(t, db.First(&u, "id = ?", "user_abc").Error)
	assert.Equal(t, "aisha@example.com", u.Email, "primary email picked and lowercased")
	assert.Equal(t, "Aisha Rahman", u.FullName())
	assert.True(t, u.IsAdmin, "ADMIN_EMAILS grants admin")

	updated := strings.Replace(createdPayload, `"user.created"`, `"user.updated"`, 1)
	updated = strings.Replace(updated, `"Aisha"`, `"Aishah"`, 1)
	res = signedRequest(t, app, updated)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	require.NoError(t, db.First(&u, "id = ?", "user_abc").Error)
	assert.Equal(t, "Aishah", u.FirstName)

	res = signedRequest(t, app, `{"type":"user.deleted","data":{"id":"user_abc","deleted":true}}`)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.ErrorIs(t, db.First(&u, "id = ?", "user_abc").Error, gorm.ErrRecordNotFound)

	// re-created clerk user revives the mirror
	res = signedRequest(t, app, createdPayload)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	require.NoError(t, db.First(&u, "id = ?", "user_abc").Error)
}

func TestClerkWebhook_MetadataAdminAndUnknownType(t *testing.T) {
	db := testkit.NewDB(t, &model.UserModel{})
	app := newWebhookApp(t, db)

	payload := strings.Replace(createdPayload, `"public_metadata":{}`, `"public_metadata":{"isAdmin":true}`, 1)
	res := signedRequest(t, app, payload)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var u model.UserModel
	require.NoError(t, db.First(&u, "id = ?", "user_abc").Error)
	assert.True(t, u.IsAdmin)

	res = signedRequest(t, app, `{"type":"session.created","data":{"id":"sess_1"}}`)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestClerkWebhook_BadSignature(t *testing.T) {
	db := testkit.NewDB(t, &model.UserModel{})
	app := newWebhookApp(t, db)

	res := testkit.Request(t, app, http.MethodPost, "/api/webhooks/clerk", createdPayload,
		"svix-id", "msg_1",
		"svix-timestamp", strconv.FormatInt(time.Now().Unix(), 10),
		"svix-signature", "v1,bm90LWEtcmVhbC1zaWduYXR1cmU=",
	)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var n int64
	db.Model(&model.UserModel{}).Count(&n)
	assert.Zero(t, n)
}

type fakeRoles struct {
	calls map[string]bool
}

func (f *fakeRoles) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	f.calls[id] = isAdmin
	return nil
}

func TestUsers_MeListAndRole(t *testing.T) {
	db := testkit.NewDB(t, &model.UserModel{})
	require.NoError(t, db.Create(&[]model.UserModel{
		{ID: "user_1", Email: "one@example.com", FirstName: "Yusuf"},
		{ID: "user_2", Email: "two@example.com", FirstName: "Maryam"},
	}).Error)

	roles := &fakeRoles{calls: map[string]bool{}}
	ctrl := controller.NewUserController(db, roles, nil)
	app := testkit.NewApp()
	app.Get("/me", testkit.AsUser("user_1", false), ctrl.Me)
	app.Get("/ghost", testkit.AsUser("user_404", false), ctrl.Me)
	app.Get("/users", ctrl.ListUsers)
	app.Patch("/users/:id/role", testkit.AsUser("user_1", true), ctrl.UpdateRole)

	res := testkit.Request(t, app, http.MethodGet, "/me", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "one@example.com", testkit.Data(t, res)["email"])

	res = testkit.Request(t, app, http.MethodGet, "/ghost", nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodGet, "/users?q=maryam", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	body := testkit.Decode(t, res)
	assert.Len(t, body["data"], 1)

	res = testkit.Request(t, app, http.MethodPatch, "/users/user_2/role", map[string]any{"is_admin": true})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.True(t, roles.calls["user_2"])
	var u model.UserModel
	require.NoError(t, db.First(&u, "id = ?", "user_2").Error)
	assert.True(t, u.IsAdmin)

	res = testkit.Request(t, app, http.MethodPatch, "/users/user_missing/role", map[string]any{"is_admin": true})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPatch, "/users/user_2/role", map[string]any{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
}
