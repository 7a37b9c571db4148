package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/masalah/controller"
	"ilmhub_backend/internals/features/home/masalah/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	reactionModel "ilmhub_backend/internals/features/reactions/reactions/model"
	"ilmhub_backend/internals/testkit"
)

func newMasalahApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testkit.NewDB(t, &model.MasalahModel{}, &reactionModel.ReactionModel{})
	ctrl := controller.NewMasalahController(db, nil)
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.MasalahModel{}, "masalah_id")

	app := testkit.NewApp()
	app.Get("/masalah", ctrl.ListPublic)
	app.Get("/masalah/:key", ctrl.Detail)
	u := app.Group("/u", testkit.AsUser("user_1", false))
	u.Get("/masalah/bookmarks", ctrl.MyBookmarks)
	u.Post("/masalah/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetMasalah, exists))
	u.Post("/masalah/:id/bookmark", reactions.Toggle(constants.ReactionBookmark, constants.TargetMasalah, exists))
	a := app.Group("/a", testkit.AsUser("admin", true))
	a.Post("/masalah", ctrl.Create)
	a.Patch("/masalah/:id", ctrl.Update)
	a.Delete("/masalah/:id", ctrl.Delete)
	return app
}

func TestMasalah_CreateFilterAndReact(t *testing.T) {
	app := newMasalahApp(t)

	res := testkit.Request(t, app, http.MethodPost, "/a/masalah", map[string]any{
		"masalah_title":    "Praying while travelling",
		"masalah_question": "Can I shorten?",
		"masalah_answer":   "Yes, qasr applies.",
		"masalah_tags":     []string{"Salah", "travel", "salah"},
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	data := testkit.Data(t, res)
	id := data["masalah_id"].(string)
	assert.Equal(t, []any{"salah", "travel"}, data["masalah_tags"])

	res = testkit.Request(t, app, http.MethodPost, "/a/masalah", map[string]any{
		"masalah_title": "Zakat on gold", "masalah_question": "?", "masalah_answer": "2.5%",
		"masalah_tags": []string{"zakat"},
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = testkit.Request(t, app, http.MethodGet, "/masalah?tag=travel", nil)
	list := testkit.Decode(t, res)["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]any)["masalah_id"])

	res = testkit.Request(t, app, http.MethodPost, "/u/masalah/"+id+"/like", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodGet, "/masalah/praying-while-travelling", nil)
	detail := testkit.Data(t, res)
	assert.EqualValues(t, 1, detail["masalah_like_count"])
	assert.EqualValues(t, 1, detail["masalah_views"])

	res = testkit.Request(t, app, http.MethodPost, "/u/masalah/"+id+"/bookmark", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodGet, "/u/masalah/bookmarks", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)
}

func TestMasalah_UpdateAndDeleteMissing(t *testing.T) {
	app := newMasalahApp(t)

	res := testkit.Request(t, app, http.MethodPatch, "/a/masalah/"+uuid.NewString(), map[string]any{"masalah_title": "x"})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodDelete, "/a/masalah/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
