package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/videos/controller"
	"ilmhub_backend/internals/features/home/videos/dto"
	"ilmhub_backend/internals/features/home/videos/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	reactionModel "ilmhub_backend/internals/features/reactions/reactions/model"
	"ilmhub_backend/internals/testkit"
)

func newVideoApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testkit.NewDB(t, &model.VideoModel{}, &reactionModel.ReactionModel{})
	ctrl := controller.NewVideoController(db, nil)
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.VideoModel{}, "video_id")

	app := testkit.NewApp()
	app.Get("/videos", ctrl.ListPublic)
	app.Get("/videos/:id/likes", testkit.AsUser("user_1", false), reactions.Count(constants.ReactionLike, constants.TargetVideo))
	app.Get("/videos/:key", ctrl.Detail)
	u := app.Group("/u", testkit.AsUser("user_1", false))
	u.Get("/videos/bookmarks", ctrl.MyBookmarks)
	u.Post("/videos/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetVideo, exists))
	u.Post("/videos/:id/bookmark", reactions.Toggle(constants.ReactionBookmark, constants.TargetVideo, exists))
	a := app.Group("/a", testkit.AsUser("admin", true))
	a.Post("/videos", ctrl.Create)
	a.Patch("/videos/:id", ctrl.Update)
	a.Delete("/videos/:id", ctrl.Delete)
	return app
}

func createVideo(t *testing.T, app *fiber.App, title, yt string) string {
	t.Helper()
	res := testkit.Request(t, app, http.MethodPost, "/a/videos", map[string]any{"video_title": title, "video_youtube": yt})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	return testkit.Data(t, res)["video_id"].(string)
}

func TestVideo_LikeTwiceRestoresState(t *testing.T) {
	app := newVideoApp(t)
	id := createVideo(t, app, "Tafsir Al-Fatiha", "https://youtu.be/dQw4w9WgXcQ")

	res := testkit.Request(t, app, http.MethodGet, "/videos/"+id+"/likes", nil)
	before := testkit.Data(t, res)
	assert.EqualValues(t, 0, before["count"])
	assert.Equal(t, false, before["mine"])

	res = testkit.Request(t, app, http.MethodPost, "/u/videos/"+id+"/like", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data := testkit.Data(t, res)
	assert.Equal(t, true, data["active"])
	assert.EqualValues(t, 1, data["count"])

	res = testkit.Request(t, app, http.MethodPost, "/u/videos/"+id+"/like", nil)
	data = testkit.Data(t, res)
	assert.Equal(t, false, data["active"])
	assert.EqualValues(t, 0, data["count"])

	res = testkit.Request(t, app, http.MethodGet, "/videos/"+id+"/likes", nil)
	assert.Equal(t, before, testkit.Data(t, res))

	res = testkit.Request(t, app, http.MethodPost, "/u/videos/"+uuid.NewString()+"/like", nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestVideo_DetailCountsViewsAndBookmarks(t *testing.T) {
	app := newVideoApp(t)
	id := createVideo(t, app, "Seerah Part 1", "dQw4w9WgXcQ")
	createVideo(t, app, "Seerah Part 2", "https://www.youtube.com/watch?v=aaaaaaaaaaa")

	res := testkit.Request(t, app, http.MethodGet, "/videos/seerah-part-1", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.EqualValues(t, 1, testkit.Data(t, res)["video_views"])
	res = testkit.Request(t, app, http.MethodGet, "/videos/"+id, nil)
	assert.EqualValues(t, 2, testkit.Data(t, res)["video_views"])

	res = testkit.Request(t, app, http.MethodPost, "/u/videos/"+id+"/bookmark", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodGet, "/u/videos/bookmarks", nil)
	list := testkit.Decode(t, res)["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]any)["video_id"])

	res = testkit.Request(t, app, http.MethodPatch, "/a/videos/"+id, map[string]any{"video_is_published": false})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodGet, "/videos", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)

	res = testkit.Request(t, app, http.MethodPatch, "/a/videos/"+uuid.NewString(), map[string]any{"video_title": "x"})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestVideo_RejectsBadYoutube(t *testing.T) {
	app := newVideoApp(t)
	res := testkit.Request(t, app, http.MethodPost, "/a/videos", map[string]any{"video_title": "x", "video_youtube": "https://vimeo.com/123"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
}

func TestParseYoutubeID(t *testing.T) {
	cases := map[string]string{
		"dQw4w9WgXcQ":                                 "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://youtube.com/embed/dQw4w9WgXcQ":       "dQw4w9WgXcQ",
		"https://m.youtube.com/shorts/dQw4w9WgXcQ":    "dQw4w9WgXcQ",
	}
	for in, want := range cases {
		got, ok := dto.ParseYoutubeID(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := dto.ParseYoutubeID("https://example.com/watch?v=dQw4w9WgXcQ")
	assert.False(t, ok)
}
