package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/comments/controller"
	"ilmhub_backend/internals/features/home/comments/model"
	videoModel "ilmhub_backend/internals/features/home/videos/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	reactionModel "ilmhub_backend/internals/features/reactions/reactions/model"
	userModel "ilmhub_backend/internals/features/users/users/model"
	"ilmhub_backend/internals/testkit"
)

type commentFixture struct {
	app     *fiber.App
	videoID string
}

func newCommentApp(t *testing.T) commentFixture {
	t.Helper()
	db := testkit.NewDB(t, &model.CommentModel{}, &videoModel.VideoModel{}, &reactionModel.ReactionModel{}, &userModel.UserModel{})
	video := videoModel.VideoModel{VideoTitle: "Tafsir", VideoSlug: "tafsir", VideoYoutubeID: "dQw4w9WgXcQ", VideoIsPublished: true}
	require.NoError(t, db.Create(&video).Error)
	require.NoError(t, db.Create(&userModel.UserModel{ID: "alice", Email: "alice@example.com", FirstName: "Alice"}).Error)

	ctrl := controller.NewCommentController(db, map[string]reactionController.TargetChecker{
		constants.TargetVideo: reactionController.ExistsIn(db, &videoModel.VideoModel{}, "video_id"),
	})
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.CommentModel{}, "comment_id")

	app := testkit.NewApp()
	app.Get("/comments", ctrl.ListByTarget)
	for _, who := range []string{"alice", "bob"} {
		g := app.Group("/"+who, testkit.AsUser(who, false))
		g.Post("/comments", ctrl.Create)
		g.Patch("/comments/:id", ctrl.Update)
		g.Delete("/comments/:id", ctrl.Delete)
		g.Post("/comments/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetComment, exists))
	}
	app.Delete("/admin/comments/:id", testkit.AsUser("admin", true), ctrl.Delete)
	return commentFixture{app: app, videoID: video.VideoID.String()}
}

func (f commentFixture) post(t *testing.T, who, content string, parent string) string {
	t.Helper()
	body := map[string]any{
		"comment_target_type": constants.TargetVideo,
		"comment_target_id":   f.videoID,
		"comment_content":     content,
	}
	if parent != "" {
		body["comment_parent_id"] = parent
	}
	res := testkit.Request(t, f.app, http.MethodPost, "/"+who+"/comments", body)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	return testkit.Data(t, res)["comment_id"].(string)
}

func TestComments_ThreadedList(t *testing.T) {
	f := newCommentApp(t)
	root := f.post(t, "alice", "JazakAllah khair", "")
	reply := f.post(t, "bob", "Ameen", root)
	f.post(t, "alice", "reply to reply", reply)

	res := testkit.Request(t, f.app, http.MethodGet, "/comments?target_type=video&target_id="+f.videoID, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	body := testkit.Decode(t, res)
	list := body["data"].([]any)
	require.Len(t, list, 1, "replies are not top-level")

	top := list[0].(map[string]any)
	assert.Equal(t, root, top["comment_id"])
	assert.Equal(t, "Alice", top["comment_author"].(map[string]any)["name"])
	replies := top["replies"].([]any)
	require.Len(t, replies, 2, "a reply to a reply joins the root thread")
	assert.Equal(t, root, replies[1].(map[string]any)["comment_parent_id"])

	res = testkit.Request(t, f.app, http.MethodGet, "/comments?target_type=video", nil)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestComments_CreateValidatesTarget(t *testing.T) {
	f := newCommentApp(t)

	res := testkit.Request(t, f.app, http.MethodPost, "/alice/comments", map[string]any{
		"comment_target_type": constants.TargetVideo,
		"comment_target_id":   uuid.NewString(),
		"comment_content":     "hello",
	})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, f.app, http.MethodPost, "/alice/comments", map[string]any{
		"comment_target_type": "podcast",
		"comment_target_id":   f.videoID,
		"comment_content":     "hello",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)

	res = testkit.Request(t, f.app, http.MethodPost, "/alice/comments", map[string]any{
		"comment_target_type": constants.TargetVideo,
		"comment_target_id":   f.videoID,
		"comment_parent_id":   uuid.NewString(),
		"comment_content":     "orphan",
	})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestComments_EditAndDeleteOwnership(t *testing.T) {
	f := newCommentApp(t)
	id := f.post(t, "alice", "first", "")
	f.post(t, "bob", "child", id)

	res := testkit.Request(t, f.app, http.MethodPatch, "/bob/comments/"+id, map[string]any{"comment_content": "hijack"})
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	res = testkit.Request(t, f.app, http.MethodPatch, "/alice/comments/"+id, map[string]any{"comment_content": "edited"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data := testkit.Data(t, res)
	assert.Equal(t, "edited", data["comment_content"])
	assert.Equal(t, true, data["comment_is_edited"])

	res = testkit.Request(t, f.app, http.MethodPatch, "/alice/comments/"+uuid.NewString(), map[string]any{"comment_content": "x"})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, f.app, http.MethodDelete, "/bob/comments/"+id, nil)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	res = testkit.Request(t, f.app, http.MethodDelete, "/admin/comments/"+id, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res = testkit.Request(t, f.app, http.MethodGet, "/comments?target_type=video&target_id="+f.videoID, nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 0)
}

func TestComments_LikeToggle(t *testing.T) {
	f := newCommentApp(t)
	id := f.post(t, "alice", "like me", "")

	res := testkit.Request(t, f.app, http.MethodPost, "/bob/comments/"+id+"/like", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.EqualValues(t, 1, testkit.Data(t, res)["count"])

	res = testkit.Request(t, f.app, http.MethodGet, "/comments?target_type=video&target_id="+f.videoID, nil)
	top := testkit.Decode(t, res)["data"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 1, top["comment_like_count"])

	res = testkit.Request(t, f.app, http.MethodPost, "/bob/comments/"+id+"/like", nil)
	assert.EqualValues(t, 0, testkit.Data(t, res)["count"])
}
