package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/features/home/questions/controller"
	"ilmhub_backend/internals/features/home/questions/model"
	reactionModel "ilmhub_backend/internals/features/reactions/reactions/model"
	userModel "ilmhub_backend/internals/features/users/users/model"
	"ilmhub_backend/internals/helpers/mailer"
	"ilmhub_backend/internals/testkit"
)

func TestQuestions_AskAnswerPublish(t *testing.T) {
	db := testkit.NewDB(t, &model.QuestionModel{}, &reactionModel.ReactionModel{}, &userModel.UserModel{})
	require.NoError(t, db.Create(&userModel.UserModel{ID: "user_1", Email: "asker@example.com"}).Error)

	mail := &mailer.ConsoleMailer{Quiet: true}
	ctrl := controller.NewQuestionController(db, nil, mail, "IlmHub", "https://ilmhub.test/")

	app := testkit.NewApp()
	app.Get("/questions", ctrl.ListPublic)
	app.Get("/questions/:id", ctrl.DetailPublic)
	u := app.Group("/u", testkit.AsUser("user_1", false))
	u.Post("/questions", ctrl.Create)
	u.Get("/questions", ctrl.ListMine)
	a := app.Group("/a", testkit.AsUser("admin_1", true))
	a.Get("/questions", ctrl.ListAdmin)
	a.Patch("/questions/:id/answer", ctrl.Answer)
	a.Patch("/questions/:id/reject", ctrl.Reject)
	a.Delete("/questions/:id", ctrl.Delete)

	res := testkit.Request(t, app, http.MethodPost, "/u/questions", map[string]any{"question_title": "Hi"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPost, "/u/questions", map[string]any{
		"question_title": "Witr after isha",
		"question_body":  "How many rakah is witr prayer?",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	q := testkit.Data(t, res)
	id := q["question_id"].(string)
	assert.Equal(t, model.StatusPending, q["question_status"])

	res = testkit.Request(t, app, http.MethodGet, "/questions", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 0, "pending questions are not public")
	res = testkit.Request(t, app, http.MethodGet, "/questions/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodGet, "/a/questions?status=pending", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)

	res = testkit.Request(t, app, http.MethodPatch, "/a/questions/"+id+"/answer", map[string]any{"question_answer": "Odd number, at least one."})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, model.StatusAnswered, testkit.Data(t, res)["question_status"])

	sent := mail.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"asker@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].HTML, "https://ilmhub.test/questions/"+id)

	// editing the answer does not email again
	res = testkit.Request(t, app, http.MethodPatch, "/a/questions/"+id+"/answer", map[string]any{"question_answer": "Edited answer."})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Len(t, mail.Messages(), 1)

	res = testkit.Request(t, app, http.MethodGet, "/questions/"+id, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	pub := testkit.Data(t, res)
	assert.Nil(t, pub["question_user_id"], "asker is hidden publicly")

	res = testkit.Request(t, app, http.MethodGet, "/u/questions", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)
}

func TestQuestions_RejectAndDelete(t *testing.T) {
	db := testkit.NewDB(t, &model.QuestionModel{}, &reactionModel.ReactionModel{})
	ctrl := controller.NewQuestionController(db, nil, nil, "IlmHub", "")
	app := testkit.NewApp()
	app.Patch("/a/questions/:id/reject", testkit.AsUser("admin", true), ctrl.Reject)
	app.Delete("/a/questions/:id", testkit.AsUser("admin", true), ctrl.Delete)

	row := model.QuestionModel{QuestionUserID: "u", QuestionTitle: "title", QuestionBody: "body body body"}
	require.NoError(t, db.Create(&row).Error)

	res := testkit.Request(t, app, http.MethodPatch, "/a/questions/"+row.QuestionID.String()+"/reject", map[string]any{"question_reject_reason": "duplicate"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, model.StatusRejected, testkit.Data(t, res)["question_status"])

	res = testkit.Request(t, app, http.MethodPatch, "/a/questions/"+uuid.NewString()+"/reject", map[string]any{})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodDelete, "/a/questions/"+row.QuestionID.String(), nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodDelete, "/a/questions/"+row.QuestionID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
