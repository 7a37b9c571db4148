package controller_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/programme/events/controller"
	"ilmhub_backend/internals/features/programme/events/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	reactionModel "ilmhub_backend/internals/features/reactions/reactions/model"
	"ilmhub_backend/internals/testkit"
)

func newEventApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testkit.NewDB(t, &model.EventModel{}, &reactionModel.ReactionModel{})
	dhaka := time.FixedZone("Asia/Dhaka", 6*3600)
	ctrl := controller.NewEventController(db, nil, dhaka)
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.EventModel{}, "event_id")

	app := testkit.NewApp()
	app.Get("/events", ctrl.ListPublic)
	app.Get("/events/:id/interested", reactions.Count(constants.ReactionInterest, constants.TargetEvent))
	app.Get("/events/:key", ctrl.Detail)
	u := app.Group("/u", testkit.AsUser("user_1", false))
	u.Get("/events/interested", ctrl.MyInterested)
	u.Post("/events/:id/interest", reactions.Toggle(constants.ReactionInterest, constants.TargetEvent, exists))
	a := app.Group("/a", testkit.AsUser("admin", true))
	a.Post("/events", ctrl.Create)
	a.Patch("/events/:id", ctrl.Update)
	a.Delete("/events/:id", ctrl.Delete)
	return app
}

func createEvent(t *testing.T, app *fiber.App, body map[string]any) map[string]any {
	t.Helper()
	res := testkit.Request(t, app, http.MethodPost, "/a/events", body)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	return testkit.Data(t, res)
}

func TestEvents_CreateAndList(t *testing.T) {
	app := newEventApp(t)
	// Friday 2030-01-04 19:00 UTC is already Saturday 01:00 in Dhaka
	start := time.Date(2030, 1, 4, 19, 0, 0, 0, time.UTC)
	ev := createEvent(t, app, map[string]any{
		"event_title":     "Weekly Halaqa",
		"event_start_at":  start.Format(time.RFC3339),
		"event_is_weekly": true,
	})
	assert.Equal(t, "weekly-halaqa", ev["event_slug"])
	assert.Equal(t, model.StatusUpcoming, ev["event_status"])
	assert.EqualValues(t, int(time.Saturday), ev["event_weekday"])

	createEvent(t, app, map[string]any{
		"event_title":    "Past Seminar",
		"event_start_at": time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339),
	})

	res := testkit.Request(t, app, http.MethodGet, "/events?upcoming=true", nil)
	list := testkit.Decode(t, res)["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Weekly Halaqa", list[0].(map[string]any)["event_title"])

	res = testkit.Request(t, app, http.MethodGet, "/events/weekly-halaqa", nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestEvents_Validation(t *testing.T) {
	app := newEventApp(t)
	start := time.Now().Add(24 * time.Hour).UTC()

	res := testkit.Request(t, app, http.MethodPost, "/a/events", map[string]any{
		"event_title":    "Backwards",
		"event_start_at": start.Format(time.RFC3339),
		"event_end_at":   start.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPatch, "/a/events/"+uuid.NewString(), map[string]any{"event_title": "x"})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPatch, "/a/events/not-a-uuid", map[string]any{"event_title": "x"})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestEvents_InterestToggle(t *testing.T) {
	app := newEventApp(t)
	ev := createEvent(t, app, map[string]any{
		"event_title":    "Tafsir Night",
		"event_start_at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	id := ev["event_id"].(string)

	res := testkit.Request(t, app, http.MethodPost, "/u/events/"+id+"/interest", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, true, testkit.Data(t, res)["active"])

	res = testkit.Request(t, app, http.MethodGet, "/u/events/interested", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 1)

	res = testkit.Request(t, app, http.MethodGet, "/events/"+id, nil)
	assert.EqualValues(t, 1, testkit.Data(t, res)["event_interested_count"])

	res = testkit.Request(t, app, http.MethodPost, "/u/events/"+id+"/interest", nil)
	assert.Equal(t, false, testkit.Data(t, res)["active"])
	res = testkit.Request(t, app, http.MethodGet, "/events/"+id+"/interested", nil)
	assert.EqualValues(t, 0, testkit.Data(t, res)["count"])

	res = testkit.Request(t, app, http.MethodDelete, "/a/events/"+id, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodPost, "/u/events/"+id+"/interest", nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
