package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/features/library/categories/controller"
	"ilmhub_backend/internals/features/library/categories/model"
	"ilmhub_backend/internals/testkit"
)

func TestCategories_CRUD(t *testing.T) {
	db := testkit.NewDB(t, &model.CategoryModel{})
	ctrl := controller.NewCategoryController(db, nil)

	app := testkit.NewApp()
	app.Get("/categories", ctrl.List)
	a := app.Group("/a", testkit.AsUser("admin_1", true))
	a.Post("/categories", ctrl.Create)
	a.Patch("/categories/:id", ctrl.Update)
	a.Delete("/categories/:id", ctrl.Delete)

	res := testkit.Request(t, app, http.MethodPost, "/a/categories", map[string]any{"category_name": "Fiqh", "category_kind": "poem"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPost, "/a/categories", map[string]any{"category_name": "Fiqh", "category_kind": "book"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	first := testkit.Data(t, res)
	assert.Equal(t, "fiqh", first["category_slug"])

	// same name, same kind gets a suffixed slug
	res = testkit.Request(t, app, http.MethodPost, "/a/categories", map[string]any{"category_name": "Fiqh", "category_kind": "book"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.Equal(t, "fiqh-2", testkit.Data(t, res)["category_slug"])

	// another kind may reuse the slug
	res = testkit.Request(t, app, http.MethodPost, "/a/categories", map[string]any{"category_name": "Fiqh", "category_kind": "video"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.Equal(t, "fiqh", testkit.Data(t, res)["category_slug"])

	res = testkit.Request(t, app, http.MethodGet, "/categories?kind=book", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 2)

	id := first["category_id"].(string)
	res = testkit.Request(t, app, http.MethodPatch, "/a/categories/"+id, map[string]any{"category_name": "Fiqh & Usul"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "Fiqh & Usul", testkit.Data(t, res)["category_name"])

	res = testkit.Request(t, app, http.MethodPatch, "/a/categories/"+uuid.NewString(), map[string]any{"category_name": "Nope"})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodDelete, "/a/categories/"+id, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	res = testkit.Request(t, app, http.MethodDelete, "/a/categories/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res = testkit.Request(t, app, http.MethodGet, "/categories", nil)
	assert.Len(t, testkit.Decode(t, res)["data"], 2)
}
