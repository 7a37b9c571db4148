package controller_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/features/uploads/images/controller"
	"ilmhub_backend/internals/testkit"
)

type fakeUploader struct{ folders []string }

func (f *fakeUploader) UploadAsWebP(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	f.folders = append(f.folders, folder)
	return "https://cdn.ilmhub.test/" + folder + "/x.webp", nil
}

func (f *fakeUploader) DeleteByPublicURL(context.Context, string) error { return nil }

func multipartBody(t *testing.T) (string, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "poster.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("not really a png"))
	require.NoError(t, w.Close())
	return buf.String(), w.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	up := &fakeUploader{}
	app := testkit.NewApp()
	app.Post("/a/uploads/image", controller.NewUploadController(up).Image)

	body, ct := multipartBody(t)
	res := testkit.Request(t, app, http.MethodPost, "/a/uploads/image?folder=events", body, "Content-Type", ct)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.Equal(t, "https://cdn.ilmhub.test/events/x.webp", testkit.Data(t, res)["url"])
	assert.Equal(t, []string{"events"}, up.folders)

	body, ct = multipartBody(t)
	res = testkit.Request(t, app, http.MethodPost, "/a/uploads/image?folder=secrets", body, "Content-Type", ct)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = testkit.Request(t, app, http.MethodPost, "/a/uploads/image?folder=events", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	off := testkit.NewApp()
	off.Post("/a/uploads/image", controller.NewUploadController(nil).Image)
	res = testkit.Request(t, off, http.MethodPost, "/a/uploads/image?folder=events", body, "Content-Type", ct)
	assert.Equal(t, fiber.StatusServiceUnavailable, res.StatusCode)
}
