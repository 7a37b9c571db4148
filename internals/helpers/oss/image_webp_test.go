package helper

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, G: 40, B: 90, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebP_Downscales(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngOf(t, 200, 100)), "cover.png", WebPOptions{MaxW: 50, MaxH: 50, Quality: 75})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestConvertToWebP_KeepsSmallImages(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngOf(t, 40, 30)), "x.png", WebPOptions{MaxW: 1600, MaxH: 1600, Quality: 80})
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
}

func TestConvertToWebP_RejectsNonImages(t *testing.T) {
	_, err := ConvertToWebP(strings.NewReader("%PDF-1.4 not an image"), "doc.pdf", DefaultWebPOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = ConvertToWebP(strings.NewReader(""), "empty.png", DefaultWebPOptions())
	assert.Error(t, err)
}
