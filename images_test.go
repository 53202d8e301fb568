package dejasite

import (
	"bytes"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestProcessImageShrinksWideImages(t *testing.T) {
	src := bytes.NewReader(pngBytes(t, 1600, 800))
	img, data, err := processImage(src, "DW200 Front View.PNG")
	require.NoError(t, err)
	require.Equal(t, "dw200-front-view.jpg", img.Filename)
	require.Equal(t, maxImageWidth, img.Width)
	require.Equal(t, 400, img.Height)
	require.Equal(t, len(data), img.Size)

	decoded, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, maxImageWidth, decoded.Bounds().Dx())
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	_, _, err := processImage(bytes.NewReader([]byte("not an image")), "x.png")
	require.Error(t, err)
}

func TestThumbnails(t *testing.T) {
	a := newTestApp(t, nil)
	dir := filepath.Join(a.Config.StaticDir, "img", "devices")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, imaging.Save(image.NewRGBA(image.Rect(0, 0, 1000, 500)), filepath.Join(dir, "dw200.png")))

	rec := serve(a, "/img/thumb/320/devices/dw200.png")
	require.Equal(t, http.StatusOK, rec.Code)
	thumb, err := imaging.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 320, thumb.Bounds().Dx())

	_, err = os.Stat(filepath.Join(a.Config.ThumbDir, "320", "devices", "dw200.png"))
	require.NoError(t, err)

	require.Equal(t, http.StatusNotFound, serve(a, "/img/thumb/321/devices/dw200.png").Code)
	require.Equal(t, http.StatusNotFound, serve(a, "/img/thumb/320/devices/missing.png").Code)

	rec = serve(a, "/img/thumb/320/logo.svg")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/img/logo.svg", rec.Header().Get("Location"))
}
