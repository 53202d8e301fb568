package dejasite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// thumbWidths are the widths /img/thumb serves.
var thumbWidths = []int{160, 320, 640, 960}

// processImage decodes an image from src, shrinks it to maxImageWidth and
// encodes it as JPEG.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	name := slugifyFilename(originalName)
	if name == "" {
		name = "image"
	}
	b := img.Bounds()
	return Image{
		Filename:     name + ".jpg",
		OriginalName: originalName,
		Width:        b.Dx(),
		Height:       b.Dy(),
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	return Slugify(strings.TrimSuffix(name, ext))
}

// ensureUniqueFilename appends a counter until the name is free both on disk
// and in the images table.
func (a *App) ensureUniqueFilename(img *Image) error {
	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	for n := 2; ; n++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		taken, err := a.Store.ImageExists(candidate)
		if err != nil {
			return err
		}
		if statErr != nil && !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, n)
	}
	img.Filename = candidate
	return nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	if err := a.ensureUniqueFilename(&img); err != nil {
		return err
	}

	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveImage(img); err != nil {
		return err
	}
	a.Logger.Info("image uploaded", zap.String("filename", img.Filename), zap.Int("bytes", img.Size))
	return c.Redirect(http.StatusSeeOther, "/admin/images")
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := path.Base(c.Param("filename"))
	if filename == "" || filename == "." || filename == "/" {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	// The file may already be gone; the table row is authoritative.
	_ = os.Remove(filepath.Join(a.Config.StaticDir, uploadsSubdir, filename))

	if err := a.Store.DeleteImage(filename); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images")
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}

// handleThumb serves /img/thumb/<width>/<path>: the image under
// <StaticDir>/img scaled down to width, cached in ThumbDir. Formats imaging
// cannot encode (svg) redirect to the original.
func (a *App) handleThumb(c echo.Context) error {
	width, err := strconv.Atoi(c.Param("width"))
	if err != nil || !slices.Contains(thumbWidths, width) {
		return echo.ErrNotFound
	}
	rel := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if rel == "" {
		return echo.ErrNotFound
	}
	format, err := imaging.FormatFromFilename(rel)
	if err != nil {
		return c.Redirect(http.StatusFound, "/img/"+rel)
	}

	cached := filepath.Join(a.Config.ThumbDir, strconv.Itoa(width), filepath.FromSlash(rel))
	if _, err := os.Stat(cached); err == nil {
		return c.File(cached)
	}

	src, err := imaging.Open(filepath.Join(a.Config.StaticDir, "img", filepath.FromSlash(rel)))
	if err != nil {
		return echo.ErrNotFound
	}
	thumb := imaging.Fit(src, width, src.Bounds().Dy(), imaging.Lanczos)
	if err := writeThumb(cached, thumb, format); err != nil {
		a.Logger.Warn("thumbnail cache write failed", zap.String("path", cached), zap.Error(err))
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(jpegQuality)); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, http.DetectContentType(buf.Bytes()), buf.Bytes())
	}
	return c.File(cached)
}

// writeThumb encodes img to a temp file beside dst and renames it into place
// so concurrent requests never serve a partial file.
func writeThumb(dst string, img image.Image, format imaging.Format) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".thumb-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
