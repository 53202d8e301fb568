package dejasite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ExportOptions controls Export.
type ExportOptions struct {
	// Dir receives the rendered tree.
	Dir string
	// Workers bounds concurrent page renders (default 8).
	Workers int
}

// ExportResult summarizes a completed export.
type ExportResult struct {
	Pages  int
	Files  int // sitemap.xml, feed.xml and robots.txt
	Assets int // stylesheet, images and uploads copied verbatim
}

// Export renders every sitemap page for every locale through the HTTP
// handler into <Dir>/<path>/index.html, copies what the server mounts under
// /assets, /img and /public, then writes sitemap.xml, feed.xml and
// robots.txt. Init must have been called.
func (a *App) Export(ctx context.Context, opts ExportOptions) (ExportResult, error) {
	if !a.ready {
		return ExportResult{}, errors.New("dejasite: export before Init")
	}
	if opts.Dir == "" {
		return ExportResult{}, errors.New("dejasite: export dir is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	paths, _, err := a.sitePaths()
	if err != nil {
		return ExportResult{}, err
	}

	copies, err := a.staticCopies(opts.Dir)
	if err != nil {
		return ExportResult{}, err
	}

	var pages, assets atomic.Int64
	p := pool.New().WithContext(ctx).WithMaxGoroutines(opts.Workers)
	for _, cp := range copies {
		p.Go(func(ctx context.Context) error {
			data, err := fs.ReadFile(cp.src, cp.name)
			if err != nil {
				return fmt.Errorf("dejasite: export %s: %w", cp.name, err)
			}
			if err := writeFile(cp.dst, data); err != nil {
				return err
			}
			assets.Add(1)
			return nil
		})
	}
	for _, pth := range paths {
		p.Go(func(ctx context.Context) error {
			body, err := a.fetch(ctx, pth)
			if err != nil {
				a.Metrics.ExportPagesTotal.WithLabelValues("error").Inc()
				return err
			}
			if err := writeFile(filepath.Join(opts.Dir, exportPath(pth)), body); err != nil {
				a.Metrics.ExportPagesTotal.WithLabelValues("error").Inc()
				return err
			}
			a.Metrics.ExportPagesTotal.WithLabelValues("ok").Inc()
			pages.Add(1)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return ExportResult{Pages: int(pages.Load()), Assets: int(assets.Load())}, err
	}

	files := 0
	for _, name := range []string{"sitemap.xml", "feed.xml", "robots.txt"} {
		body, err := a.fetch(ctx, "/"+name)
		if err != nil {
			return ExportResult{Pages: int(pages.Load()), Files: files, Assets: int(assets.Load())}, err
		}
		if err := writeFile(filepath.Join(opts.Dir, name), body); err != nil {
			return ExportResult{Pages: int(pages.Load()), Files: files, Assets: int(assets.Load())}, err
		}
		files++
	}
	res := ExportResult{Pages: int(pages.Load()), Files: files, Assets: int(assets.Load())}
	a.Logger.Info("export finished", zap.String("dir", opts.Dir),
		zap.Int("pages", res.Pages), zap.Int("files", res.Files), zap.Int("assets", res.Assets))
	return res, nil
}

type staticCopy struct {
	src  fs.FS
	name string
	dst  string
}

// staticCopies lists the files behind the /assets, /img and /public mounts.
// <StaticDir>/img goes to <dir>/img only; the rest of StaticDir goes to
// <dir>/public. A missing StaticDir contributes nothing.
func (a *App) staticCopies(dir string) ([]staticCopy, error) {
	var out []staticCopy
	add := func(src fs.FS, prefix string, skip func(string) bool) error {
		return fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if skip != nil && skip(name) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				out = append(out, staticCopy{src, name, filepath.Join(dir, prefix, filepath.FromSlash(name))})
			}
			return nil
		})
	}

	assets, err := fs.Sub(EmbeddedAssets, "assets")
	if err != nil {
		return nil, err
	}
	if err := add(assets, "assets", nil); err != nil {
		return nil, err
	}
	if info, err := os.Stat(a.Config.StaticDir); err != nil || !info.IsDir() {
		return out, nil
	}
	static := os.DirFS(a.Config.StaticDir)
	if _, err := fs.Stat(static, "img"); err == nil {
		img, err := fs.Sub(static, "img")
		if err != nil {
			return nil, err
		}
		if err := add(img, "img", nil); err != nil {
			return nil, err
		}
	}
	err = add(static, "public", func(name string) bool { return name == "img" })
	return out, err
}

// fetch serves one GET through Echo and returns the body of a 200 response.
func (a *App) fetch(ctx context.Context, target string) ([]byte, error) {
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	// A locale cookie keeps the Accept-Language redirect from firing on "/".
	req.AddCookie(&http.Cookie{Name: localeCookieName, Value: a.defaultLocale()})
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return nil, fmt.Errorf("dejasite: export %s: status %d", target, rec.Code)
	}
	return bytes.Clone(rec.Body.Bytes()), nil
}

// exportPath maps a site path to its file: "/" -> index.html,
// "/zh/devices" -> zh/devices/index.html.
func exportPath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(p), "index.html")
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}
