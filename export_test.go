package dejasite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportPath(t *testing.T) {
	tests := map[string]string{
		"/":                     "index.html",
		"/zh":                   filepath.Join("zh", "index.html"),
		"/zh/devices":           filepath.Join("zh", "devices", "index.html"),
		"/docs/basics/overview": filepath.Join("docs", "basics", "overview", "index.html"),
	}
	for in, want := range tests {
		if got := exportPath(in); got != want {
			t.Fatalf("exportPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportWritesEveryPage(t *testing.T) {
	a := newTestApp(t, nil)
	seedPosts(t, a, 2)
	for name, body := range map[string]string{
		"img/devices/dw200.png": "png",
		"uploads/board.jpg":     "jpg",
	} {
		require.NoError(t, writeFile(filepath.Join(a.Config.StaticDir, filepath.FromSlash(name)), []byte(body)))
	}
	out := t.TempDir()

	res, err := a.Export(context.Background(), ExportOptions{Dir: out, Workers: 4})
	require.NoError(t, err)

	paths, _, err := a.sitePaths()
	require.NoError(t, err)
	require.Equal(t, len(paths), res.Pages)
	require.Equal(t, 3, res.Files)
	require.GreaterOrEqual(t, res.Assets, 3)

	for _, p := range []string{
		"index.html",
		"zh/index.html",
		"zh/devices/index.html",
		"blog/post-01/index.html",
		"docs/welcome/index.html",
		"sitemap.xml",
		"feed.xml",
		"robots.txt",
		"assets/site.css",
		"img/devices/dw200.png",
		"public/uploads/board.jpg",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(p)))
		require.NoError(t, err, p)
	}

	zh, err := os.ReadFile(filepath.Join(out, "zh", "devices", "index.html"))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(zh), "DejaOS 兼容设备"))
	require.Contains(t, string(zh), `href="/assets/site.css"`)

	css, err := os.ReadFile(filepath.Join(out, "assets", "site.css"))
	require.NoError(t, err)
	served := serve(a, "/assets/site.css")
	require.Equal(t, served.Body.String(), string(css))

	_, err = os.Stat(filepath.Join(out, "public", "img"))
	require.True(t, os.IsNotExist(err), "img is exported once, under /img")
}

func TestExportBeforeInit(t *testing.T) {
	a := New(SiteConfig{}, ViewFuncs{})
	_, err := a.Export(context.Background(), ExportOptions{Dir: t.TempDir()})
	require.Error(t, err)
}
