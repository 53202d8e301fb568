package dejasite

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/dejaos/dejasite/catalog"
	"github.com/dejaos/dejasite/docs"
	"github.com/dejaos/dejasite/i18n"
	"github.com/dejaos/dejasite/sidebar"
)

// Content is everything read from the site directory at startup.
type Content struct {
	Bundle   *i18n.Bundle
	Sidebars *sidebar.Set
	Docs     *docs.Store
	Devices  *catalog.Catalog
	Showcase *catalog.Catalog
}

// LoadContent reads message catalogs, sidebars, docs and catalogs from fsys:
//
//	i18n/<locale>/code.json
//	sidebars/<plugin>.yaml, i18n/<locale>/sidebars/<plugin>.yaml
//	<plugin path>/**.md, i18n/<locale>/<plugin path>/**.md
//	catalog/devices.yaml, catalog/devices.i18n.json (and showcase)
func LoadContent(fsys fs.FS, cfg SiteConfig) (*Content, error) {
	bundle, err := i18n.New(cfg.I18n.DefaultLocale, cfg.I18n.Locales)
	if err != nil {
		return nil, fmt.Errorf("dejasite: %w", err)
	}
	if err := bundle.LoadFS(fsys, "i18n"); err != nil {
		return nil, fmt.Errorf("dejasite: %w", err)
	}

	set := sidebar.NewSet()
	for _, p := range cfg.Docs.Plugins {
		if p.Sidebar == "" {
			continue
		}
		if err := set.Load(fsys, p.ID, "", p.Sidebar); err != nil {
			return nil, fmt.Errorf("dejasite: %w", err)
		}
		for _, l := range bundle.Locales()[1:] {
			if err := set.Load(fsys, p.ID, l, sidebar.LocalePath(l, p.Sidebar)); err != nil {
				return nil, fmt.Errorf("dejasite: %w", err)
			}
		}
	}

	store, err := docs.Load(fsys, bundle.Fallback(), bundle.Locales(), cfg.Docs.Plugins)
	if err != nil {
		return nil, fmt.Errorf("dejasite: %w", err)
	}

	devices, err := catalog.Load(fsys, "catalog", "devices")
	if err != nil {
		return nil, fmt.Errorf("dejasite: %w", err)
	}
	showcase, err := catalog.Load(fsys, "catalog", "showcase")
	if err != nil {
		return nil, fmt.Errorf("dejasite: %w", err)
	}

	return &Content{
		Bundle:   bundle,
		Sidebars: set,
		Docs:     store,
		Devices:  devices,
		Showcase: showcase,
	}, nil
}

// ImageProber checks whether site-local catalog images exist and decode.
// Remote images are assumed available; the browser's onerror handler covers
// them. Results are cached for the life of the prober.
type ImageProber struct {
	fsys fs.FS

	mu    sync.Mutex
	known map[string]bool
}

// NewImageProber returns a prober reading from fsys, usually the static
// directory.
func NewImageProber(fsys fs.FS) *ImageProber {
	return &ImageProber{fsys: fsys, known: map[string]bool{}}
}

// Available reports whether ref can be displayed.
func (p *ImageProber) Available(ref string) bool {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return true
	}
	name := strings.TrimPrefix(path.Clean("/"+ref), "/")
	if name == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ok, seen := p.known[name]; seen {
		return ok
	}
	ok := p.probe(name)
	p.known[name] = ok
	return ok
}

func (p *ImageProber) probe(name string) bool {
	f, err := p.fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	if strings.EqualFold(path.Ext(name), ".svg") {
		st, err := f.Stat()
		return err == nil && st.Size() > 0
	}
	cfg, _, err := image.DecodeConfig(f)
	return err == nil && cfg.Width > 0 && cfg.Height > 0
}
