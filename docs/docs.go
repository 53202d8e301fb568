// Package docs loads versionless documentation plugins: Markdown pages with
// front matter, their translations and the rendered HTML.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/dejaos/dejasite/markdown"
)

// ErrNotFound is returned when a plugin or document does not exist.
var ErrNotFound = errors.New("docs: not found")

// Plugin is one documentation section mounted under RouteBasePath.
type Plugin struct {
	ID            string `yaml:"id"`
	Path          string `yaml:"path"`
	RouteBasePath string `yaml:"routeBasePath"`
	Sidebar       string `yaml:"sidebar"`
}

// Doc is one rendered page.
type Doc struct {
	Plugin       string
	ID           string
	Locale       string
	Title        string
	SidebarLabel string
	Description  string
	Body         string
	HTML         string
	// TitleInBody is set when the title was taken from the body's first
	// heading, so layouts should not repeat it.
	TitleInBody bool
	// Translated is false when the default locale's page is served for
	// another locale.
	Translated bool
}

// Label is the text used for the doc in sidebars and pagers.
func (d *Doc) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// Store holds every doc of every plugin, keyed plugin -> locale -> id.
type Store struct {
	fallback string
	plugins  []Plugin
	docs     map[string]map[string]map[string]*Doc
}

// Load reads the docs of each plugin from fsys. Default pages live under
// <plugin.Path>/, translations under i18n/<locale>/<plugin.Path>/.
// Translations without a default page are ignored.
func Load(fsys fs.FS, fallback string, locales []string, plugins []Plugin) (*Store, error) {
	s := &Store{
		fallback: fallback,
		plugins:  slices.Clone(plugins),
		docs:     make(map[string]map[string]map[string]*Doc, len(plugins)),
	}
	for _, p := range plugins {
		if p.ID == "" || p.Path == "" {
			return nil, fmt.Errorf("docs: plugin needs id and path: %+v", p)
		}
		byLocale := map[string]map[string]*Doc{}
		s.docs[p.ID] = byLocale
		base, err := loadDir(fsys, p, fallback, p.Path)
		if err != nil {
			return nil, err
		}
		byLocale[fallback] = base
		for _, l := range locales {
			if l == fallback {
				continue
			}
			tr, err := loadDir(fsys, p, l, path.Join("i18n", l, p.Path))
			if err != nil {
				return nil, err
			}
			for id := range tr {
				if _, ok := base[id]; !ok {
					delete(tr, id)
				}
			}
			byLocale[l] = tr
		}
	}
	return s, nil
}

func loadDir(fsys fs.FS, p Plugin, locale, dir string) (map[string]*Doc, error) {
	out := map[string]*Doc{}
	if _, err := fs.Stat(fsys, dir); errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	err := fs.WalkDir(fsys, dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (!strings.HasSuffix(name, ".md") && !strings.HasSuffix(name, ".mdx")) {
			return nil
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		doc, err := parseDoc(string(raw), strings.TrimPrefix(name, dir+"/"))
		if err != nil {
			return fmt.Errorf("docs: %s: %w", name, err)
		}
		doc.Plugin = p.ID
		doc.Locale = locale
		doc.Translated = true
		if _, dup := out[doc.ID]; dup {
			return fmt.Errorf("docs: %s: duplicate doc id %q", name, doc.ID)
		}
		out[doc.ID] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseDoc(src, rel string) (*Doc, error) {
	parsed, err := markdown.Parse(src)
	if err != nil {
		return nil, err
	}
	fm := parsed.Front
	id := strings.TrimSuffix(strings.TrimSuffix(rel, ".mdx"), ".md")
	if fm.ID != "" {
		id = path.Join(path.Dir(id), fm.ID)
	}
	doc := &Doc{
		ID:           id,
		Title:        strings.TrimSpace(fm.Title),
		SidebarLabel: strings.TrimSpace(fm.SidebarLabel),
		Description:  strings.TrimSpace(fm.Description),
		Body:         parsed.Body,
	}
	if doc.Title == "" {
		if t := markdown.Title(parsed.Body); t != "" {
			doc.Title = t
			doc.TitleInBody = true
		} else {
			doc.Title = path.Base(id)
		}
	}
	if doc.HTML, err = markdown.HTML(parsed.Body); err != nil {
		return nil, err
	}
	return doc, nil
}

// Plugins returns the configured plugins in order.
func (s *Store) Plugins() []Plugin {
	return slices.Clone(s.plugins)
}

// Plugin returns the plugin with the given id.
func (s *Store) Plugin(id string) (Plugin, bool) {
	for _, p := range s.plugins {
		if p.ID == id {
			return p, true
		}
	}
	return Plugin{}, false
}

// Get returns the doc in locale, or the default locale's doc with Translated
// unset.
func (s *Store) Get(plugin, locale, id string) (*Doc, error) {
	byLocale, ok := s.docs[plugin]
	if !ok {
		return nil, ErrNotFound
	}
	if d, ok := byLocale[locale][id]; ok {
		return d, nil
	}
	d, ok := byLocale[s.fallback][id]
	if !ok {
		return nil, ErrNotFound
	}
	if locale == s.fallback {
		return d, nil
	}
	cp := *d
	cp.Locale = locale
	cp.Translated = false
	return &cp, nil
}

// IDs returns the sorted doc ids of plugin.
func (s *Store) IDs(plugin string) []string {
	base := s.docs[plugin][s.fallback]
	ids := make([]string, 0, len(base))
	for id := range base {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Label returns the sidebar label of a doc in locale, or "".
func (s *Store) Label(plugin, locale, id string) string {
	d, err := s.Get(plugin, locale, id)
	if err != nil {
		return ""
	}
	return d.Label()
}
