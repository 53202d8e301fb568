// Package sidebar parses documentation sidebar trees and renders them into
// navigation view models.
package sidebar

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the type of a sidebar entry.
type Kind string

const (
	KindDoc      Kind = "doc"
	KindLink     Kind = "link"
	KindCategory Kind = "category"
)

// Item is one sidebar entry.
type Item struct {
	Kind      Kind
	ID        string // doc id for KindDoc
	Label     string
	Href      string // KindLink
	Collapsed bool   // KindCategory
	Items     []Item // KindCategory
}

// Tree is a named sidebar.
type Tree struct {
	Name  string
	Items []Item
}

// ErrNoSidebar is returned when a document contains no sidebar.
var ErrNoSidebar = errors.New("sidebar: no sidebar defined")

// Parse reads a YAML document mapping sidebar names to item lists. Items can
// be a doc id, an explicit {type: doc|link|category} mapping, or the
// shorthand {"Category label": [items]}. Mapping order is preserved.
func Parse(data []byte) ([]Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sidebar: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrNoSidebar
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("sidebar: line %d: top level must be a mapping", root.Line)
	}
	var trees []Tree
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		items, err := parseItems(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", name, err)
		}
		trees = append(trees, Tree{Name: name, Items: items})
	}
	if len(trees) == 0 {
		return nil, ErrNoSidebar
	}
	return trees, nil
}

func parseItems(n *yaml.Node) ([]Item, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var out []Item
		for _, c := range n.Content {
			items, err := parseItem(c)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		}
		return out, nil
	case yaml.MappingNode:
		return parseShorthand(n)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("line %d: expected a list or mapping of items", n.Line)
}

// parseItem may expand a shorthand mapping into several categories.
func parseItem(n *yaml.Node) ([]Item, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		id := strings.TrimSpace(n.Value)
		if id == "" {
			return nil, fmt.Errorf("line %d: empty doc id", n.Line)
		}
		return []Item{{Kind: KindDoc, ID: id}}, nil
	case yaml.MappingNode:
		if hasKey(n, "type") {
			it, err := parseExplicit(n)
			if err != nil {
				return nil, err
			}
			return []Item{it}, nil
		}
		return parseShorthand(n)
	}
	return nil, fmt.Errorf("line %d: unsupported sidebar item", n.Line)
}

func parseShorthand(n *yaml.Node) ([]Item, error) {
	var out []Item
	for i := 0; i+1 < len(n.Content); i += 2 {
		label := n.Content[i].Value
		children, err := parseItems(n.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", label, err)
		}
		out = append(out, Item{Kind: KindCategory, Label: label, Items: children})
	}
	return out, nil
}

func parseExplicit(n *yaml.Node) (Item, error) {
	var raw struct {
		Type      string    `yaml:"type"`
		ID        string    `yaml:"id"`
		Label     string    `yaml:"label"`
		Href      string    `yaml:"href"`
		Collapsed bool      `yaml:"collapsed"`
		Items     yaml.Node `yaml:"items"`
	}
	if err := n.Decode(&raw); err != nil {
		return Item{}, err
	}
	switch Kind(raw.Type) {
	case KindDoc:
		if raw.ID == "" {
			return Item{}, fmt.Errorf("line %d: doc item needs an id", n.Line)
		}
		return Item{Kind: KindDoc, ID: raw.ID, Label: raw.Label}, nil
	case KindLink:
		if raw.Href == "" {
			return Item{}, fmt.Errorf("line %d: link item needs an href", n.Line)
		}
		return Item{Kind: KindLink, Label: raw.Label, Href: raw.Href}, nil
	case KindCategory:
		var children []Item
		if raw.Items.Kind != 0 {
			var err error
			children, err = parseItems(&raw.Items)
			if err != nil {
				return Item{}, fmt.Errorf("category %q: %w", raw.Label, err)
			}
		}
		return Item{Kind: KindCategory, Label: raw.Label, Collapsed: raw.Collapsed, Items: children}, nil
	}
	return Item{}, fmt.Errorf("line %d: unknown item type %q", n.Line, raw.Type)
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Flatten returns the doc ids of t in reading order.
func (t Tree) Flatten() []string {
	var ids []string
	var walk func([]Item)
	walk = func(items []Item) {
		for _, it := range items {
			switch it.Kind {
			case KindDoc:
				ids = append(ids, it.ID)
			case KindCategory:
				walk(it.Items)
			}
		}
	}
	walk(t.Items)
	return ids
}

// Neighbors returns the doc ids before and after id in reading order.
func (t Tree) Neighbors(id string) (prev, next string) {
	ids := t.Flatten()
	for i, v := range ids {
		if v != id {
			continue
		}
		if i > 0 {
			prev = ids[i-1]
		}
		if i+1 < len(ids) {
			next = ids[i+1]
		}
		return prev, next
	}
	return "", ""
}

// First returns the first doc id, or "".
func (t Tree) First() string {
	if ids := t.Flatten(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Set holds one default tree per docs plugin plus per-locale replacements.
type Set struct {
	trees map[string]map[string]Tree // plugin -> locale ("" is default) -> tree
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{trees: map[string]map[string]Tree{}}
}

// Add registers t for plugin in locale; locale "" is the default tree.
func (s *Set) Add(plugin, locale string, t Tree) {
	m := s.trees[plugin]
	if m == nil {
		m = map[string]Tree{}
		s.trees[plugin] = m
	}
	m[locale] = t
}

// For returns the locale's tree for plugin, or the default tree. Locale trees
// replace the default tree as a whole.
func (s *Set) For(plugin, locale string) (Tree, bool) {
	m := s.trees[plugin]
	if t, ok := m[locale]; ok && locale != "" {
		return t, true
	}
	t, ok := m[""]
	return t, ok
}

// Load reads the first sidebar of name into s for plugin and locale.
// A missing locale file is not an error.
func (s *Set) Load(fsys fs.FS, plugin, locale, name string) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		if locale != "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("sidebar: read %s: %w", name, err)
	}
	trees, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.Add(plugin, locale, trees[0])
	return nil
}

// LocalePath returns the conventional per-locale override path for a
// sidebar file.
func LocalePath(locale, name string) string {
	return path.Join("i18n", locale, name)
}
