package sidebar

import (
	"path"
	"strings"
)

// Node is a rendered sidebar entry.
type Node struct {
	Label    string
	Href     string
	Category bool
	Active   bool
	Expanded bool
	External bool
	Children []Node
}

// RenderOptions controls Render.
type RenderOptions struct {
	// BasePath is prefixed to doc ids, e.g. "/zh/modules".
	BasePath string
	// Current is the doc id being viewed.
	Current string
	// AutoCollapse expands only the categories leading to Current.
	AutoCollapse bool
	// Label returns the display label of a doc id; nil falls back to the
	// last path segment of the id.
	Label func(id string) string
}

// Render converts t into nodes with the active doc and expanded categories
// marked.
func (t Tree) Render(opts RenderOptions) []Node {
	nodes, _ := renderItems(t.Items, opts)
	return nodes
}

func renderItems(items []Item, opts RenderOptions) ([]Node, bool) {
	out := make([]Node, 0, len(items))
	anyActive := false
	for _, it := range items {
		switch it.Kind {
		case KindDoc:
			label := it.Label
			if label == "" {
				label = docLabel(it.ID, opts.Label)
			}
			active := it.ID == opts.Current
			anyActive = anyActive || active
			out = append(out, Node{
				Label:  label,
				Href:   joinPath(opts.BasePath, it.ID),
				Active: active,
			})
		case KindLink:
			out = append(out, Node{
				Label:    it.Label,
				Href:     it.Href,
				External: isExternal(it.Href),
			})
		case KindCategory:
			children, containsActive := renderItems(it.Items, opts)
			anyActive = anyActive || containsActive
			expanded := containsActive
			if !opts.AutoCollapse && !it.Collapsed {
				expanded = true
			}
			out = append(out, Node{
				Label:    it.Label,
				Category: true,
				Active:   containsActive,
				Expanded: expanded,
				Children: children,
			})
		}
	}
	return out, anyActive
}

func docLabel(id string, label func(string) string) string {
	if label != nil {
		if l := label(id); l != "" {
			return l
		}
	}
	return path.Base(id)
}

func joinPath(base, id string) string {
	return "/" + strings.Trim(path.Join(base, id), "/")
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}
