package sidebar

import (
	"slices"
	"testing"
	"testing/fstest"
)

const modulesYAML = `
modules:
  Getting Started:
    - welcome
  Hardware Interfaces:
    - hardware/dxBarcode
    - hardware/dxCode
  DB:
    - db/dxSqlite
    - db/dxKeyValueDB
`

const changelogYAML = `
changelog:
  - welcome
  - type: category
    label: Release notes
    items:
      - release-notes/v2.1.0
      - release-notes/v2.0.0
  - type: link
    label: GitHub
    href: https://github.com/DejaOS/DejaOS
`

func TestParseShorthandKeepsOrder(t *testing.T) {
	trees, err := Parse([]byte(modulesYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(trees) != 1 || trees[0].Name != "modules" {
		t.Fatalf("trees = %+v", trees)
	}
	var labels []string
	for _, it := range trees[0].Items {
		if it.Kind != KindCategory {
			t.Errorf("item %q kind = %s, want category", it.Label, it.Kind)
		}
		labels = append(labels, it.Label)
	}
	want := []string{"Getting Started", "Hardware Interfaces", "DB"}
	if !slices.Equal(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
	ids := trees[0].Flatten()
	wantIDs := []string{"welcome", "hardware/dxBarcode", "hardware/dxCode", "db/dxSqlite", "db/dxKeyValueDB"}
	if !slices.Equal(ids, wantIDs) {
		t.Errorf("Flatten() = %v, want %v", ids, wantIDs)
	}
}

func TestParseExplicitItems(t *testing.T) {
	trees, err := Parse([]byte(changelogYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	items := trees[0].Items
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[0].Kind != KindDoc || items[0].ID != "welcome" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Kind != KindCategory || len(items[1].Items) != 2 {
		t.Errorf("items[1] = %+v", items[1])
	}
	if items[2].Kind != KindLink || items[2].Href == "" {
		t.Errorf("items[2] = %+v", items[2])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"- a\n- b\n",
		"docs:\n  - type: doc\n",
		"docs:\n  - type: widget\n    id: x\n",
		"docs:\n  - type: link\n    label: x\n",
	}
	for _, in := range tests {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestNeighbors(t *testing.T) {
	trees, _ := Parse([]byte(modulesYAML))
	tree := trees[0]
	prev, next := tree.Neighbors("hardware/dxCode")
	if prev != "hardware/dxBarcode" || next != "db/dxSqlite" {
		t.Errorf("Neighbors = %q, %q", prev, next)
	}
	prev, next = tree.Neighbors("welcome")
	if prev != "" || next != "hardware/dxBarcode" {
		t.Errorf("Neighbors(welcome) = %q, %q", prev, next)
	}
	if p, n := tree.Neighbors("missing"); p != "" || n != "" {
		t.Errorf("Neighbors(missing) = %q, %q", p, n)
	}
	if tree.First() != "welcome" {
		t.Errorf("First() = %q", tree.First())
	}
}

func TestRenderAutoCollapse(t *testing.T) {
	trees, _ := Parse([]byte(modulesYAML))
	nodes := trees[0].Render(RenderOptions{
		BasePath:     "/zh/modules",
		Current:      "db/dxSqlite",
		AutoCollapse: true,
		Label: func(id string) string {
			if id == "db/dxSqlite" {
				return "dxSqlite"
			}
			return ""
		},
	})
	if len(nodes) != 3 {
		t.Fatalf("len(nodes) = %d", len(nodes))
	}
	if nodes[0].Expanded || nodes[1].Expanded {
		t.Error("categories without the active doc should be collapsed")
	}
	db := nodes[2]
	if !db.Expanded || !db.Active {
		t.Error("DB category should be expanded and active")
	}
	if db.Children[0].Href != "/zh/modules/db/dxSqlite" {
		t.Errorf("href = %q", db.Children[0].Href)
	}
	if !db.Children[0].Active || db.Children[1].Active {
		t.Error("only dxSqlite should be active")
	}
	if db.Children[0].Label != "dxSqlite" || db.Children[1].Label != "dxKeyValueDB" {
		t.Errorf("labels = %q, %q", db.Children[0].Label, db.Children[1].Label)
	}
}

func TestRenderWithoutAutoCollapse(t *testing.T) {
	trees, _ := Parse([]byte(changelogYAML + "\n"))
	trees[0].Items[1].Collapsed = true
	nodes := trees[0].Render(RenderOptions{BasePath: "/changelog", Current: "welcome"})
	if nodes[1].Expanded {
		t.Error("collapsed category should stay collapsed")
	}
	if !nodes[2].External {
		t.Error("github link should be external")
	}
}

func TestSetLocaleReplacesWholeTree(t *testing.T) {
	fsys := fstest.MapFS{
		"sidebars/docs.yaml":         {Data: []byte("docs:\n  Getting Started:\n    - welcome\n    - requirements\n    - install\n")},
		"i18n/zh/sidebars/docs.yaml": {Data: []byte("docs:\n  开始使用:\n    - welcome\n")},
	}
	s := NewSet()
	if err := s.Load(fsys, "docs", "", "sidebars/docs.yaml"); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(fsys, "docs", "zh", LocalePath("zh", "sidebars/docs.yaml")); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(fsys, "docs", "fr", LocalePath("fr", "sidebars/docs.yaml")); err != nil {
		t.Fatalf("missing locale file should be ignored: %v", err)
	}
	zh, _ := s.For("docs", "zh")
	if got := zh.Flatten(); !slices.Equal(got, []string{"welcome"}) {
		t.Errorf("zh tree = %v", got)
	}
	fr, ok := s.For("docs", "fr")
	if !ok || len(fr.Flatten()) != 3 {
		t.Errorf("fr should fall back to default tree, got %v", fr.Flatten())
	}
	if _, ok := s.For("modules", "en"); ok {
		t.Error("unknown plugin should not resolve")
	}
}
