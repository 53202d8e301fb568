package catalog

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"testing"
	"testing/fstest"
)

func testTable() Table {
	return Table{
		{ID: "dw200", ImageRef: "img/devices/DW200.png", ActionURL: "https://shop.example.com/dw200"},
		{ID: "vf105", ImageRef: "img/devices/VF105.png", ActionURL: "https://"},
		{ID: "m350", ImageRef: "", ActionURL: ""},
	}
}

func testContent() Content {
	return Content{
		"en": {
			Page: PageText{Heading: "Compatible Devices", ActionLabel: "Purchase Now"},
			Items: map[string]Entry{
				"dw200": {Title: "DW200", Description: "Multi-functional board"},
				"vf105": {Title: "VF105", Description: "Face recognition board"},
				"m350":  {Title: "M350", Description: "Industrial scanner"},
				"ghost": {Title: "Unused"},
			},
		},
		"zh": {
			Page: PageText{Heading: "兼容设备"},
			Items: map[string]Entry{
				"dw200": {Title: "DW200", Description: "多功能主板"},
			},
		},
	}
}

func TestResolvePreservesCountAndOrder(t *testing.T) {
	table := testTable()
	content := testContent()
	for _, locale := range []string{"en", "zh", "fr", ""} {
		res := Resolve(locale, "en", table, content)
		if len(res.Items) != len(table) {
			t.Fatalf("Resolve(%q) returned %d items, want %d", locale, len(res.Items), len(table))
		}
		for i, it := range res.Items {
			if it.ID != table[i].ID {
				t.Errorf("Resolve(%q) item %d = %q, want %q", locale, i, it.ID, table[i].ID)
			}
		}
	}
}

func TestResolveFallsBackWholeTable(t *testing.T) {
	res := Resolve("fr", "en", testTable(), testContent())
	if !res.FallbackUsed {
		t.Fatal("expected fallback to be used for unknown locale")
	}
	if res.ResolvedLocale != "en" || res.RequestedLocale != "fr" {
		t.Errorf("locales = %q/%q, want fr/en", res.RequestedLocale, res.ResolvedLocale)
	}
	if res.Page.Heading != "Compatible Devices" {
		t.Errorf("Page.Heading = %q", res.Page.Heading)
	}
	if res.Items[2].Title != "M350" {
		t.Errorf("Items[2].Title = %q, want M350", res.Items[2].Title)
	}
}

func TestResolveDoesNotBorrowPerField(t *testing.T) {
	// zh exists, so en must not fill the gaps.
	res := Resolve("zh", "en", testTable(), testContent())
	if res.FallbackUsed {
		t.Fatal("zh is present, fallback should not be used")
	}
	if res.Items[0].Description != "多功能主板" {
		t.Errorf("Items[0].Description = %q", res.Items[0].Description)
	}
	for _, it := range res.Items[1:] {
		if it.Title != "" || it.Description != "" {
			t.Errorf("item %s should have empty text, got %q/%q", it.ID, it.Title, it.Description)
		}
		if it.Translated {
			t.Errorf("item %s should not be marked translated", it.ID)
		}
	}
	if res.Page.ActionLabel != "" {
		t.Errorf("Page.ActionLabel = %q, want empty", res.Page.ActionLabel)
	}
}

func TestResolveMissingFallbackDegrades(t *testing.T) {
	res := Resolve("fr", "de", testTable(), testContent())
	if len(res.Items) != 3 {
		t.Fatalf("len = %d, want 3", len(res.Items))
	}
	for _, it := range res.Items {
		if it.Title != "" {
			t.Errorf("expected empty title, got %q", it.Title)
		}
	}
}

func TestResolveDoesNotShareSpecs(t *testing.T) {
	content := Content{"en": {Items: map[string]Entry{
		"dw200": {Title: "DW200", Specs: Specs{{Key: "os", Label: "OS", Value: "DejaOS2.0"}}},
	}}}
	res := Resolve("en", "en", Table{{ID: "dw200"}}, content)
	res.Items[0].Specs[0].Value = "changed"
	if content["en"].Items["dw200"].Specs[0].Value != "DejaOS2.0" {
		t.Fatal("Resolve leaked the content specs slice")
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{"ok", Table{{ID: "a"}, {ID: "b"}}, false},
		{"empty id", Table{{ID: "a"}, {ID: ""}}, true},
		{"duplicate", Table{{ID: "a"}, {ID: "a"}}, true},
	}
	for _, tt := range tests {
		err := tt.table.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	res := Resolve("en", "en", testTable(), testContent())
	before := slices.Clone(res.Items)
	order := Shuffle(rand.New(rand.NewPCG(1, 2)))
	out := order(res.Items)

	if len(out) != len(res.Items) {
		t.Fatalf("len = %d, want %d", len(out), len(res.Items))
	}
	got := make([]string, len(out))
	for i, it := range out {
		got[i] = it.ID
	}
	slices.Sort(got)
	want := testTable().IDs()
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("shuffled ids = %v, want permutation of %v", got, want)
	}
	for i := range before {
		if before[i].ID != res.Items[i].ID {
			t.Fatal("Shuffle mutated its input")
		}
	}
}

func TestRandomOrderEventuallyDiffers(t *testing.T) {
	var table Table
	content := Content{"en": {Items: map[string]Entry{}}}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		table = append(table, Item{ID: id})
	}
	res := Resolve("en", "en", table, content)
	order := RandomOrder()
	first := NewGrid(res, order).IDs()
	for range 50 {
		if !slices.Equal(first, NewGrid(res, order).IDs()) {
			return
		}
	}
	t.Fatal("50 random orders were identical")
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog/devices.yaml": {Data: []byte(`
- id: dw200
  image: img/devices/DW200.png
  action_url: https://shop.example.com/dw200
- id: m350
  image: img/devices/M350.png
`)},
		"catalog/devices.i18n.json": {Data: []byte(`{
  "en": {
    "page": {"heading": "Devices"},
    "items": {
      "dw200": {"title": "DW200", "specs": {"os": {"label": "OS", "value": "DejaOS2.0"}}}
    }
  }
}`)},
	}
	c, err := Load(fsys, "catalog", "devices")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := c.Table.IDs(); !slices.Equal(got, []string{"dw200", "m350"}) {
		t.Errorf("ids = %v", got)
	}
	if c.Table[0].ActionURL != "https://shop.example.com/dw200" {
		t.Errorf("ActionURL = %q", c.Table[0].ActionURL)
	}
	missing := c.Missing()
	if !slices.Equal(missing["en"], []string{"m350"}) {
		t.Errorf("Missing()[en] = %v, want [m350]", missing["en"])
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"devices.yaml": {Data: []byte("- id: a\n- id: a\n")},
	}
	if _, err := LoadTable(fsys, "devices.yaml"); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestContentLocales(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`{"zh": {}, "en": {}}`), &c); err != nil {
		t.Fatal(err)
	}
	if got := c.Locales(); !slices.Equal(got, []string{"en", "zh"}) {
		t.Errorf("Locales() = %v", got)
	}
}
