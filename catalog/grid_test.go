package catalog

import "testing"

func TestNewGridInitialImageState(t *testing.T) {
	g := NewGrid(Resolve("en", "en", testTable(), testContent()), nil)
	want := []ImageState{ImageShown, ImageShown, PlaceholderShown}
	for i, c := range g.Cards {
		if c.Image() != want[i] {
			t.Errorf("card %s image = %s, want %s", c.ID, c.Image(), want[i])
		}
	}
}

func TestImageFailedOnlyAffectsOneCard(t *testing.T) {
	g := NewGrid(Resolve("en", "en", testTable(), testContent()), Identity)
	g.Cards[1].ImageFailed()
	if g.Cards[1].Image() != PlaceholderShown {
		t.Fatal("failed card should show placeholder")
	}
	if g.Cards[0].Image() != ImageShown {
		t.Fatal("sibling card must keep its image")
	}
	// one way only
	g.Cards[1].ImageFailed()
	if g.Cards[1].Image() != PlaceholderShown {
		t.Fatal("placeholder state must be terminal")
	}
}

func TestGridProbe(t *testing.T) {
	g := NewGrid(Resolve("en", "en", testTable(), testContent()), nil)
	g.Probe(func(ref string) bool { return ref != "img/devices/VF105.png" })
	if g.Cards[0].Image() != ImageShown {
		t.Error("dw200 image should still be shown")
	}
	if g.Cards[1].Image() != PlaceholderShown {
		t.Error("vf105 image should be replaced by placeholder")
	}
}

func TestActionURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"https://", false},
		{"https://x", true},
		{"http://54.196.161.216/product/fc6820/", true},
		{"/relative/path", false},
		{"javascript:alert(1)", false},
		{"ftp://example.com/file", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		_, ok := ActionURL(tt.raw)
		if ok != tt.want {
			t.Errorf("ActionURL(%q) ok = %v, want %v", tt.raw, ok, tt.want)
		}
	}
}

func TestCardAction(t *testing.T) {
	g := NewGrid(Resolve("en", "en", testTable(), testContent()), nil)
	if u, ok := g.Cards[0].Action(); !ok || u != "https://shop.example.com/dw200" {
		t.Errorf("dw200 Action() = %q, %v", u, ok)
	}
	if _, ok := g.Cards[1].Action(); ok {
		t.Error("placeholder https:// should not produce an action")
	}
	if _, ok := g.Cards[2].Action(); ok {
		t.Error("empty action url should not produce an action")
	}
}
