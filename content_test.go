package dejasite

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dejaos/dejasite/catalog"
	"github.com/dejaos/dejasite/scaffold"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImageProber(t *testing.T) {
	fsys := fstest.MapFS{
		"img/devices/dw200.png": {Data: pngBytes(t, 4, 3)},
		"img/devices/broken.png": {Data: []byte("not an image")},
		"img/logo.svg":           {Data: []byte("<svg/>")},
		"img/empty.svg":          {Data: nil},
	}
	p := NewImageProber(fsys)

	tests := []struct {
		ref  string
		want bool
	}{
		{"img/devices/dw200.png", true},
		{"/img/devices/dw200.png", true},
		{"img/devices/broken.png", false},
		{"img/devices/missing.png", false},
		{"img/logo.svg", true},
		{"img/empty.svg", false},
		{"https://cdn.example.com/x.png", true},
		{"", false},
		{"../../etc/passwd", false},
	}
	for _, tt := range tests {
		if got := p.Available(tt.ref); got != tt.want {
			t.Fatalf("Available(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}

	// Results are cached for the prober's lifetime.
	delete(fsys, "img/devices/dw200.png")
	if !p.Available("img/devices/dw200.png") {
		t.Fatalf("expected cached availability")
	}
}

func TestLoadContentFromEmbeddedSite(t *testing.T) {
	fsys, err := scaffold.Site()
	if err != nil {
		t.Fatalf("scaffold.Site: %v", err)
	}
	cfg, err := LoadConfig(fsys, "site.yaml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.setDefaults()
	content, err := LoadContent(fsys, cfg)
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}

	if got := content.Bundle.Locales(); len(got) != 2 || got[0] != "en" || got[1] != "zh" {
		t.Fatalf("locales = %v", got)
	}
	if len(content.Devices.Missing()) != 0 {
		t.Fatalf("devices catalog has missing entries: %v", content.Devices.Missing())
	}
	if len(content.Showcase.Missing()) != 0 {
		t.Fatalf("showcase catalog has missing entries: %v", content.Showcase.Missing())
	}
	for _, p := range cfg.Docs.Plugins {
		tree, ok := content.Sidebars.For(p.ID, "en")
		if !ok {
			t.Fatalf("no sidebar for %s", p.ID)
		}
		for _, id := range tree.Flatten() {
			if _, err := content.Docs.Get(p.ID, "en", id); err != nil {
				t.Fatalf("%s sidebar links %q with no document: %v", p.ID, id, err)
			}
		}
	}
}

func TestImageFallbackCounted(t *testing.T) {
	a := newTestApp(t, nil)
	serve(a, "/devices")
	body := serve(a, "/metrics").Body.String()
	want := fmt.Sprintf(`dejasite_catalog_image_fallback_total{catalog="devices"} %d`, len(a.content.Devices.Table))
	if !strings.Contains(body, want) {
		t.Fatalf("metrics missing %q", want)
	}
}

func TestLogMissingPerLocale(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := &App{Logger: zap.New(core)}
	cat := &catalog.Catalog{
		Table: catalog.Table{{ID: "a"}, {ID: "b"}},
		Content: catalog.Content{
			"zh": {Items: map[string]catalog.Entry{"a": {Title: "甲"}}},
			"en": {Items: map[string]catalog.Entry{"a": {Title: "A"}, "b": {Title: "B"}}},
			"fr": {},
		},
	}
	a.logMissing("showcase", cat)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d warnings, want 2", len(entries))
	}
	for i, want := range []string{"fr", "zh"} {
		fields := entries[i].ContextMap()
		if fields["catalog"] != "showcase" || fields["locale"] != want {
			t.Fatalf("warning %d = %v, want showcase/%s", i, fields, want)
		}
	}
	if ids := entries[1].ContextMap()["ids"]; fmt.Sprint(ids) != "[b]" {
		t.Fatalf("zh missing ids = %v, want [b]", ids)
	}
}
