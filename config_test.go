package dejasite

import (
	"testing"
	"testing/fstest"
	"time"
)

const testSiteYAML = `
title: DejaOS
url: https://dejaos.github.io/
navbar:
  items:
    - to: devices
      label: Devices
      position: left
    - href: https://github.com/DejaOS/DejaOS
      label: GitHub
      position: right
footer:
  copyright: "Copyright 2025"
  record:
    text: 苏ICP备00000000号
    url: https://beian.miit.gov.cn/
blog:
  blogTitle: DejaOS Blog
  postsPerPage: 9
i18n:
  defaultLocale: en
  locales: [en, zh]
  localeConfigs:
    zh:
      label: 简体中文
docs:
  plugins:
    - id: modules
      sidebar: sidebars/modules.yaml
`

func TestLoadConfig(t *testing.T) {
	t.Setenv("SITE_URL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	fsys := fstest.MapFS{"site.yaml": {Data: []byte(testSiteYAML)}}

	cfg, err := LoadConfig(fsys, "site.yaml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.setDefaults()

	if cfg.URL != "https://dejaos.github.io" {
		t.Fatalf("URL = %q", cfg.URL)
	}
	if len(cfg.Navbar.Items) != 2 || cfg.Navbar.Items[1].Href == "" {
		t.Fatalf("navbar = %+v", cfg.Navbar.Items)
	}
	if cfg.Footer == nil || cfg.Footer.Record.URL != "https://beian.miit.gov.cn/" {
		t.Fatalf("footer = %+v", cfg.Footer)
	}
	if cfg.Blog.Title != "DejaOS Blog" || cfg.Blog.PostsPerPage != 9 || cfg.Blog.RouteBasePath != "blog" {
		t.Fatalf("blog = %+v", cfg.Blog)
	}
	if cfg.I18n.LocaleConfigs["zh"].Label != "简体中文" {
		t.Fatalf("locale configs = %+v", cfg.I18n.LocaleConfigs)
	}
	p := cfg.Docs.Plugins[0]
	if p.Path != "modules" || p.RouteBasePath != "modules" {
		t.Fatalf("plugin defaults not applied: %+v", p)
	}
	if cfg.Addr != ":3000" || cfg.PostCacheTTL != 5*time.Minute || cfg.SearchLimit != 30 {
		t.Fatalf("defaults not applied: addr=%q ttl=%v limit=%d", cfg.Addr, cfg.PostCacheTTL, cfg.SearchLimit)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SITE_URL", "http://localhost:8080")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	fsys := fstest.MapFS{"site.yaml": {Data: []byte(testSiteYAML)}}

	cfg, err := LoadConfig(fsys, "site.yaml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.URL != "http://localhost:8080" || cfg.AdminPassword != "secret" || !cfg.CookieSecure || cfg.RedisURL == "" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(fstest.MapFS{}, "site.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := fstest.MapFS{"site.yaml": {Data: []byte("title: [unclosed")}}
	if _, err := LoadConfig(bad, "site.yaml"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestBlogBase(t *testing.T) {
	tests := []struct {
		route    string
		base     string
		blogOnly bool
	}{
		{"blog", "/blog", false},
		{"/news/", "/news", false},
		{"/", "", true},
	}
	for _, tt := range tests {
		c := SiteConfig{Blog: BlogConfig{RouteBasePath: tt.route}}
		if got := c.blogBase(); got != tt.base {
			t.Fatalf("blogBase(%q) = %q, want %q", tt.route, got, tt.base)
		}
		if got := c.blogOnly(); got != tt.blogOnly {
			t.Fatalf("blogOnly(%q) = %v", tt.route, got)
		}
	}
}
