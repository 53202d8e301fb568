package dejasite

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dejaos/dejasite/catalog"
	"github.com/dejaos/dejasite/docs"
	"github.com/dejaos/dejasite/search"
)

// SiteConfig holds all configuration for a site. The yaml fields mirror
// site.yaml; the rest come from the environment.
type SiteConfig struct {
	Title            string `yaml:"title"`
	Tagline          string `yaml:"tagline"`
	URL              string `yaml:"url"`
	BaseURL          string `yaml:"baseUrl"`
	Favicon          string `yaml:"favicon"`
	OrganizationName string `yaml:"organizationName"`
	ProjectName      string `yaml:"projectName"`

	Navbar       NavbarConfig   `yaml:"navbar"`
	Footer       *FooterConfig  `yaml:"footer"`
	Search       SearchConfig   `yaml:"search"`
	Gtag         GtagConfig     `yaml:"gtag"`
	Blog         BlogConfig     `yaml:"blog"`
	Sitemap      SitemapConfig  `yaml:"sitemap"`
	Docs         DocsConfig     `yaml:"docs"`
	I18n         I18nConfig     `yaml:"i18n"`
	CustomFields CustomFields   `yaml:"customFields"`
	Showcase     ShowcaseConfig `yaml:"showcase"`

	Addr           string        `yaml:"-"` // Listen address (default ":3000")
	DatabasePath   string        `yaml:"-"` // SQLite path (default "data/blog.db")
	SiteDir        string        `yaml:"-"` // Content directory; empty uses the embedded defaults
	StaticDir      string        `yaml:"-"` // Images and uploads (default "static")
	ThumbDir       string        `yaml:"-"` // Thumbnail cache (default "data/thumbs")
	AdminPassword  string        `yaml:"-"` // Empty disables the admin area
	SessionSecret  string        `yaml:"-"` // Required when AdminPassword is set
	CookieSecure   bool          `yaml:"-"` // Set true for HTTPS
	RedisURL       string        `yaml:"-"` // Search result cache; empty keeps it in memory
	PostCacheTTL   time.Duration `yaml:"-"` // Post cache TTL (default 5min)
	SearchCacheTTL time.Duration `yaml:"-"` // Search result TTL (default 10min)
	SearchLimit    int           `yaml:"-"` // Search queries per IP per minute (default 30)
}

// NavbarConfig is the top navigation.
type NavbarConfig struct {
	Logo  LogoConfig      `yaml:"logo"`
	Items []NavItemConfig `yaml:"items"`
}

// LogoConfig is the navbar brand image.
type LogoConfig struct {
	Alt string `yaml:"alt"`
	Src string `yaml:"src"`
}

// NavItemConfig is one navbar entry. To is a site path and gets the locale
// prefix; Href is external and opens in a new tab.
type NavItemConfig struct {
	To             string `yaml:"to"`
	Href           string `yaml:"href"`
	Label          string `yaml:"label"`
	Position       string `yaml:"position"`
	ActiveBasePath string `yaml:"activeBasePath"`
	ClassName      string `yaml:"className"`
	AriaLabel      string `yaml:"aria-label"`
}

// FooterConfig is the footer override. A nil footer is not rendered.
type FooterConfig struct {
	Copyright string       `yaml:"copyright"`
	Record    RecordConfig `yaml:"record"`
	Company   string       `yaml:"company"`
}

// RecordConfig is the ICP filing link.
type RecordConfig struct {
	Text string `yaml:"text"`
	URL  string `yaml:"url"`
}

// SearchConfig identifies the hosted search index. The API key is the
// public search-only key.
type SearchConfig struct {
	AppID       string `yaml:"appId"`
	APIKey      string `yaml:"apiKey"`
	IndexName   string `yaml:"indexName"`
	HitsPerPage int    `yaml:"hitsPerPage"`
}

// GtagConfig enables Google Analytics.
type GtagConfig struct {
	TrackingID  string `yaml:"trackingID"`
	AnonymizeIP bool   `yaml:"anonymizeIP"`
}

// BlogConfig configures the blog list.
type BlogConfig struct {
	RouteBasePath   string `yaml:"routeBasePath"`
	Title           string `yaml:"blogTitle"`
	Description     string `yaml:"blogDescription"`
	SidebarTitle    string `yaml:"blogSidebarTitle"`
	ShowReadingTime bool   `yaml:"showReadingTime"`
	PostsPerPage    int    `yaml:"postsPerPage"`
}

// SitemapConfig is applied to every sitemap entry.
type SitemapConfig struct {
	Changefreq string  `yaml:"changefreq"`
	Priority   float64 `yaml:"priority"`
}

// DocsConfig lists the documentation plugins.
type DocsConfig struct {
	AutoCollapseCategories bool          `yaml:"autoCollapseCategories"`
	Plugins                []docs.Plugin `yaml:"plugins"`
}

// I18nConfig lists the site locales. The default locale has no URL prefix.
type I18nConfig struct {
	DefaultLocale string                  `yaml:"defaultLocale"`
	Locales       []string                `yaml:"locales"`
	LocaleConfigs map[string]LocaleConfig `yaml:"localeConfigs"`
}

// LocaleConfig holds per-locale display settings.
type LocaleConfig struct {
	Label string `yaml:"label"`
}

// CustomFields carries homepage metadata.
type CustomFields struct {
	Keywords []string `yaml:"keywords"`
	Image    string   `yaml:"image"`
}

// ShowcaseConfig is the call to action under the showcase grid.
type ShowcaseConfig struct {
	CTAURL   string `yaml:"ctaUrl"`
	CTAImage string `yaml:"ctaImage"`
}

// LoadConfig reads name from fsys and applies environment overrides.
func LoadConfig(fsys fs.FS, name string) (SiteConfig, error) {
	var cfg SiteConfig
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return cfg, fmt.Errorf("dejasite: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("dejasite: parse %s: %w", name, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *SiteConfig) ApplyEnv() {
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Addr = EnvOr("ADDR", c.Addr)
	c.DatabasePath = EnvOr("DATABASE_PATH", c.DatabasePath)
	c.SiteDir = EnvOr("SITE_DIR", c.SiteDir)
	c.StaticDir = EnvOr("STATIC_DIR", c.StaticDir)
	c.AdminPassword = EnvOr("ADMIN_PASSWORD", c.AdminPassword)
	c.SessionSecret = EnvOr("ADMIN_SESSION_SECRET", c.SessionSecret)
	c.Search.APIKey = EnvOr("ALGOLIA_API_KEY", c.Search.APIKey)
	c.RedisURL = EnvOr("REDIS_URL", c.RedisURL)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		c.CookieSecure, _ = strconv.ParseBool(v)
	}
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "DejaOS"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.ThumbDir == "" {
		c.ThumbDir = "data/thumbs"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.SearchCacheTTL == 0 {
		c.SearchCacheTTL = 10 * time.Minute
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 30
	}
	if c.Search.HitsPerPage <= 0 {
		c.Search.HitsPerPage = search.DefaultHitsPerPage
	}
	if c.Blog.RouteBasePath == "" {
		c.Blog.RouteBasePath = "blog"
	}
	if c.Blog.Title == "" {
		c.Blog.Title = "Blog"
	}
	if c.Blog.PostsPerPage <= 0 {
		c.Blog.PostsPerPage = 10
	}
	if c.Sitemap.Changefreq == "" {
		c.Sitemap.Changefreq = "weekly"
	}
	if c.Sitemap.Priority == 0 {
		c.Sitemap.Priority = 0.5
	}
	if c.I18n.DefaultLocale == "" {
		c.I18n.DefaultLocale = "en"
	}
	if len(c.I18n.Locales) == 0 {
		c.I18n.Locales = []string{c.I18n.DefaultLocale}
	}
	if len(c.Docs.Plugins) == 0 {
		c.Docs.Plugins = []docs.Plugin{{ID: "docs", Path: "docs", RouteBasePath: "docs", Sidebar: "sidebars/docs.yaml"}}
	}
	for i := range c.Docs.Plugins {
		p := &c.Docs.Plugins[i]
		if p.Path == "" {
			p.Path = p.ID
		}
		if p.RouteBasePath == "" {
			p.RouteBasePath = p.ID
		}
	}
}

// blogOnly reports whether the blog is mounted at the site root.
func (c *SiteConfig) blogOnly() bool {
	return strings.Trim(c.Blog.RouteBasePath, "/") == ""
}

// blogBase is the blog path without a trailing slash, "" when blogOnly.
func (c *SiteConfig) blogBase() string {
	if c.blogOnly() {
		return ""
	}
	return "/" + strings.Trim(c.Blog.RouteBasePath, "/")
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for images and uploads (default "static").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithSiteFS reads site content (site config, sidebars, docs, catalogs,
// message catalogs) from fsys instead of SiteDir.
func WithSiteFS(fsys fs.FS) Option {
	return func(a *App) {
		a.siteFS = fsys
	}
}

// WithLogger sets the application logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// WithSearcher replaces the hosted search client, e.g. in tests.
func WithSearcher(s search.Searcher) Option {
	return func(a *App) {
		a.searchBackend = s
	}
}

// WithSearchCache replaces the search result cache.
func WithSearchCache(c search.Cache) Option {
	return func(a *App) {
		a.searchCache = c
	}
}

// WithOrderer sets the showcase display order. The default shuffles on
// every render.
func WithOrderer(o catalog.Orderer) Option {
	return func(a *App) {
		a.showcaseOrder = o
	}
}
