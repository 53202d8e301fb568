// Package dejasite serves the DejaOS documentation and marketing site with
// Echo and templ: localized device and showcase catalogs, docs with sidebars,
// a hosted-index search page, a SQLite-backed blog, and a static exporter.
//
// Pages are rendered through the ViewFuncs struct, so a site can replace any
// template while dejasite keeps the handlers, middleware and storage.
package dejasite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dejaos/dejasite/catalog"
	"github.com/dejaos/dejasite/scaffold"
	"github.com/dejaos/dejasite/search"
	"github.com/dejaos/dejasite/views"
)

// ViewFuncs holds the templ components the handlers render. Nil fields are
// filled from DefaultViews.
type ViewFuncs struct {
	Home           func(site views.Site, meta PageMeta, home views.Home) templ.Component
	Devices        func(site views.Site, meta PageMeta, grid *catalog.Grid) templ.Component
	Showcase       func(site views.Site, meta PageMeta, grid *catalog.Grid, cta views.ShowcaseCTA) templ.Component
	Search         func(site views.Site, meta PageMeta, v views.SearchView) templ.Component
	BlogList       func(site views.Site, meta PageMeta, list views.BlogList) templ.Component
	Post           func(site views.Site, meta PageMeta, post BlogPost, related []BlogPost, sidebar views.BlogSidebar) templ.Component
	Doc            func(site views.Site, meta PageMeta, v views.DocView) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []BlogPost, message string, csrfToken string) templ.Component
	AdminForm      func(post BlogPost, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
}

// DefaultViews returns the built-in components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.HomePage,
		Devices:        views.DevicesPage,
		Showcase:       views.ShowcasePage,
		Search:         views.SearchPage,
		BlogList:       views.BlogListPage,
		Post:           views.BlogPostPage,
		Doc:            views.DocPage,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminForm:      views.AdminForm,
		AdminImages:    views.AdminImages,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func (v *ViewFuncs) fill(def ViewFuncs) {
	if v.Home == nil {
		v.Home = def.Home
	}
	if v.Devices == nil {
		v.Devices = def.Devices
	}
	if v.Showcase == nil {
		v.Showcase = def.Showcase
	}
	if v.Search == nil {
		v.Search = def.Search
	}
	if v.BlogList == nil {
		v.BlogList = def.BlogList
	}
	if v.Post == nil {
		v.Post = def.Post
	}
	if v.Doc == nil {
		v.Doc = def.Doc
	}
	if v.AdminLogin == nil {
		v.AdminLogin = def.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = def.AdminDashboard
	}
	if v.AdminForm == nil {
		v.AdminForm = def.AdminForm
	}
	if v.AdminImages == nil {
		v.AdminImages = def.AdminImages
	}
	if v.NotFound == nil {
		v.NotFound = def.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = def.ServerError
	}
}

// App is the central application. It wires together the content, store,
// caches, handlers, middleware, and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *PostCache
	Views   ViewFuncs
	Logger  *zap.Logger
	Metrics *Metrics

	content       *Content
	siteFS        fs.FS
	prober        *ImageProber
	searcher      search.Searcher
	searchBackend search.Searcher
	searchCache   search.Cache
	showcaseOrder catalog.Orderer
	loginLimiter  *RateLimiter
	searchLimiter *RateLimiter
	customRoutes  []func(*App)
	closers       []func() error
	ready         bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	v.fill(DefaultViews())
	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		Views:   v,
		Logger:  zap.NewNop(),
		Metrics: NewMetrics(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	a.Config.setDefaults()
	return a
}

// Init loads content, opens the store, and registers middleware and routes.
// Start calls it; Export and tests call it directly.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Config.AdminPassword != "" && a.Config.SessionSecret == "" {
		return errors.New("dejasite: SessionSecret is required when AdminPassword is set")
	}

	fsys, err := a.contentFS()
	if err != nil {
		return err
	}
	content, err := LoadContent(fsys, a.Config)
	if err != nil {
		return err
	}
	a.content = content
	a.logMissing("devices", content.Devices)
	a.logMissing("showcase", content.Showcase)

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("dejasite: init store: %w", err)
	}
	a.Store = store
	a.closers = append(a.closers, store.Close)
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	a.prober = NewImageProber(os.DirFS(a.Config.StaticDir))
	if a.showcaseOrder == nil {
		a.showcaseOrder = catalog.RandomOrder()
	}
	if err := a.setupSearch(); err != nil {
		return err
	}

	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.searchLimiter = NewRateLimiter(a.Config.SearchLimit, time.Minute)
	a.closers = append(a.closers, func() error {
		a.loginLimiter.Stop()
		a.searchLimiter.Stop()
		return nil
	})

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// contentFS returns SiteDir, or the embedded default site when SiteDir is
// unset.
func (a *App) contentFS() (fs.FS, error) {
	if a.siteFS != nil {
		return a.siteFS, nil
	}
	if a.Config.SiteDir != "" {
		if _, err := os.Stat(a.Config.SiteDir); err != nil {
			return nil, fmt.Errorf("dejasite: site dir: %w", err)
		}
		return os.DirFS(a.Config.SiteDir), nil
	}
	return scaffold.Site()
}

// logMissing warns about catalog items lacking an entry, one line per
// locale in locale order.
func (a *App) logMissing(name string, cat *catalog.Catalog) {
	missing := cat.Missing()
	for _, locale := range cat.Content.Locales() {
		if ids := missing[locale]; len(ids) > 0 {
			a.Logger.Warn("catalog entries missing", zap.String("catalog", name), zap.String("locale", locale), zap.Strings("ids", ids))
		}
	}
}

func (a *App) setupSearch() error {
	backend := a.searchBackend
	if backend == nil {
		backend = search.NewClient(search.Config{
			AppID:       a.Config.Search.AppID,
			APIKey:      a.Config.Search.APIKey,
			IndexName:   a.Config.Search.IndexName,
			HitsPerPage: a.Config.Search.HitsPerPage,
		}, nil)
	}
	cache := a.searchCache
	if cache == nil && a.Config.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := search.DialRedis(ctx, a.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("dejasite: search cache: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		cache = search.NewRedisCache(client)
	}
	if cache == nil {
		cache = search.NewMemoryCache(512)
	}
	// Cache keys follow the backend's own index when it reports one.
	index := a.Config.Search.IndexName
	if ix, ok := backend.(interface{ Index() string }); ok {
		index = ix.Index()
	}
	a.searcher = &search.Cached{
		Searcher: backend,
		Cache:    cache,
		Index:    index,
		TTL:      a.Config.SearchCacheTTL,
		Observe:  a.Metrics.observeSearch,
	}
	return nil
}

// Start initializes the app and serves HTTP until the server is closed.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("listening", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or panics if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("dejasite: required environment variable %s is not set", key))
	}
	return v
}
