package dejasite

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dejaos/dejasite/catalog"
	"github.com/dejaos/dejasite/docs"
	"github.com/dejaos/dejasite/search"
	"github.com/dejaos/dejasite/sidebar"
	"github.com/dejaos/dejasite/views"
)

const (
	searchPagerWindow = 10
	blogSidebarCount  = 5
)

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "assets")
	e.StaticFS("/assets", assets)
	e.GET("/img/thumb/:width/*", a.handleThumb)
	e.Static("/img", filepath.Join(a.Config.StaticDir, "img"))
	e.Static("/public", a.Config.StaticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.Metrics.Registry,
	}))

	if !a.Config.blogOnly() {
		e.GET("/", a.handleHome)
	}
	e.GET("/devices", a.handleDevices)
	e.GET("/showcase", a.handleShowcase)
	e.GET("/search", a.handleSearch)

	blog := a.Config.blogBase()
	e.GET(orRoot(blog), a.handleBlogList)
	e.GET(blog+"/page/:n", a.handleBlogPage)
	e.GET(blog+"/tags/:tag", a.handleBlogTag)
	e.GET(blog+"/:slug", a.handlePost)

	for _, p := range a.content.Docs.Plugins() {
		base := "/" + strings.Trim(p.RouteBasePath, "/")
		e.GET(base, a.handleDocsIndex(p))
		e.GET(base+"/*", a.handleDoc(p))
	}

	if a.adminEnabled() {
		a.setupAdminRoutes()
	}
}

func orRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func (a *App) handleHome(c echo.Context) error {
	locale := LocaleFrom(c)
	site := a.siteFor(c)
	meta := a.pageMeta(c, PageMeta{
		Description: site.Tagline,
		Keywords:    a.Config.CustomFields.Keywords,
		JSONLD:      views.WebsiteJsonLD(site),
	})
	if img := a.Config.CustomFields.Image; img != "" {
		meta.Image = BuildURL(a.Config.URL, img)
	}
	return Render(c, a.Views.Home(site, meta, a.homeContent(locale)))
}

// catalogGrid resolves a catalog for the request locale, orders it and marks
// cards whose local image cannot be used.
func (a *App) catalogGrid(c echo.Context, name string, cat *catalog.Catalog, order catalog.Orderer) *catalog.Grid {
	res := cat.Resolve(LocaleFrom(c), a.defaultLocale())
	if res.FallbackUsed {
		a.Logger.Debug("catalog locale fallback",
			zap.String("catalog", name),
			zap.String("requested", res.RequestedLocale),
			zap.String("resolved", res.ResolvedLocale))
	}
	grid := catalog.NewGrid(res, order)
	grid.Probe(a.prober.Available)
	for _, card := range grid.Cards {
		if card.ImageRef != "" && card.Image() == catalog.PlaceholderShown {
			a.Metrics.ImageFallbackTotal.WithLabelValues(name).Inc()
		}
	}
	return grid
}

func (a *App) handleDevices(c echo.Context) error {
	grid := a.catalogGrid(c, "devices", a.content.Devices, catalog.Identity)
	meta := a.pageMeta(c, PageMeta{
		Title:       orDefault(grid.Page.Title, "Devices"),
		Description: grid.Page.Description,
	})
	return Render(c, a.Views.Devices(a.siteFor(c), meta, grid))
}

func (a *App) handleShowcase(c echo.Context) error {
	grid := a.catalogGrid(c, "showcase", a.content.Showcase, a.showcaseOrder)
	meta := a.pageMeta(c, PageMeta{
		Title:       orDefault(grid.Page.Title, "Showcase"),
		Description: grid.Page.Description,
	})
	cta := views.ShowcaseCTA{
		Title:       orDefault(grid.Page.CTATitle, a.t(c, "showcase.cta.title", "Want to add your project to the list?")),
		ButtonLabel: orDefault(grid.Page.CTAButton, a.t(c, "showcase.cta.button", "Open an issue on GitHub")),
		ButtonURL:   a.Config.Showcase.CTAURL,
	}
	if a.Config.Showcase.CTAImage != "" {
		cta.ImageURL = views.ImageSrc(a.Config.Showcase.CTAImage)
	}
	return Render(c, a.Views.Showcase(a.siteFor(c), meta, grid, cta))
}

func (a *App) handleSearch(c echo.Context) error {
	locale := LocaleFrom(c)
	q := strings.TrimSpace(c.QueryParam("q"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	page = max(page, 1)

	v := views.SearchView{
		Heading:     a.t(c, "search.heading", "Search Documentation"),
		Placeholder: a.t(c, "search.placeholder", "Type to search..."),
		Query:       q,
		EmptyText:   a.t(c, "search.empty", "Type something to start searching..."),
		NoResults:   a.t(c, "search.noResults", "No results found."),
	}
	meta := a.pageMeta(c, PageMeta{
		Title:       a.t(c, "search.title", "Search"),
		Description: a.t(c, "search.description", "Search DejaOS documentation"),
	})
	site := a.siteFor(c)

	if q == "" {
		return Render(c, a.Views.Search(site, meta, v))
	}
	if !a.searchLimiter.Allow(c.RealIP()) {
		a.Metrics.observeSearch("limited")
		v.Error = a.t(c, "search.limited", "Too many searches. Please wait a minute and try again.")
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.Search(site, meta, v))
	}

	res, err := a.searcher.Search(c.Request().Context(), search.Query{
		Text:        q,
		Page:        page - 1,
		HitsPerPage: a.Config.Search.HitsPerPage,
	})
	if err != nil {
		a.Logger.Error("search failed", zap.String("query", q), zap.Int("page", page), zap.Error(err))
		v.Error = a.t(c, "search.error", "Search is unavailable right now. Please try again later.")
		return Render(c, a.Views.Search(site, meta, v))
	}

	host := c.Request().Host
	v.Total = res.Total
	for _, h := range res.Hits {
		v.Hits = append(v.Hits, views.SearchHit{
			URL:       search.LocalizeURL(h.URL, host),
			Lvl0:      h.Hierarchy.Lvl0,
			Lvl2:      h.Hierarchy.Lvl2,
			TitleHTML: string(h.HighlightedTitle),
			TextHTML:  string(h.HighlightedText),
		})
	}
	base := a.localePath(locale, "/search")
	v.Pages = pageLinks(page, res.Pages, searchPagerWindow, func(n int) string {
		return base + "?q=" + url.QueryEscape(q) + "&page=" + strconv.Itoa(n)
	})
	return Render(c, a.Views.Search(site, meta, v))
}

// blogPath returns a blog path for locale; suffix starts with "/" or is empty.
func (a *App) blogPath(locale, suffix string) string {
	return a.localePath(locale, orRoot(a.Config.blogBase()+suffix))
}

// localizePosts returns copies of posts linking into the locale's blog.
func (a *App) localizePosts(locale string, posts []BlogPost) []BlogPost {
	out := make([]BlogPost, len(posts))
	for i, p := range posts {
		p.Link = a.blogPath(locale, "/"+url.PathEscape(p.Slug))
		out[i] = p
	}
	return out
}

// blogSidebar lists the newest posts for the current locale. current is the
// link of the post being viewed, or empty.
func (a *App) blogSidebar(c echo.Context, current string) (views.BlogSidebar, error) {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return views.BlogSidebar{}, err
	}
	posts = posts[:min(len(posts), blogSidebarCount)]
	return views.BlogSidebar{
		Title:   a.t(c, "blog.sidebar.title", orDefault(a.Config.Blog.SidebarTitle, "Recent posts")),
		Posts:   a.localizePosts(LocaleFrom(c), posts),
		Current: current,
	}, nil
}

func (a *App) blogList(c echo.Context, heading string, posts []BlogPost) (views.BlogList, error) {
	tags, err := a.Cache.Tags()
	if err != nil {
		return views.BlogList{}, err
	}
	sidebar, err := a.blogSidebar(c, "")
	if err != nil {
		return views.BlogList{}, err
	}
	locale := LocaleFrom(c)
	return views.BlogList{
		Heading:         heading,
		Posts:           a.localizePosts(locale, posts),
		NewerLabel:      a.t(c, "theme.blog.paginator.newerEntries", "Newer Entries"),
		OlderLabel:      a.t(c, "theme.blog.paginator.olderEntries", "Older Entries"),
		ShowReadingTime: a.Config.Blog.ShowReadingTime,
		ReadTimeFormat:  a.t(c, "theme.blog.post.readingTime", "%d min read"),
		Tags:            tags,
		TagsTitle:       a.t(c, "theme.tags.tagsPageTitle", "Tags"),
		TagBase:         a.blogPath(locale, "/tags") + "/",
		Sidebar:         sidebar,
	}, nil
}

func (a *App) blogMeta(c echo.Context) PageMeta {
	meta := PageMeta{Description: a.Config.Blog.Description}
	if !a.Config.blogOnly() {
		meta.Title = a.Config.Blog.Title
	}
	return a.pageMeta(c, meta)
}

func (a *App) handleBlogList(c echo.Context) error {
	return a.renderBlogPage(c, 1)
}

func (a *App) handleBlogPage(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return echo.ErrNotFound
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, a.blogPath(LocaleFrom(c), ""))
	}
	return a.renderBlogPage(c, n)
}

func (a *App) renderBlogPage(c echo.Context, n int) error {
	locale := LocaleFrom(c)
	posts, pages, err := a.Cache.Page(n, a.Config.Blog.PostsPerPage)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	list, err := a.blogList(c, a.t(c, "blog.heading", "Familiar Feeling. New Frontier"), posts)
	if err != nil {
		return err
	}
	switch {
	case n == 2:
		list.Newer = a.blogPath(locale, "")
	case n > 2:
		list.Newer = a.blogPath(locale, "/page/"+strconv.Itoa(n-1))
	}
	if n < pages {
		list.Older = a.blogPath(locale, "/page/"+strconv.Itoa(n+1))
	}
	return Render(c, a.Views.BlogList(a.siteFor(c), a.blogMeta(c), list))
}

func (a *App) handleBlogTag(c echo.Context) error {
	tag := c.Param("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return echo.ErrNotFound
	}
	heading := fmt.Sprintf(a.t(c, "theme.blog.tagTitle", "Posts tagged \"%s\""), tag)
	meta := a.pageMeta(c, PageMeta{Title: heading, Description: a.Config.Blog.Description})
	list, err := a.blogList(c, heading, posts)
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogList(a.siteFor(c), meta, list))
}

func (a *App) handlePost(c echo.Context) error {
	locale := LocaleFrom(c)
	post, err := a.Cache.GetPost(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	all, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	post.Link = a.blogPath(locale, "/"+url.PathEscape(post.Slug))
	related := a.localizePosts(locale, views.FilterRelatedPosts(post, all))
	sidebar, err := a.blogSidebar(c, post.Link)
	if err != nil {
		return err
	}

	site := a.siteFor(c)
	meta := a.pageMeta(c, PageMeta{
		Title:       post.Title,
		Description: post.Summary,
		OGType:      "article",
		Keywords:    post.Tags,
		JSONLD:      views.BlogPostingJsonLD(site, post),
	})
	return Render(c, a.Views.Post(site, meta, post, related, sidebar))
}

// handleDocsIndex redirects a plugin's base path to its first doc.
func (a *App) handleDocsIndex(p docs.Plugin) echo.HandlerFunc {
	return func(c echo.Context) error {
		locale := LocaleFrom(c)
		first := ""
		if tree, ok := a.content.Sidebars.For(p.ID, locale); ok {
			first = tree.First()
		}
		if first == "" {
			if ids := a.content.Docs.IDs(p.ID); len(ids) > 0 {
				first = ids[0]
			}
		}
		if first == "" {
			return echo.ErrNotFound
		}
		return c.Redirect(http.StatusFound, a.docBase(locale, p)+"/"+first)
	}
}

func (a *App) docBase(locale string, p docs.Plugin) string {
	return a.localePath(locale, "/"+strings.Trim(p.RouteBasePath, "/"))
}

func (a *App) handleDoc(p docs.Plugin) echo.HandlerFunc {
	return func(c echo.Context) error {
		locale := LocaleFrom(c)
		id := strings.Trim(c.Param("*"), "/")
		doc, err := a.content.Docs.Get(p.ID, locale, id)
		if errors.Is(err, docs.ErrNotFound) {
			return echo.ErrNotFound
		}
		if err != nil {
			return err
		}

		base := a.docBase(locale, p)
		label := func(id string) string { return a.content.Docs.Label(p.ID, locale, id) }
		v := views.DocView{
			Title:     doc.Title,
			ShowTitle: !doc.TitleInBody,
			HTML:      doc.HTML,
			PrevLabel: a.t(c, "theme.docs.paginator.previous", "Previous"),
			NextLabel: a.t(c, "theme.docs.paginator.next", "Next"),
		}
		if !doc.Translated && locale != a.defaultLocale() {
			v.Notice = a.t(c, "docs.untranslated", "This page has not been translated yet. You are reading the English version.")
		}
		if tree, ok := a.content.Sidebars.For(p.ID, locale); ok {
			v.Sidebar = tree.Render(sidebar.RenderOptions{
				BasePath:     base,
				Current:      id,
				AutoCollapse: a.Config.Docs.AutoCollapseCategories,
				Label:        label,
			})
			prev, next := tree.Neighbors(id)
			if prev != "" {
				v.Prev = &views.PagerLink{Label: label(prev), Href: base + "/" + prev}
			}
			if next != "" {
				v.Next = &views.PagerLink{Label: label(next), Href: base + "/" + next}
			}
		}

		meta := a.pageMeta(c, PageMeta{Title: doc.Title, Description: doc.Description})
		return Render(c, a.Views.Doc(a.siteFor(c), meta, v))
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	urls, err := a.sitemapURLs()
	if err != nil {
		return err
	}
	return writeXML(c, sitemapURLSet{XMLNS: sitemapNS, URLs: urls})
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	return a.writeRSS(c.Response(), posts)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, a.robots())
}

func (a *App) robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if a.adminEnabled() {
		b.WriteString("Disallow: /admin\n")
	}
	b.WriteString("Sitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n")
	return b.String()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteFor(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
		_ = RenderStatus(c, code, a.Views.ServerError(a.siteFor(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
