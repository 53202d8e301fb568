package dejasite

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitePaths lists every public page path in every locale: home, catalogs,
// search, blog pages, posts and docs. lastmod maps a path to its post date.
func (a *App) sitePaths() (paths []string, lastmod map[string]string, err error) {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return nil, nil, err
	}
	_, pages, err := a.Cache.Page(1, a.Config.Blog.PostsPerPage)
	if err != nil {
		return nil, nil, err
	}

	lastmod = map[string]string{}
	for _, locale := range a.content.Bundle.Locales() {
		if !a.Config.blogOnly() {
			paths = append(paths, a.localePath(locale, "/"))
		}
		paths = append(paths,
			a.localePath(locale, "/devices"),
			a.localePath(locale, "/showcase"),
			a.localePath(locale, "/search"),
			a.blogPath(locale, ""),
		)
		for n := 2; n <= pages; n++ {
			paths = append(paths, a.blogPath(locale, "/page/"+strconv.Itoa(n)))
		}
		for _, p := range posts {
			u := a.blogPath(locale, "/"+url.PathEscape(p.Slug))
			paths = append(paths, u)
			lastmod[u] = p.Date
		}
		for _, plugin := range a.content.Docs.Plugins() {
			base := a.docBase(locale, plugin)
			for _, id := range a.content.Docs.IDs(plugin.ID) {
				paths = append(paths, base+"/"+id)
			}
		}
	}
	return paths, lastmod, nil
}

func (a *App) sitemapURLs() ([]sitemapURL, error) {
	paths, lastmod, err := a.sitePaths()
	if err != nil {
		return nil, err
	}
	priority := strconv.FormatFloat(a.Config.Sitemap.Priority, 'f', 1, 64)
	urls := make([]sitemapURL, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(a.Config.URL, p),
			LastMod:    lastmod[p],
			ChangeFreq: a.Config.Sitemap.Changefreq,
			Priority:   priority,
		})
	}
	return urls, nil
}

func writeXML(c echo.Context, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}
