package views

import (
	"encoding/json"
	"strings"

	"github.com/a-h/templ"
)

// PageTitle formats "<page> | <site>", or just the site title when the page
// has none of its own.
func PageTitle(page, site string) string {
	page = strings.TrimSpace(page)
	if page == "" || page == site {
		return site
	}
	return page + " | " + site
}

// Layout wraps body in the document shell: head, navbar and footer.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return component(func(h *writer) {
		h.raw("<!DOCTYPE html>\n<html")
		h.attr("lang", site.Locale)
		h.raw(">")
		h.render(head(site, meta))
		h.raw("<body>")
		h.render(Navbar(site))
		h.raw(`<main class="main-wrapper">`)
		h.render(body)
		h.raw("</main>")
		h.render(SiteFooter(site.Footer))
		h.raw("</body></html>")
	})
}

func head(site Site, meta PageMeta) templ.Component {
	return component(func(h *writer) {
		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		title := PageTitle(meta.Title, site.Title)
		h.element("title", "", title)
		description := meta.Description
		if description == "" {
			description = site.Tagline
		}
		metaTag(h, "name", "description", description)
		if len(meta.Keywords) > 0 {
			metaTag(h, "name", "keywords", strings.Join(meta.Keywords, ", "))
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		metaTag(h, "property", "og:title", title)
		metaTag(h, "property", "og:description", description)
		metaTag(h, "property", "og:type", ogType)
		metaTag(h, "property", "og:locale", site.Locale)
		if meta.URL != "" {
			metaTag(h, "property", "og:url", meta.URL)
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(">")
		}
		if meta.Image != "" {
			metaTag(h, "property", "og:image", meta.Image)
			metaTag(h, "name", "twitter:card", "summary_large_image")
		}
		for _, l := range site.Locales {
			h.raw(`<link rel="alternate"`)
			h.attr("hreflang", l.Locale)
			h.attr("href", strings.TrimRight(site.URL, "/")+l.Href)
			h.raw(">")
		}
		if site.Favicon != "" {
			h.raw(`<link rel="icon"`)
			h.attr("href", site.Favicon)
			h.raw(">")
		}
		h.raw(`<link rel="stylesheet" href="/assets/site.css">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", site.Title)
		h.raw(">")
		if meta.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`, meta.JSONLD, "</script>")
		}
		if site.GtagID != "" {
			h.render(gtag(site.GtagID, site.AnonymizeIP))
		}
		h.raw("</head>")
	})
}

func metaTag(h *writer, key, name, content string) {
	h.raw("<meta")
	h.attr(key, name)
	h.attr("content", content)
	h.raw(">")
}

func gtag(id string, anonymizeIP bool) templ.Component {
	return component(func(h *writer) {
		quoted, _ := json.Marshal(id)
		h.raw(`<script async`)
		h.attr("src", "https://www.googletagmanager.com/gtag/js?id="+id)
		h.raw("></script><script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',", string(quoted))
		if anonymizeIP {
			h.raw(",{anonymize_ip:true}")
		}
		h.raw(");</script>")
	})
}

// Navbar renders the top navigation with the locale switcher.
func Navbar(site Site) templ.Component {
	return component(func(h *writer) {
		h.raw(`<nav class="navbar" aria-label="Main"><div class="navbar__inner"><div class="navbar__items">`)
		h.raw(`<a class="navbar__brand"`)
		h.attr("href", site.HomeHref)
		h.raw(">")
		if site.LogoSrc != "" {
			h.raw("<img")
			h.attr("src", site.LogoSrc)
			h.attr("alt", site.LogoAlt)
			h.raw(` height="32">`)
		}
		h.element("b", "navbar__title", site.Title)
		h.raw("</a>")
		for _, it := range site.Navbar {
			if it.Position != "right" {
				navItem(h, it)
			}
		}
		h.raw(`</div><div class="navbar__items navbar__items--right">`)
		for _, it := range site.Navbar {
			if it.Position == "right" {
				navItem(h, it)
			}
		}
		if len(site.Locales) > 1 {
			h.raw(`<div class="navbar__locales">`)
			for _, l := range site.Locales {
				h.raw("<a")
				h.attr("href", l.Href)
				h.attr("hreflang", l.Locale)
				h.attr("lang", l.Locale)
				class := "navbar__locale"
				if l.Active {
					class += " navbar__locale--active"
					h.raw(` aria-current="true"`)
				}
				h.attr("class", class)
				h.raw(">")
				h.text(l.Label)
				h.raw("</a>")
			}
			h.raw("</div>")
		}
		h.raw("</div></div></nav>")
	})
}

func navItem(h *writer, it NavItem) {
	class := "navbar__item navbar__link"
	if it.ClassName != "" {
		class += " " + it.ClassName
	}
	if it.Active {
		class += " navbar__link--active"
	}
	h.raw("<a")
	h.attr("href", it.Href)
	h.attr("class", class)
	if it.AriaLabel != "" {
		h.attr("aria-label", it.AriaLabel)
	}
	if it.External {
		h.raw(` target="_blank" rel="noopener noreferrer"`)
	}
	if it.Active {
		h.raw(` aria-current="page"`)
	}
	h.raw(">")
	h.text(it.Label)
	h.raw("</a>")
}

// SiteFooter renders the footer override. A nil footer renders nothing.
func SiteFooter(f *Footer) templ.Component {
	return component(func(h *writer) {
		if f == nil {
			return
		}
		h.raw(`<footer class="footer footer--dark"><div class="container container-fluid"><div class="footer__bottom text--center">`)
		if f.Copyright != "" {
			h.element("div", "footer__copyright", f.Copyright)
		}
		if f.RecordText != "" || f.Company != "" {
			h.raw(`<div class="footer__beian">`)
			if f.RecordText != "" {
				h.externalLink(f.RecordURL, "footer__record", f.RecordText)
			}
			if f.Company != "" {
				h.element("span", "footer__company", f.Company)
			}
			h.raw("</div>")
		}
		h.raw("</div></div></footer>")
	})
}
