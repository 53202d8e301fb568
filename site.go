package dejasite

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dejaos/dejasite/views"
)

// siteFor builds the locale-resolved layout settings for a request.
func (a *App) siteFor(c echo.Context) views.Site {
	locale := LocaleFrom(c)
	current := c.Request().URL.Path
	cfg := a.Config

	site := views.Site{
		Title:       cfg.Title,
		Tagline:     a.content.Bundle.T(locale, "site.tagline", cfg.Tagline),
		URL:         cfg.URL,
		Favicon:     cfg.Favicon,
		Locale:      locale,
		HomeHref:    a.localePath(locale, "/"),
		LogoSrc:     cfg.Navbar.Logo.Src,
		LogoAlt:     cfg.Navbar.Logo.Alt,
		GtagID:      cfg.Gtag.TrackingID,
		AnonymizeIP: cfg.Gtag.AnonymizeIP,
		Translate: func(id, def string) string {
			return a.content.Bundle.T(locale, id, def)
		},
	}

	for _, it := range cfg.Navbar.Items {
		label := it.Label
		if label != "" {
			label = a.content.Bundle.T(locale, "navbar.item.label."+it.Label, it.Label)
		}
		item := views.NavItem{
			Label:     label,
			ClassName: it.ClassName,
			AriaLabel: it.AriaLabel,
			Position:  it.Position,
		}
		if it.Href != "" {
			item.Href = it.Href
			item.External = true
		} else {
			item.Href = a.localePath(locale, "/"+strings.TrimPrefix(it.To, "/"))
			item.Active = navActive(current, it)
		}
		site.Navbar = append(site.Navbar, item)
	}

	for _, l := range a.content.Bundle.Locales() {
		label := l
		if lc, ok := cfg.I18n.LocaleConfigs[l]; ok && lc.Label != "" {
			label = lc.Label
		}
		site.Locales = append(site.Locales, views.LocaleLink{
			Locale: l,
			Label:  label,
			Href:   a.localePath(l, current),
			Active: l == locale,
		})
	}

	if f := cfg.Footer; f != nil {
		site.Footer = &views.Footer{
			Copyright:  a.content.Bundle.T(locale, "footer.copyright", f.Copyright),
			RecordText: f.Record.Text,
			RecordURL:  f.Record.URL,
			Company:    f.Company,
		}
	}
	return site
}

// navActive reports whether current is at or below the item's active base
// path. Without an explicit base path the target path is used.
func navActive(current string, it NavItemConfig) bool {
	base := it.ActiveBasePath
	if base == "" {
		base = it.To
	}
	base = "/" + strings.Trim(base, "/")
	if base == "/" {
		return current == "/"
	}
	return current == base || strings.HasPrefix(current, base+"/")
}

// pageMeta fills the canonical URL of the current page.
func (a *App) pageMeta(c echo.Context, meta views.PageMeta) views.PageMeta {
	if meta.URL == "" {
		meta.URL = BuildURL(a.Config.URL, a.localePath(LocaleFrom(c), c.Request().URL.Path))
	}
	return meta
}
