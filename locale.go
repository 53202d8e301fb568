package dejasite

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	localeContextKey = "locale"
	localeCookieName = "locale"
)

// LocaleFrom returns the locale resolved for the request.
func LocaleFrom(c echo.Context) string {
	if l, ok := c.Get(localeContextKey).(string); ok {
		return l
	}
	return ""
}

// localeMiddleware strips a non-default locale prefix from the path before
// routing, so /zh/devices is served by the /devices route with locale "zh".
// A first visit to / is redirected once to the best Accept-Language match.
func (a *App) localeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		locale, rest := a.splitLocale(req.URL.Path)
		if locale != a.defaultLocale() {
			req.URL.Path = rest
			req.URL.RawPath = ""
		}
		c.Set(localeContextKey, locale)
		c.Response().Header().Set("Content-Language", locale)

		if locale == a.defaultLocale() && rest == "/" && req.Method == http.MethodGet {
			// The answer here depends on the visitor's language and cookie.
			c.Response().Header().Add(echo.HeaderVary, "Accept-Language")
			c.Response().Header().Add(echo.HeaderVary, echo.HeaderCookie)
			if _, err := req.Cookie(localeCookieName); err == http.ErrNoCookie {
				if want := a.content.Bundle.Match(req.Header.Get("Accept-Language")); want != locale {
					c.SetCookie(&http.Cookie{
						Name:     localeCookieName,
						Value:    want,
						Path:     "/",
						MaxAge:   365 * 24 * 60 * 60,
						SameSite: http.SameSiteLaxMode,
						Secure:   a.Config.CookieSecure,
					})
					return c.Redirect(http.StatusSeeOther, a.localePath(want, "/"))
				}
			}
		}
		return next(c)
	}
}

// splitLocale returns the locale named by the first path segment and the
// remaining path. Paths without a known prefix belong to the default locale.
func (a *App) splitLocale(p string) (string, string) {
	for _, l := range a.content.Bundle.Locales()[1:] {
		prefix := "/" + l
		if p == prefix {
			return l, "/"
		}
		if strings.HasPrefix(p, prefix+"/") {
			return l, strings.TrimPrefix(p, prefix)
		}
	}
	return a.defaultLocale(), p
}

func (a *App) defaultLocale() string {
	return a.content.Bundle.Fallback()
}

// localePath prefixes a site path with the locale segment, if any.
func (a *App) localePath(locale, p string) string {
	if p == "" {
		p = "/"
	}
	if locale == "" || locale == a.defaultLocale() {
		return p
	}
	if p == "/" {
		return "/" + locale
	}
	return "/" + locale + p
}

// t translates a UI string for the request locale.
func (a *App) t(c echo.Context, id, def string) string {
	return a.content.Bundle.T(LocaleFrom(c), id, def)
}
