package dejasite

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const sessionName = "admin_session"

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://www.googletagmanager.com https://buttons.github.io; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' https: data:; " +
	"font-src 'self' data:; " +
	"connect-src 'self' https://*.google-analytics.com https://*.analytics.google.com https://www.googletagmanager.com https://api.github.com; " +
	"frame-src https://www.youtube.com; " +
	"media-src 'self' data:"

// routeClass groups request paths that share caching, compression and
// instrumentation rules.
type routeClass int

const (
	classPage routeClass = iota
	classAsset
	classImage
	classFile
	classSearch
	classPrivate
)

func classify(p string) routeClass {
	switch {
	case strings.HasPrefix(p, "/assets/"):
		return classAsset
	case strings.HasPrefix(p, "/img/"), strings.HasPrefix(p, "/public/"):
		return classImage
	case p == "/sitemap.xml", p == "/feed.xml", p == "/robots.txt":
		return classFile
	case p == "/search":
		return classSearch
	case p == "/metrics", p == "/admin", strings.HasPrefix(p, "/admin/"):
		return classPrivate
	}
	return classPage
}

var cacheControl = map[routeClass]string{
	classPage:    "public, max-age=3600",
	classAsset:   "public, max-age=31536000, immutable",
	classImage:   "public, max-age=31536000, immutable",
	classFile:    "public, max-age=86400",
	classSearch:  "private, max-age=60",
	classPrivate: "no-store",
}

// skipClasses returns a Skipper matching requests in any of the classes.
func skipClasses(classes ...routeClass) middleware.Skipper {
	return func(c echo.Context) bool {
		rc := classify(c.Request().URL.Path)
		for _, k := range classes {
			if rc == k {
				return true
			}
		}
		return false
	}
}

func notAdmin(c echo.Context) bool {
	p := c.Request().URL.Path
	return p != "/admin" && !strings.HasPrefix(p, "/admin/")
}

func (a *App) setupMiddleware() {
	e := a.Echo
	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper:      skipClasses(classAsset, classImage),
	}))
	e.Pre(a.localeMiddleware)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(a.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: skipClasses(classImage),
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "dejasite",
		Registerer: a.Metrics.Registry,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || skipClasses(classAsset, classImage)(c)
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))
	if a.adminEnabled() {
		e.Use(a.adminMiddleware()...)
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", cacheControl[classify(c.Request().URL.Path)])
			return next(c)
		}
	})
}

func (a *App) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := a.Logger.Info
			if v.Status >= http.StatusInternalServerError {
				log = a.Logger.Error
			}
			log("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("locale", LocaleFrom(c)),
				zap.Error(v.Error),
			)
			return nil
		},
	})
}

// adminMiddleware scopes the session cookie and CSRF checks to /admin.
func (a *App) adminMiddleware() []echo.MiddlewareFunc {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/admin",
		HttpOnly: true,
		MaxAge:   12 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return []echo.MiddlewareFunc{
		session.MiddlewareWithConfig(session.Config{Skipper: notAdmin, Store: store}),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        notAdmin,
			TokenLookup:    "header:X-CSRF-Token,form:_csrf",
			ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
			CookieName:     "_csrf",
			CookiePath:     "/admin",
			CookieSameSite: http.SameSiteLaxMode,
			CookieSecure:   a.Config.CookieSecure,
			ErrorHandler: func(err error, c echo.Context) error {
				return c.String(http.StatusForbidden, "Forbidden")
			},
		}),
	}
}

func (a *App) adminEnabled() bool {
	return a.Config.AdminPassword != ""
}

// IsAdmin reports whether the request carries a logged-in admin session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values["authenticated"].(bool)
	return auth
}

// saveAdminSession marks the session logged in, or expires it.
func saveAdminSession(c echo.Context, loggedIn bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if loggedIn {
		sess.Values["authenticated"] = true
	} else {
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken returns the CSRF token the middleware stored for this request.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
