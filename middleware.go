package postbrowser

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
	}))

	e.Use(
		a.requestLogger(),
		middleware.Recover(),
		middleware.GzipWithConfig(middleware.GzipConfig{
			Level:   5,
			Skipper: isAsset,
		}),
		a.secureHeaders(),
		session.Middleware(a.newSessionStore()),
		a.csrf(),
		cacheControlMiddleware,
	)
}

func isAsset(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/public/")
}

// requestLogger logs one line per request. Browse actions include the action
// name so a log reader can follow a visitor's view.
func (a *App) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics" || isAsset(c)
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Method == http.MethodPost && v.URI == "/browse" {
				c.Logger().Infof("%s %s action=%s -> %d (%s)", v.Method, v.URI, c.FormValue("action"), v.Status, v.Latency)
				return nil
			}
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}

// secureHeaders only allows same-origin scripts; the results script is
// served from /public. Featured images live on the content host, hence
// https: in img-src.
func (a *App) secureHeaders() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; connect-src 'self'",
		HSTSMaxAge:            31536000,
	})
}

// csrf protects POST /browse. The results script sends the token in a
// header; the no-script form posts it as _csrf.
func (a *App) csrf() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	})
}

// limitActions rejects browse actions from an IP over the configured rate.
func (a *App) limitActions(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.actionLimiter.Allow(c.RealIP()) {
			a.Metrics.rateLimited.Inc()
			return c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
		}
		return next(c)
	}
}

var cacheControls = map[string]string{
	"/":            "no-store",
	"/browse":      "no-store",
	"/healthz":     "no-store",
	"/metrics":     "no-store",
	"/sitemap.xml": "public, max-age=86400",
	"/feed.xml":    "public, max-age=86400",
	"/robots.txt":  "public, max-age=86400",
}

// cacheControlMiddleware keeps per-visitor pages (session and CSRF cookies)
// out of shared caches.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		value, ok := cacheControls[path]
		switch {
		case ok:
		case strings.HasPrefix(path, "/public/"):
			value = "public, max-age=31536000, immutable"
		default:
			value = "public, max-age=3600"
		}
		c.Response().Header().Set("Cache-Control", value)
		return next(c)
	}
}
