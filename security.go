package main

import (
	"net/http"

	"github.com/crewjam/csp"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

func (a *app) securityHeaders() gin.HandlerFunc {
	policy := csp.Header{
		DefaultSrc: []string{"'self'"},
		ScriptSrc:  []string{"'self'", "https://unpkg.com"},
		StyleSrc:   []string{"'self'", "'unsafe-inline'", "https://fonts.googleapis.com"},
		FontSrc:    []string{"'self'", "https://fonts.gstatic.com"},
		ImgSrc:     []string{"'self'", "data:", "https://img.icons8.com"},
	}.String()

	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", policy)
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// protect wraps the router with CSRF checks on unsafe methods. Without a
// configured key the router is served unwrapped.
func (a *app) protect(h http.Handler) http.Handler {
	if a.conf.Site.CSRFKey == "" {
		a.log.Warn("csrf protection disabled: CSRF_KEY not set")
		return h
	}
	return csrf.Protect([]byte(a.conf.Site.CSRFKey),
		csrf.Secure(a.conf.IsProduction()),
		csrf.FieldName("_csrf"),
		csrf.CookieName("portafolio_csrf"),
		csrf.Path("/"),
	)(h)
}
