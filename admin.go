// admin.go - privacy-conscious visitor tracking and the operator dashboard
package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminCookie     = "admin_session"
	adminSessionTTL = 24 * time.Hour
	// visitor rows older than this are removed for privacy compliance
	visitorRetention = 12 * 30 * 24 * time.Hour
)

// Middleware to check admin authentication
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(adminCookie)
		var user string
		if err == nil {
			err = a.cookies.Decode(adminCookie, raw, &user)
		}
		if err != nil || user != a.conf.Admin.Username {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for static files and admin pages
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") ||
			path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" || a.store == nil {
			c.Next()
			return
		}

		ip, ua, at := c.ClientIP(), c.GetHeader("User-Agent"), time.Now()
		a.tracking.Add(1)
		go func() {
			defer a.tracking.Done()
			if err := a.store.TrackVisit(context.Background(), ip, ua, path, at); err != nil {
				a.log.Warn("record visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// cleanupOldVisitorData drops visitor rows past the retention window.
func (a *app) cleanupOldVisitorData(ctx context.Context) {
	n, err := a.store.CleanupVisitors(ctx, time.Now().Add(-visitorRetention))
	if err != nil {
		a.log.Error("cleanup visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		a.log.Info("privacy cleanup", zap.Int64("removed", n))
	}
}

func (a *app) retentionLoop(ctx context.Context, every time.Duration) {
	a.cleanupOldVisitorData(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.cleanupOldVisitorData(ctx)
		}
	}
}

func (a *app) checkAdminPassword(username, password string) bool {
	if a.conf.Admin.PasswordHash == "" {
		a.log.Warn("admin login disabled: ADMIN_PASSWORD_HASH not set")
		return false
	}
	if username != a.conf.Admin.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.conf.Admin.PasswordHash), []byte(password)) == nil
}

func (a *app) adminStats(c *gin.Context) (gin.H, bool) {
	stats, err := a.store.Stats(c.Request.Context(), time.Now())
	if err != nil {
		a.log.Error("load admin stats", zap.Error(err))
		return nil, false
	}
	return gin.H{"stats": stats, "in_flight": a.contact.InFlight()}, true
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Política de privacidad",
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title":     "Admin Login",
			"csrfField": csrf.TemplateField(c.Request),
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		who := a.store.HashIP(c.ClientIP())

		if !a.checkAdminPassword(username, password) {
			a.log.Warn("failed admin login", zap.String("from", who))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"error":     "Credenciales inválidas",
				"csrfField": csrf.TemplateField(c.Request),
			})
			return
		}

		encoded, err := a.cookies.Encode(adminCookie, username)
		if err != nil {
			a.log.Error("encode admin session", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "No se pudo iniciar sesión",
			})
			return
		}
		c.SetCookie(adminCookie, encoded, int(adminSessionTTL/time.Second), "/admin", "", a.conf.IsProduction(), true)
		a.log.Info("admin login", zap.String("from", who))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", a.conf.IsProduction(), true)
		a.log.Info("admin logout", zap.String("from", a.store.HashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		data, ok := a.adminStats(c)
		if !ok {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "No se pudieron cargar las estadísticas",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", data)
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		data, ok := a.adminStats(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, data)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.log.Error("load visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "No se pudieron cargar los visitantes",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		a.cleanupOldVisitorData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		data, ok := a.adminStats(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info("admin stats exported", zap.String("by", a.store.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, data)
	})
}
