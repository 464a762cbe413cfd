package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"github.com/sergiocarbajal421/portafolio/internal/config"
	"github.com/sergiocarbajal421/portafolio/internal/contact"
	"github.com/sergiocarbajal421/portafolio/internal/logger"
	"github.com/sergiocarbajal421/portafolio/internal/store"
)

// Submitter is the contact delivery pathway as seen by the http layer.
type Submitter interface {
	Submit(ctx context.Context, msg contact.Message) error
	InFlight() int64
}

type app struct {
	conf    *config.Config
	log     *zap.Logger
	contact Submitter
	store   *store.Store
	cookies *securecookie.SecureCookie

	// pending visit writes
	tracking sync.WaitGroup
}

func newApp(conf *config.Config, log *zap.Logger, submitter Submitter, st *store.Store) *app {
	hashKey := []byte(conf.Admin.HashKey)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	blockKey := []byte(conf.Admin.BlockKey)
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}
	cookies := securecookie.New(hashKey, blockKey)
	cookies.MaxAge(int(adminSessionTTL / time.Second))

	return &app{
		conf:    conf,
		log:     log,
		contact: submitter,
		store:   st,
		cookies: cookies,
	}
}

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.New(conf.Env, conf.Log.Dir)
	defer lg.Sync()

	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	salt := conf.DB.VisitorSalt
	if salt == "" {
		lg.Warn("VISITOR_SALT not set: unique visitor counts reset on restart")
		salt = string(securecookie.GenerateRandomKey(32))
	}
	st, err := store.Open(ctx, conf.DB.Path, salt)
	if err != nil {
		lg.Fatal("open database", zap.String("path", conf.DB.Path), zap.Error(err))
	}
	defer st.Close()

	transport := contact.NewSMTPTransport(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.User, conf.SMTP.Password)
	transport.Timeout = conf.SMTP.Timeout
	submitter := contact.NewHandler(conf.SMTP.User, conf.SMTP.To, transport, lg)
	submitter.SetRecorder(st)

	a := newApp(conf, lg, submitter, st)
	router := a.routes(conf.Site.MetricsEnabled)

	go a.retentionLoop(ctx, 24*time.Hour)

	server := &http.Server{
		Addr:              conf.Addr(),
		Handler:           a.protect(router),
		ErrorLog:          zap.NewStdLog(lg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", conf.Addr())
	if err != nil {
		lg.Fatal("listen", zap.String("address", conf.Addr()), zap.Error(err))
	}
	lg.Info("starting portfolio server",
		zap.String("address", conf.Addr()),
		zap.String("smtp_host", conf.SMTP.Host),
		zap.String("smtp_port", conf.SMTP.Port),
	)
	if err := a.serve(ctx, server, ln); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
	lg.Info("server stopped")
}

// serve runs server on ln until ctx is done. It returns only after running
// requests, contact attempts included, have drained and pending visit writes
// have landed, so the store can be closed safely afterwards.
func (a *app) serve(ctx context.Context, server *http.Server, ln net.Listener) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace(a.conf))
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("shutdown", zap.Error(err))
		}
	}()

	err := server.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	a.tracking.Wait()
	return nil
}

// shutdownGrace is how long shutdown waits for running requests. It outlasts
// the SMTP session timeout so a started contact attempt can resolve.
func shutdownGrace(conf *config.Config) time.Duration {
	grace := 30 * time.Second
	if t := conf.SMTP.Timeout + 5*time.Second; t > grace {
		grace = t
	}
	return grace
}

func (a *app) routes(metrics bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLogger(), a.securityHeaders(), a.visitorTracking())
	if metrics {
		ginprometheus.NewPrometheus("portafolio").Use(r)
	}

	r.LoadHTMLGlob("templates/*")
	r.Static("/static", "./static")

	// Home page route
	r.GET("/", a.home)

	r.GET("/healthz", func(c *gin.Context) {
		if err := a.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// CV download
	r.GET("/cv", func(c *gin.Context) {
		c.FileAttachment(a.conf.Site.ResumePath, filepath.Base(a.conf.Site.ResumePath))
	})

	// HTMX tab fragments
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{"experience": Experience})
	})
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{"education": Education})
	})

	a.setupContactRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

func (a *app) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"name":       Name,
		"headline":   Headline,
		"email":      Email,
		"about":      AboutMe,
		"roles":      Roles,
		"social":     SocialMedia,
		"stats":      QuickStats,
		"projects":   Projects,
		"skills":     Skills,
		"year":       time.Now().Year(),
	})
}

func (a *app) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
