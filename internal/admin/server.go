// Package admin exposes the receiver's operational HTTP surface: health,
// readiness, and prometheus metrics. Telemetry events never pass through
// here; the data plane is TCP only.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/quantfeed/tickwire/internal/observability"
)

const version = "0.1.0"

type Server struct {
	node    string
	addr    string
	started time.Time
	router  *gin.Engine
}

func New(node, addr string, corsOrigins []string, logger zerolog.Logger) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(node))
	r.Use(cors.New(corsConfig(corsOrigins)))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		node:    node,
		addr:    addr,
		started: time.Now(),
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": s.node,
			"version": version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.started).String(),
			"service": s.node,
			"version": version,
		})
	})

	s.router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": s.node,
			"version": version,
			"uptime":  time.Since(s.started).String(),
			"stream":  observability.Snapshot(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if v := strings.TrimSpace(o); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	cfg := cors.Config{
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(cleaned) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = cleaned
	}
	return cfg
}
