// Package server exposes the HTTP surface: a landing page, a health check
// backed by the quota database, and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CandleSage/internal/quota"
)

const landingPage = `<!DOCTYPE html>
<html>
<head><title>CandleSage</title></head>
<body style="font-family: sans-serif; max-width: 640px; margin: 40px auto;">
<h1>🕯️ CandleSage</h1>
<p>Technical-analysis predictions for crypto trading pairs, on Telegram.</p>
<p>Send a pair symbol like <code>BTCUSDT</code> to the bot and get direction,
confidence, support/resistance levels, and a risk rating.</p>
</body>
</html>`

// Server is the HTTP side of the bot process.
type Server struct {
	engine *gin.Engine
	httpd  *http.Server
	quota  quota.Store
}

// New builds the router. The gatherer serves /metrics; pass the quota store
// so /health can verify database connectivity.
func New(port int, store quota.Store, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		quota:  store,
		httpd: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: engine,
		},
	}

	engine.GET("/", s.handleLanding)
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

func (s *Server) handleLanding(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, landingPage)
}

func (s *Server) handleHealth(c *gin.Context) {
	dbStatus := "connected"
	status := "healthy"
	code := http.StatusOK
	if err := s.quota.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Run starts serving and blocks until the listener closes.
func (s *Server) Run() error {
	log.Printf("[INFO] HTTP server listening on %s", s.httpd.Addr)
	if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpd.Shutdown(ctx)
}
