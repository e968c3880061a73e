package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/slimvfd/internal/display"
	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/observability"
	"github.com/danmuck/slimvfd/internal/protocol/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	nodeID          = "slimvfd"
	version         = "0.1.0"
	shutdownTimeout = 5 * time.Second
)

var ErrBadKeyCode = errors.New("admin: bad key code")

// Source is the running client as seen by the admin surface.
type Source interface {
	Session() session.Snapshot
	Ready() bool
	Display() *display.Display
	SubmitKey(code uint32) error
}

// Server exposes health, metrics and display state over HTTP.
type Server struct {
	Addr     string
	Appeared time.Time

	src    Source
	router *gin.Engine
}

func New(addr string, corsOrigins []string, src Source) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(nodeID))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		Addr:     addr,
		Appeared: time.Now(),
		src:      src,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": nodeID,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		ready := s.src.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ready":   ready,
			"state":   s.src.Session().State,
			"uptime":  time.Since(s.Appeared).String(),
			"service": nodeID,
		})
	})

	s.router.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.src.Session())
	})

	s.router.GET("/display", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.src.Display().Snapshot())
	})

	s.router.GET("/display/slots/:slot", func(c *gin.Context) {
		slot, err := strconv.Atoi(c.Param("slot"))
		if err != nil || slot < 0 || slot >= font.Slots {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("slot must be 0-%d", font.Slots-1)})
			return
		}
		g := s.src.Display().Glyph(slot)
		rows := make([]int, len(g))
		for i, r := range g {
			rows[i] = int(r)
		}
		c.JSON(http.StatusOK, gin.H{
			"slot":   slot,
			"custom": slot < font.Custom,
			"rows":   rows,
			"sketch": font.Sketch(g),
		})
	})

	s.router.POST("/keys/:code", func(c *gin.Context) {
		code, err := ParseKeyCode(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.src.SubmitKey(code); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Debug().Uint32("code", code).Msg("admin key queued")
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "code": code})
	})
}

// Serve runs the HTTP server until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.Addr).Msg("admin listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("admin: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("admin shutdown")
		}
		return ctx.Err()
	}
}

func (s *Server) String() string {
	return "admin@" + s.Addr
}

// ParseKeyCode accepts a decimal or 0x-prefixed hexadecimal key code.
func ParseKeyCode(raw string) (uint32, error) {
	base := 10
	digits := raw
	if rest, ok := strings.CutPrefix(strings.ToLower(raw), "0x"); ok {
		base, digits = 16, rest
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil || digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrBadKeyCode, raw)
	}
	return uint32(v), nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
