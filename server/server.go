// Package server exposes an engine to the browser dashboard over HTTP.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/neurlang/quiver/dashboard"
	"github.com/neurlang/quiver/engine"
	"github.com/neurlang/quiver/log"
)

// DashboardDir is where the dashboard build is expected inside the html base dir.
const DashboardDir = "quiverboard/dist"

// Options configure the HTTP server.
type Options struct {
	Host string
	Port int
	// HTMLBaseDir holds quiverboard/dist; empty serves the embedded dashboard.
	HTMLBaseDir     string
	ShutdownTimeout time.Duration
}

// Server routes dashboard requests to the engine.
type Server struct {
	engine *engine.Engine
	opts   Options
	router *gin.Engine
	assets fs.FS
}

// ValidateDashboard checks that dir contains a dashboard build. The empty dir
// selects the embedded dashboard and is always valid.
func ValidateDashboard(dir string) error {
	if dir == "" {
		return nil
	}
	index := filepath.Join(dir, filepath.FromSlash(DashboardDir), "index.html")
	if _, err := os.Stat(index); err != nil {
		return errors.Wrapf(err, "html base dir %s must contain %s/index.html", dir, DashboardDir)
	}
	return nil
}

// New creates the server for e.
func New(e *engine.Engine, opts Options) (*Server, error) {
	if err := ValidateDashboard(opts.HTMLBaseDir); err != nil {
		return nil, err
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{engine: e, opts: opts}
	if opts.HTMLBaseDir == "" {
		s.assets = dashboard.Dist()
	} else {
		s.assets = os.DirFS(filepath.Join(opts.HTMLBaseDir, filepath.FromSlash(DashboardDir)))
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(), cors.Default())

	r.GET("/", s.home)
	r.GET("/temp-file/:path", s.tempFile)
	r.GET("/input-file/:path", s.inputFile)
	r.GET("/model", s.model)
	r.GET("/inputs", s.inputs)
	r.GET("/layer/:layer/:input", s.layer)
	r.GET("/predict/:input", s.predict)
	// every other path is a dashboard asset
	r.NoRoute(s.asset)
	s.router = r
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, fmt.Sprint(s.opts.Port))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("Start listening at: %s...", ln.Addr())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		log.Infof("Shutting down the server: %v", ctx.Err())
	}
	sctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve")
	}
	log.Infof("Server shut down")
	return nil
}
