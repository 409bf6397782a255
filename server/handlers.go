package server

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/neurlang/quiver/cache"
	"github.com/neurlang/quiver/engine"
	"github.com/neurlang/quiver/log"
)

// errNotFound is answered for unknown routes and missing files.
var errNotFound = errors.New("not found")

// status maps engine errors onto HTTP status codes.
func status(err error) int {
	switch errors.Cause(err) {
	case engine.ErrInvalidName, engine.ErrInvalidInput, cache.ErrInvalidName:
		return http.StatusBadRequest
	case engine.ErrInputNotFound, engine.ErrLayerNotFound, errNotFound:
		return http.StatusNotFound
	case context.Canceled, context.DeadlineExceeded:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

func (s *Server) home(c *gin.Context) {
	index, err := fs.ReadFile(s.assets, "index.html")
	if err != nil {
		abort(c, errors.Wrap(errNotFound, "dashboard index.html"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", index)
}

func (s *Server) asset(c *gin.Context) {
	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		abort(c, errors.Wrapf(errNotFound, "%s %s", c.Request.Method, c.Request.URL.Path))
		return
	}
	if !fs.ValidPath(name) {
		abort(c, errors.Wrapf(cache.ErrInvalidName, "%q", name))
		return
	}
	if st, err := fs.Stat(s.assets, name); err != nil || st.IsDir() {
		abort(c, errors.Wrapf(errNotFound, "%s", name))
		return
	}
	c.FileFromFS(name, http.FS(s.assets))
}

// serveFile answers with the file at path, or a JSON 404.
func serveFile(c *gin.Context, path string) {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		abort(c, errors.Wrapf(errNotFound, "%s", filepath.Base(path)))
		return
	}
	c.File(path)
}

func (s *Server) tempFile(c *gin.Context) {
	path, err := s.engine.Cache().Path(c.Param("path"))
	if err != nil {
		abort(c, err)
		return
	}
	serveFile(c, path)
}

func (s *Server) inputFile(c *gin.Context) {
	name := c.Param("path")
	if !cache.ValidName(name) {
		abort(c, errors.Wrapf(cache.ErrInvalidName, "%q", name))
		return
	}
	serveFile(c, filepath.Join(s.engine.InputFolder(), name))
}

func (s *Server) model(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Model())
}

func (s *Server) inputs(c *gin.Context) {
	names, err := s.engine.Inputs(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) layer(c *gin.Context) {
	files, err := s.engine.LayerOutputs(c.Request.Context(), c.Param("layer"), c.Param("input"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (s *Server) predict(c *gin.Context) {
	preds, err := s.engine.Predict(c.Request.Context(), c.Param("input"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, preds)
}
