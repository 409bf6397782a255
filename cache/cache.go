// Package cache keeps rendered layer outputs in the temp folder.
//
// Every (input, layer) pair owns the files <input>_<layer>_<map>.png and a manifest
// <input>_<layer>.json recording which model produced them. A manifest written for
// other weights is ignored, so files are redrawn after the model changes. Layer
// names may not contain an underscore, which keeps those file names unambiguous.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/neurlang/quiver/log"
	"github.com/neurlang/quiver/parallel"
)

// ErrInvalidName is returned for names that would leave the cache directory.
var ErrInvalidName = errors.New("invalid file name")

// Draw writes map m of an entry.
type Draw func(w io.Writer, m int) error

// Fill computes an entry: it returns the number of maps and how to draw each one.
type Fill func(ctx context.Context) (maps int, draw Draw, err error)

// Cache is a directory of rendered files tied to one model fingerprint.
type Cache struct {
	dir         string
	fingerprint string
	workers     int
	group       singleflight.Group
}

type manifest struct {
	Fingerprint string    `json:"fingerprint"`
	Input       string    `json:"input"`
	Layer       string    `json:"layer"`
	Files       []string  `json:"files"`
	Created     time.Time `json:"created"`
}

// New opens the cache in dir, creating the directory if needed. Entries are
// drawn by up to workers goroutines.
func New(dir, fingerprint string, workers int) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}
	if workers < 1 {
		workers = 1
	}
	return &Cache{dir: dir, fingerprint: fingerprint, workers: workers}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

// FileName names the file holding map m of the layer output for input.
func FileName(input, layer string, m int) string {
	return fmt.Sprintf("%s_%s_%d.png", input, layer, m)
}

func manifestName(input, layer string) string {
	return fmt.Sprintf("%s_%s.json", input, layer)
}

// ValidName reports whether name is a plain file name.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// Path resolves a file served from the cache.
func (c *Cache) Path(name string) (string, error) {
	if !ValidName(name) {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return filepath.Join(c.dir, name), nil
}

// Get returns the files of an entry when it was drawn for the current model and
// all of its files are still present.
func (c *Cache) Get(input, layer string) ([]string, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, manifestName(input, layer)))
	if err != nil {
		return nil, false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		log.Warningf("cache: ignoring corrupt manifest for %s/%s: %v", input, layer, err)
		return nil, false
	}
	if m.Fingerprint != c.fingerprint || m.Input != input || m.Layer != layer {
		return nil, false
	}
	for _, f := range m.Files {
		if _, err := os.Stat(filepath.Join(c.dir, f)); err != nil {
			return nil, false
		}
	}
	return m.Files, true
}

// Do returns the files of an entry, calling fill to draw them when they are not
// cached. Concurrent calls for one entry share a single fill. The fill keeps
// running for the other callers when ctx of one of them is cancelled.
func (c *Cache) Do(ctx context.Context, input, layer string, fill Fill) ([]string, error) {
	if !ValidName(input) || !ValidName(layer) || strings.Contains(layer, "_") {
		return nil, errors.Wrapf(ErrInvalidName, "%q/%q", input, layer)
	}
	if files, ok := c.Get(input, layer); ok {
		log.Debugf("cache: hit %s/%s", input, layer)
		return files, nil
	}
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(input+"\x00"+layer, func() (interface{}, error) {
		if files, ok := c.Get(input, layer); ok {
			return files, nil
		}
		return c.fill(detached, input, layer, fill)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]string), nil
	}
}

func (c *Cache) fill(ctx context.Context, input, layer string, fill Fill) ([]string, error) {
	start := time.Now()
	maps, draw, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	files := make([]string, maps)
	for m := range files {
		files[m] = FileName(input, layer, m)
	}
	err = parallel.ForEachErr(ctx, maps, c.workers, func(ctx context.Context, m int) error {
		return c.write(files[m], func(w io.Writer) error {
			return draw(w, m)
		})
	})
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(manifest{
		Fingerprint: c.fingerprint,
		Input:       input,
		Layer:       layer,
		Files:       files,
		Created:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	err = c.write(manifestName(input, layer), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("cache: drew %d files for %s/%s in %s", maps, input, layer, time.Since(start))
	return files, nil
}

// write creates name atomically through a temporary file in the cache directory.
func (c *Cache) write(name string, body func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(c.dir, "."+name+".*")
	if err != nil {
		return errors.Wrap(err, "creating cache file")
	}
	defer os.Remove(tmp.Name())
	if err := body(tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), filepath.Join(c.dir, name)), "writing %s", name)
}
