package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/neurlang/quiver/log"
	"github.com/neurlang/quiver/parallel"
	"github.com/neurlang/quiver/signal"
)

// Inputs lists the samples of the input folder by their preview names. Samples
// without a preview get one drawn first; samples which cannot be read are left out.
func (e *Engine) Inputs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(e.opts.InputFolder)
	if err != nil {
		return nil, errors.Wrap(err, "listing inputs")
	}
	var stems []string
	have := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		switch filepath.Ext(name) {
		case ".npy":
			stems = append(stems, signal.Stem(name))
		case ".png":
			have[signal.Stem(name)] = true
		}
	}

	var mu sync.Mutex
	var missing []string
	for _, stem := range stems {
		if !have[stem] {
			missing = append(missing, stem)
		}
	}
	err = parallel.ForEachErr(ctx, len(missing), e.opts.Workers, func(ctx context.Context, i int) error {
		stem := missing[i]
		if err := e.preview(stem); err != nil {
			log.Warningf("skipping input %s: %v", stem, err)
			return nil
		}
		mu.Lock()
		have[stem] = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []string
	for _, stem := range stems {
		if have[stem] {
			out = append(out, stem+".png")
		}
	}
	sort.Strings(out)
	return out, nil
}

// preview draws <stem>.png next to <stem>.npy.
func (e *Engine) preview(stem string) error {
	s, err := signal.Load(filepath.Join(e.opts.InputFolder, stem+".npy"))
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(e.opts.InputFolder, "."+stem+".*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := e.opts.Render.Sample(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	log.Debugf("drew preview %s.png", stem)
	return os.Rename(tmp.Name(), filepath.Join(e.opts.InputFolder, stem+".png"))
}
