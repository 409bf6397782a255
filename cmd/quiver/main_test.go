package main

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/quiver/config"
)

func TestApplyFlags(t *testing.T) {
	fs, configFile := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"-config", "q.yaml", "-arch", "m.hcl", "-port", "8081", "-classes", "cat, dog,,bird", "-browser=false",
	}))
	assert.Equal(t, "q.yaml", *configFile)

	v := config.New()
	applyFlags(fs, v)
	cfg, err := config.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, "m.hcl", cfg.Model.Architecture)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, []string{"cat", "dog", "bird"}, cfg.Classes)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, 5, cfg.Top)
}

func TestLaunch(t *testing.T) {
	v := config.New()
	v.Set("model.architecture", "../../arch/testdata/signal.hcl")
	v.Set("temp_folder", filepath.Join(t.TempDir(), "a", "b"))
	v.Set("input_folder", t.TempDir())
	v.Set("open_browser", false)
	v.Set("host", "127.0.0.1")
	v.Set("port", 0)
	cfg, err := config.Decode(v)
	require.Error(t, err, "port 0 is rejected by validation")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	v.Set("port", port)
	cfg, err = config.Decode(v)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, launch(ctx, cfg))
	assert.DirExists(t, cfg.TempFolder)
}

func TestLaunchBadDashboard(t *testing.T) {
	v := config.New()
	v.Set("model.architecture", "../../arch/testdata/signal.hcl")
	v.Set("temp_folder", t.TempDir())
	v.Set("html_base_dir", t.TempDir())
	cfg, err := config.Decode(v)
	require.NoError(t, err)
	assert.Error(t, launch(context.Background(), cfg))
}
