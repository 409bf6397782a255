package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/browser"
	"github.com/spf13/viper"

	"github.com/neurlang/quiver/config"
	"github.com/neurlang/quiver/engine"
	"github.com/neurlang/quiver/log"
	"github.com/neurlang/quiver/server"
)

// flags maps command line flags onto configuration keys
var flags = map[string]string{
	"arch":     "model.architecture",
	"weights":  "model.weights",
	"host":     "host",
	"port":     "port",
	"top":      "top",
	"temp":     "temp_folder",
	"inputs":   "input_folder",
	"html":     "html_base_dir",
	"classes":  "classes",
	"browser":  "open_browser",
	"loglevel": "log.level",
	"workers":  "workers",
}

func newFlagSet() (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("quiver", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file, default quiver.yaml in . or configs/")
	fs.String("arch", "", "model architecture .hcl file")
	fs.String("weights", "", "trained model .json.lzw file, empty keeps random weights")
	fs.String("host", "", "listen host")
	fs.Int("port", 5000, "listen port")
	fs.Int("top", 5, "number of predictions shown")
	fs.String("temp", "./tmp", "folder for rendered layer outputs")
	fs.String("inputs", "./", "folder with .npy input samples")
	fs.String("html", "", "directory containing quiverboard/dist, empty serves the built in dashboard")
	fs.String("classes", "", "comma separated class names")
	fs.Bool("browser", true, "open the dashboard in a browser")
	fs.String("loglevel", "info", "debug, info, warning, error or critical")
	fs.Int("workers", 0, "concurrent hashtron evaluations and renders, 0 uses every core")
	return fs, configFile
}

func main() {
	fs, configFile := newFlagSet()
	_ = fs.Parse(os.Args[1:])

	log.Default()

	v := config.New()
	if err := config.Read(v, *configFile); err != nil {
		log.Fatalf("%v", err)
	}
	applyFlags(fs, v)
	cfg, err := config.Decode(v)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := log.SetLevel(log.ParseLevel(cfg.Log.Level)); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := launch(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// applyFlags copies the flags given on the command line over the configuration
func applyFlags(fs *flag.FlagSet, v *viper.Viper) {
	fs.Visit(func(f *flag.Flag) {
		key, ok := flags[f.Name]
		if !ok {
			return
		}
		if f.Name == "classes" {
			var names []string
			for _, name := range strings.Split(f.Value.String(), ",") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}
			v.Set(key, names)
			return
		}
		v.Set(key, f.Value.String())
	})
}

// launch prepares the temp folder, loads the model and serves the dashboard until ctx ends.
func launch(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.TempFolder, 0o755); err != nil {
		return err
	}
	if err := server.ValidateDashboard(cfg.HTMLBaseDir); err != nil {
		return err
	}
	e, err := engine.Load(cfg.Model.Architecture, cfg.Model.Weights, engine.Options{
		Classes:     cfg.Classes,
		Top:         cfg.Top,
		TempFolder:  cfg.TempFolder,
		InputFolder: cfg.InputFolder,
		Render:      cfg.Render,
		Workers:     cfg.Workers,
	})
	if err != nil {
		return err
	}
	if log.Level() != log.LDEBUG {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := server.New(e, server.Options{Host: cfg.Host, Port: cfg.Port, HTMLBaseDir: cfg.HTMLBaseDir})
	if err != nil {
		return err
	}
	if cfg.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			url := fmt.Sprintf("http://localhost:%d", cfg.Port)
			if err := browser.OpenURL(url); err != nil {
				log.Warningf("could not open the browser, visit %s: %v", url, err)
			}
		}()
	}
	return srv.Run(ctx)
}
