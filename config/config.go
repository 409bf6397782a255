// Package config reads the server configuration.
//
// Values come from a quiver.{yaml,toml,json,hcl} file in the working directory or in
// configs/, from QUIVER_ prefixed environment variables (QUIVER_RENDER_SCALE for
// render.scale) and from the defaults below. Command line flags are applied with Set.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/go-playground/validator.v9"

	"github.com/neurlang/quiver/log"
	"github.com/neurlang/quiver/render"
)

// EnvPrefix prefixes the environment variables read into the configuration.
const EnvPrefix = "QUIVER"

// Config is the launch configuration of the server.
type Config struct {
	Host        string   `mapstructure:"host" validate:"isdefault|hostname|ip"`
	Port        int      `mapstructure:"port" validate:"min=1,max=65535"`
	Top         int      `mapstructure:"top" validate:"min=1,max=1000"`
	TempFolder  string   `mapstructure:"temp_folder" validate:"required"`
	InputFolder string   `mapstructure:"input_folder" validate:"required"`
	HTMLBaseDir string   `mapstructure:"html_base_dir"`
	OpenBrowser bool     `mapstructure:"open_browser"`
	Classes     []string `mapstructure:"classes" validate:"dive,required"`
	// Workers bounds hashtron evaluation and rendering, 0 uses every core.
	Workers int `mapstructure:"workers" validate:"min=0"`

	Model  Model          `mapstructure:"model"`
	Log    Log            `mapstructure:"log"`
	Render render.Options `mapstructure:"render"`
}

// Model locates the architecture and the trained weights.
type Model struct {
	Architecture string `mapstructure:"architecture" validate:"required"`
	Weights      string `mapstructure:"weights"`
}

// Log configures the logger.
type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warning warn error critical"`
}

func setDefaults(v *viper.Viper) {
	keys := map[string]interface{}{
		"host":               "",
		"port":               5000,
		"top":                5,
		"temp_folder":        "./tmp",
		"input_folder":       "./",
		"html_base_dir":      "",
		"open_browser":       true,
		"classes":            []string{},
		"workers":            0,
		"model.architecture": "",
		"model.weights":      "",
		"log.level":          "info",
		"render.width":       render.DefaultOptions.Width,
		"render.height":      render.DefaultOptions.Height,
		"render.scale":       render.DefaultOptions.Scale,
	}
	for k, value := range keys {
		v.SetDefault(k, value)
	}
}

// New returns a viper instance with the defaults and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("quiver")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Read loads the named config file into v. An empty name searches the default
// locations, where a missing file is not an error.
func Read(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return errors.Wrapf(v.ReadInConfig(), "reading config %s", file)
	}
	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debugf("no config file found, using defaults")
		return nil
	}
	if err == nil {
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}
	return errors.Wrap(err, "reading config")
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Errorf("config: invalid %s: failed %q constraint", fe.Namespace(), fe.Tag())
		}
		return errors.Wrap(err, "config")
	}
	return nil
}
