package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL        string `mapstructure:"url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}
type Services struct {
	Visualization Service `mapstructure:"visualization"`
}
type Store struct {
	Path string `mapstructure:"path"`
}
type Labeling struct {
	DocID     int64   `mapstructure:"doc_id"`
	Listener  string  `mapstructure:"listener"`
	Tolerance float64 `mapstructure:"tolerance"`
}
type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		LogLvl  string `mapstructure:"log_level"`
	} `mapstructure:"pipeline"`
	Store    Store    `mapstructure:"store"`
	Labeling Labeling `mapstructure:"labeling"`
	Services Services `mapstructure:"services"`
	Paths    struct {
		Outputs string `mapstructure:"outputs"`
	} `mapstructure:"paths"`
}

// Defaults label document 1 for listener "o" in ./alr.db.
func Defaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "alr-timing")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("store.path", "./alr.db")
	v.SetDefault("labeling.doc_id", 1)
	v.SetDefault("labeling.listener", "o")
	v.SetDefault("labeling.tolerance", 0.0)
	v.SetDefault("services.visualization.url", "")
	v.SetDefault("services.visualization.timeout_sec", 60)
	v.SetDefault("paths.outputs", "outputs")
}

// New returns a viper instance with defaults and ALR_ environment overrides.
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix("ALR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into v. An explicit path must exist; otherwise
// config/<CONFIG_ENV>/config.yaml is used when present and defaults apply
// when it is not.
func Load(v *viper.Viper, path string) (*Root, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join("config", env))
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *Root) Validate() error {
	if r.Store.Path == "" {
		return errors.New("config: store.path is empty")
	}
	if r.Labeling.Listener == "" {
		return errors.New("config: labeling.listener is empty")
	}
	if r.Labeling.Tolerance < 0 {
		return fmt.Errorf("config: labeling.tolerance %v is negative", r.Labeling.Tolerance)
	}
	return nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
