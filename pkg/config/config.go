package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds the process-wide settings of the exporter.
type Config struct {
	// ResourceRoot is the directory holding per-section working trees
	// (origins and cache directories).
	ResourceRoot string `koanf:"resource_root"`
	// OutputDir is where produced package files land.
	OutputDir string `koanf:"output_dir"`
	// Operator is the operator tag embedded in attribution text.
	Operator string `koanf:"operator"`
	// FetchTimeout bounds a single page image download.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// New loads the configuration from defaults, an optional YAML file, and
// environment overrides, in that precedence order.
func New(configFile string) (*Config, error) {
	cfg := &Config{
		ResourceRoot: "manga_res",
		OutputDir:    "output",
		Operator:     "manga-bot",
		FetchTimeout: 30 * time.Second,
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			k := koanf.New(".")
			if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
				return nil, errors.Wrap(err, "failed to load config file")
			}
			if err := k.Unmarshal("", cfg); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal config")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.WithStack(err)
		}
	}

	loadEnvOverrides(cfg)

	return cfg, nil
}

func loadEnvOverrides(cfg *Config) {
	if v := os.Getenv("MANGAPORT_RESOURCE_ROOT"); v != "" {
		cfg.ResourceRoot = v
	}
	if v := os.Getenv("MANGAPORT_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("MANGAPORT_OPERATOR"); v != "" {
		cfg.Operator = v
	}
	if v := os.Getenv("MANGAPORT_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FetchTimeout = d
		}
	}
}
