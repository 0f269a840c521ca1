package main

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"curlcraft/internal/capture"
	"curlcraft/internal/curlcmd"
)

const (
	ConfigFileName      = ".curlcraft"
	ConfigFileExtension = ".yaml"
	EnvPrefix           = "CURLCRAFT"
)

// Config holds every setting the commands read.
type Config struct {
	BaseURL        string   `mapstructure:"base_url" yaml:"base_url"`
	MethodFallback string   `mapstructure:"method_fallback" yaml:"method_fallback"`
	Variants       []string `mapstructure:"variants" yaml:"variants"`
	StrictEscaping bool     `mapstructure:"strict_escaping" yaml:"strict_escaping"`
	ReleaseDir     string   `mapstructure:"release_dir" yaml:"release_dir"`
	DBPath         string   `mapstructure:"db_path" yaml:"db_path"`
	Listen         string   `mapstructure:"listen" yaml:"listen"`
}

// setDefaults registers the default for every key so env vars and the
// config file can override any of them.
func setDefaults(v *viper.Viper) {
	dataDir := "."
	if home, err := homedir.Dir(); err == nil {
		dataDir = home
	}

	v.SetDefault("base_url", capture.DefaultBaseURL)
	v.SetDefault("method_fallback", "unknown")
	v.SetDefault("variants", []string{string(capture.VariantSource), string(capture.VariantFields)})
	v.SetDefault("strict_escaping", false)
	v.SetDefault("release_dir", "")
	v.SetDefault("db_path", filepath.Join(dataDir, ".curlcraft-recent.db"))
	v.SetDefault("listen", "127.0.0.1:6969")
}

// loadConfig decodes the settings held by v.
func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := cfg.CaptureOptions(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CaptureOptions converts the settings into extractor options.
func (c *Config) CaptureOptions() (capture.Options, error) {
	opts := capture.Options{BaseURL: c.BaseURL}

	switch strings.ToLower(strings.TrimSpace(c.MethodFallback)) {
	case "", "unknown", "unknown method":
		opts.MethodFallback = capture.FallbackUnknown
	case "post":
		opts.MethodFallback = capture.FallbackPOST
	default:
		return capture.Options{}, fmt.Errorf("invalid method_fallback %q: want \"unknown\" or \"post\"", c.MethodFallback)
	}

	for _, name := range c.Variants {
		variant, err := capture.ParseVariant(name)
		if err != nil {
			return capture.Options{}, err
		}
		opts.Variants = append(opts.Variants, variant)
	}
	return opts, nil
}

// RenderOptions converts the settings into renderer options.
func (c *Config) RenderOptions() curlcmd.Options {
	return curlcmd.Options{StrictEscaping: c.StrictEscaping}
}
