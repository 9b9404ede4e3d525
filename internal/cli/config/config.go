package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file base name, without extension
const FileName = "aotcfg"

// EnvPrefix prefixes environment overrides, e.g. AOTCFG_OUTPUT_PATH
const EnvPrefix = "AOTCFG"

// Config represents the aotcfg configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Collect CollectConfig `mapstructure:"collect"`
	Log     LogConfig     `mapstructure:"log"`
}

// OutputConfig controls the emitted configuration artifact
type OutputConfig struct {
	Path     string `mapstructure:"path"`
	Indent   int    `mapstructure:"indent"`
	Compress bool   `mapstructure:"compress"`
}

// CollectConfig controls how inputs are gathered
type CollectConfig struct {
	Strict          bool `mapstructure:"strict"`
	MaxWorkers      int  `mapstructure:"max_workers"`
	DedupeCacheSize int  `mapstructure:"dedupe_cache_size"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.path", "build/aot/proxy-config.json")
	v.SetDefault("output.indent", 2)
	v.SetDefault("output.compress", false)
	v.SetDefault("collect.strict", false)
	v.SetDefault("collect.max_workers", 0)
	v.SetDefault("collect.dedupe_cache_size", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration from configFile. When configFile is empty the
// nearest aotcfg.yml or aotcfg.yaml in the working directory or one of its
// parents is used, and defaults apply if there is none. A missing explicit
// file is an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if found, err := FindConfigFile("."); err == nil {
			configFile = found
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigFile walks up from dir looking for aotcfg.yml or aotcfg.yaml.
func FindConfigFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range []string{".yml", ".yaml"} {
			candidate := filepath.Join(dir, FileName+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yml found in %s or any parent directory", FileName, dir)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	if cfg.Output.Indent < 0 || cfg.Output.Indent > 8 {
		return fmt.Errorf("output.indent must be between 0 and 8, got: %d", cfg.Output.Indent)
	}
	if cfg.Collect.MaxWorkers < 0 {
		return fmt.Errorf("collect.max_workers must not be negative, got: %d", cfg.Collect.MaxWorkers)
	}
	if cfg.Collect.DedupeCacheSize < 1 {
		return fmt.Errorf("collect.dedupe_cache_size must be at least 1, got: %d", cfg.Collect.DedupeCacheSize)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	return nil
}
