// Package config loads the settings of the agentctx command from a YAML file
// and AGENTCTX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. AGENTCTX_MODEL.
const EnvPrefix = "AGENTCTX"

type Config struct {
	Provider      string    `yaml:"provider" mapstructure:"provider"`
	Model         string    `yaml:"model" mapstructure:"model"`
	APIKey        string    `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL       string    `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Instruction   string    `yaml:"instruction,omitempty" mapstructure:"instruction"`
	Workspace     string    `yaml:"workspace" mapstructure:"workspace"`
	Ignore        []string  `yaml:"ignore" mapstructure:"ignore"`
	MaxHistory    int       `yaml:"max_history" mapstructure:"max_history"`
	MaxModelCalls int       `yaml:"max_model_calls" mapstructure:"max_model_calls"`
	Stream        bool      `yaml:"stream" mapstructure:"stream"`
	Log           LogConfig `yaml:"log" mapstructure:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

// expandEnv replaces $VAR references with their value; unknown variables
// are left as written.
func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		Provider:      "anthropic",
		Model:         "claude-3-5-sonnet-20241022",
		Workspace:     ".",
		Ignore:        []string{".git", "node_modules", "**/*.pyc"},
		MaxHistory:    20,
		MaxModelCalls: 25,
		Stream:        true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agentctx", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "agentctx", "config.yaml")
}

// Load reads the config. An empty path searches ./config.yaml and the
// per-user config directory; a missing file there is not an error. An
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.APIKey = expandEnv(cfg.APIKey)
	cfg.BaseURL = expandEnv(cfg.BaseURL)
	cfg.Workspace = expandEnv(cfg.Workspace)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even when
// the file does not mention them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("model", cfg.Model)
	v.SetDefault("api_key", cfg.APIKey)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("instruction", cfg.Instruction)
	v.SetDefault("workspace", cfg.Workspace)
	v.SetDefault("ignore", cfg.Ignore)
	v.SetDefault("max_history", cfg.MaxHistory)
	v.SetDefault("max_model_calls", cfg.MaxModelCalls)
	v.SetDefault("stream", cfg.Stream)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic", "openai", "mock":
	case "":
		return fmt.Errorf("config: provider is required")
	default:
		return fmt.Errorf("config: invalid provider %q (must be anthropic, openai, or mock)", c.Provider)
	}

	if c.Provider != "mock" && c.Model == "" {
		return fmt.Errorf("config: model is required for provider %q", c.Provider)
	}

	if c.Workspace == "" {
		return fmt.Errorf("config: workspace is required")
	}

	if c.MaxHistory < 0 {
		return fmt.Errorf("config: max_history must not be negative")
	}

	if c.MaxModelCalls < 0 {
		return fmt.Errorf("config: max_model_calls must not be negative")
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q (must be text or json)", c.Log.Format)
	}

	return nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}

	return nil
}
