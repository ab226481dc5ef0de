package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/gerunddev/mdlatex/internal/latex"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config represents the persisted conversion preferences
type Config struct {
	InlineDelimiter string `json:"inline_delimiter" mapstructure:"inline_delimiter"`
	MintedListings  bool   `json:"minted_listings" mapstructure:"minted_listings"`
	Standalone      bool   `json:"standalone" mapstructure:"standalone"`
	LogOutput       bool   `json:"log_output" mapstructure:"log_output"`
	LogFile         string `json:"log_file,omitempty" mapstructure:"log_file"`
}

// Option describes one configuration key
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns every configuration key with its default and meaning
func Options() []Option {
	return []Option{
		{Key: "inline_delimiter", Default: latex.DefaultInlineDelimiter, Comment: "Delimiters around inline code; one character, or an open/close pair"},
		{Key: "minted_listings", Default: false, Comment: "Use minted environments for code blocks instead of verbatim"},
		{Key: "standalone", Default: false, Comment: "Wrap output in a complete article document"},
		{Key: "log_output", Default: false, Comment: "Log the input, tree and output of every conversion"},
		{Key: "log_file", Default: "", Comment: "Write logs to this file instead of stderr"},
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		InlineDelimiter: latex.DefaultInlineDelimiter,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "mdlatex", "config.json")
	}
	return filepath.Join(home, ".config", "mdlatex", "config.json")
}

// StateFilePath returns the path to the build state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "mdlatex", "state.json")
}

// Load resolves configuration with precedence: defaults < file < env
func Load() (*Config, error) {
	return LoadViper(viper.New())
}

// LoadViper loads into v, which may already carry bound flags. A missing
// config file is not an error.
func LoadViper(v *viper.Viper) (*Config, error) {
	if err := readFile(v); err != nil {
		return nil, err
	}

	// Environment variables: MDLATEX_*
	v.SetEnvPrefix("mdlatex")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	cfg.LogFile, err = expandPath(cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to expand log_file: %w", err)
	}

	return cfg, nil
}

// LoadFile returns defaults overlaid with the config file alone: no env,
// no flags, and log_file as written. Editors start from it so that Save
// does not persist values that came from elsewhere.
func LoadFile() (*Config, error) {
	v := viper.New()
	if err := readFile(v); err != nil {
		return nil, err
	}
	return decode(v)
}

func readFile(v *viper.Viper) error {
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}

	v.SetConfigFile(ConfigPath())
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the config file
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	d := strings.TrimSpace(c.InlineDelimiter)
	for _, r := range d {
		// \lstinline takes any non-letter delimiter, but these would
		// break the surrounding source.
		if unicode.IsLetter(r) || unicode.IsSpace(r) || r == '\\' || r == '%' {
			return fmt.Errorf("%w: inline_delimiter %q: %q cannot delimit inline code", ErrInvalid, c.InlineDelimiter, r)
		}
	}
	return nil
}

// Settings converts the preferences into rendering settings
func (c *Config) Settings() latex.Settings {
	return latex.Settings{
		InlineDelimiter: c.InlineDelimiter,
		MintedListings:  c.MintedListings,
		Standalone:      c.Standalone,
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}
