package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

const (
	APP_NAME = "listrt"

	CONFIG_FILE_NAME    = "config.yaml"
	CONFIG_FILE_RELPATH = APP_NAME + "/" + CONFIG_FILE_NAME
	CONFIG_FILE_PERM    = 0o600

	LOG_LEVEL_ENV_VARNAME = "LISTRT_LOG_LEVEL"
	DEFAULT_LOG_LEVEL     = "warn"

	DEFAULT_CONFIG_FILE_CONTENT = "# log level: trace, debug, info, warn, error\n" +
		"log-level: " + DEFAULT_LOG_LEVEL + "\n" +
		"json-logs: false\n" +
		"json-output: false\n"
)

var (
	USER_HOME             string
	FORCE_COLOR           bool
	TRUECOLOR_COLORTERM   bool
	TERM_256COLOR_CAPABLE bool
	NO_COLOR              bool
	STDOUT_IS_TERMINAL    bool
	SHOULD_COLORIZE       bool

	// set if SHOULD_COLORIZE
	INITIAL_COLORS_SET bool
	INITIAL_FG_COLOR   termenv.Color
	INITIAL_BG_COLOR   termenv.Color

	ErrInvalidLogLevel = errors.New("invalid log level")
)

func init() {
	targetSpecificInit()
}

type Config struct {
	LogLevel string `yaml:"log-level"`

	// JSONLogs makes the CLI log in JSON instead of using a console writer.
	JSONLogs bool `yaml:"json-logs"`

	// JSONOutput makes the CLI print results as JSON.
	JSONOutput bool `yaml:"json-output"`

	// Color is nil if colorization should be detected from the environment.
	Color *bool `yaml:"color"`
}

func Default() Config {
	return Config{LogLevel: DEFAULT_LOG_LEVEL}
}

// Load reads the configuration file if it exists and applies the environment overrides.
func Load() (Config, error) {
	path, err := xdg.SearchConfigFile(CONFIG_FILE_RELPATH)
	if err != nil {
		//no configuration file
		config := Default()
		config.applyEnv()
		return config, nil
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	config, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	config.applyEnv()
	return config, nil
}

// Parse parses a YAML configuration, unknown fields are an error.
func Parse(data []byte) (Config, error) {
	config := Default()
	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return Config{}, err
	}

	if _, err := config.ZerologLevel(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// GetConfigFilePath searches for the configuration file, creates it if it does not exist and returns its path.
func GetConfigFilePath() (string, error) {
	path, err := xdg.SearchConfigFile(CONFIG_FILE_RELPATH)
	if err != nil {
		path, err = xdg.ConfigFile(CONFIG_FILE_RELPATH)
		if err != nil {
			return "", err
		}

		if err := os.WriteFile(path, []byte(DEFAULT_CONFIG_FILE_CONTENT), CONFIG_FILE_PERM); err != nil {
			return "", err
		}
	}

	return path, nil
}

func (c *Config) applyEnv() {
	if level, ok := os.LookupEnv(LOG_LEVEL_ENV_VARNAME); ok && level != "" {
		c.LogLevel = level
	}
}

func (c Config) ZerologLevel() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

// Colorize reports whether the output should be colorized, an explicit setting wins over the environment.
func (c Config) Colorize() bool {
	if c.Color != nil {
		return *c.Color
	}
	return SHOULD_COLORIZE
}
