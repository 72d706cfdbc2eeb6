package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arfbllh/mdq/output"
	"github.com/arfbllh/mdq/run"
)

// DefaultPath is read when no configuration file is named explicitly.
const DefaultPath = ".mdq.yaml"

// Config holds the defaults for command line options. Flags given on the
// command line override it.
type Config struct {
	Output         string `yaml:"output"`
	EnhancedErrors bool   `yaml:"enhanced_errors"`
	AddBreaks      bool   `yaml:"add_breaks"`
	LinkPos        string `yaml:"link_pos"`
	FootnotePos    string `yaml:"footnote_pos,omitempty"`
	LinkFormat     string `yaml:"link_format"`
	Quiet          bool   `yaml:"quiet"`
	HistorySize    int    `yaml:"history_size"`
}

func Default() Config {
	return Config{
		Output:      "markdown",
		AddBreaks:   true,
		LinkPos:     "section",
		LinkFormat:  "keep",
		HistorySize: 1000,
	}
}

// Load reads the configuration at path over the defaults. An empty path
// means DefaultPath, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	err := parseConfigurationFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

func parseConfigurationFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from MDQ_* variables. Values that do not parse
// are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Output = envOr(getenv, "MDQ_OUTPUT", c.Output)
	c.EnhancedErrors = envBool(getenv, "MDQ_ENHANCED_ERRORS", c.EnhancedErrors)
	c.AddBreaks = envBool(getenv, "MDQ_ADD_BREAKS", c.AddBreaks)
	c.LinkPos = envOr(getenv, "MDQ_LINK_POS", c.LinkPos)
	c.FootnotePos = envOr(getenv, "MDQ_FOOTNOTE_POS", c.FootnotePos)
	c.LinkFormat = envOr(getenv, "MDQ_LINK_FORMAT", c.LinkFormat)
	c.Quiet = envBool(getenv, "MDQ_QUIET", c.Quiet)
	c.HistorySize = envInt(getenv, "MDQ_HISTORY_SIZE", c.HistorySize)
}

// RunOptions converts the configuration to run options, validating every
// enumerated value.
func (c Config) RunOptions() (run.Options, error) {
	format, err := output.ParseFormat(c.Output)
	if err != nil {
		return run.Options{}, err
	}
	linkPos, err := output.ParsePlacement(c.LinkPos)
	if err != nil {
		return run.Options{}, err
	}
	linkFormat, err := output.ParseLinkFormat(c.LinkFormat)
	if err != nil {
		return run.Options{}, err
	}

	opts := run.Options{
		Output:         format,
		Breaks:         c.AddBreaks,
		LinkPos:        linkPos,
		LinkFormat:     linkFormat,
		Quiet:          c.Quiet,
		EnhancedErrors: c.EnhancedErrors,
	}
	if c.FootnotePos != "" {
		footnotePos, err := output.ParsePlacement(c.FootnotePos)
		if err != nil {
			return run.Options{}, err
		}
		opts.FootnotePos = &footnotePos
	}
	return opts, nil
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	if _, err := c.RunOptions(); err != nil {
		return err
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	return nil
}

// Write stores cfg as YAML at path, replacing any existing file.
func Write(path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	if v := getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
