package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/getmockd/pactkit/pkg/logging"
)

// Config holds client settings.
type Config struct {
	// ControlURL is the address of the control server.
	ControlURL string `yaml:"controlUrl"`
	// Timeout is the HTTP timeout for control and mock service requests.
	Timeout time.Duration `yaml:"timeout"`
	// RunTimeout bounds how long a run waits for its body. Zero waits forever.
	RunTimeout time.Duration `yaml:"runTimeout"`
	// PactDir is where pact files are written. Empty leaves the choice to
	// the mock service.
	PactDir string `yaml:"pactDir"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// ConfigFile is the file the config was read from, if any.
	ConfigFile string `yaml:"-"`
	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-"`
}

// Value sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Defaults.
const (
	DefaultControlURL = "http://localhost:8080"
	DefaultTimeout    = 30 * time.Second
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// NewDefault returns a Config holding default values.
func NewDefault() *Config {
	return &Config{
		ControlURL: DefaultControlURL,
		Timeout:    DefaultTimeout,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
		Sources: map[string]string{
			"controlUrl": SourceDefault,
			"timeout":    SourceDefault,
			"runTimeout": SourceDefault,
			"pactDir":    SourceDefault,
			"logLevel":   SourceDefault,
			"logFormat":  SourceDefault,
		},
	}
}

// Merge copies the non-zero values of src into dst, recording source.
func Merge(dst, src *Config, source string) {
	if src == nil {
		return
	}
	if dst.Sources == nil {
		dst.Sources = make(map[string]string)
	}

	if src.ControlURL != "" {
		dst.ControlURL = src.ControlURL
		dst.Sources["controlUrl"] = source
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
		dst.Sources["timeout"] = source
	}
	if src.RunTimeout != 0 {
		dst.RunTimeout = src.RunTimeout
		dst.Sources["runTimeout"] = source
	}
	if src.PactDir != "" {
		dst.PactDir = src.PactDir
		dst.Sources["pactDir"] = source
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
		dst.Sources["logLevel"] = source
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
		dst.Sources["logFormat"] = source
	}
	if src.ConfigFile != "" {
		dst.ConfigFile = src.ConfigFile
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ControlURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("controlUrl %q is not an absolute URL", c.ControlURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %s is negative", c.Timeout)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("runTimeout %s is negative", c.RunTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	return nil
}

// Logging returns the logging configuration described by c.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if c.LogLevel != "" {
		cfg.Level = logging.ParseLevel(c.LogLevel)
	}
	if c.LogFormat != "" {
		cfg.Format = logging.ParseFormat(c.LogFormat)
	}
	return cfg
}
