package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileName is looked up in the working directory.
const LocalConfigFileName = ".pactkit.yaml"

// FileError is returned when a config file cannot be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FindFile returns the config file to use: PACTKIT_CONFIG if set, otherwise
// .pactkit.yaml in dir if it exists, otherwise "".
func FindFile(dir string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	p := filepath.Join(dir, LocalConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// LoadFile parses a YAML config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		ControlURL string `yaml:"controlUrl"`
		Timeout    string `yaml:"timeout"`
		RunTimeout string `yaml:"runTimeout"`
		PactDir    string `yaml:"pactDir"`
		LogLevel   string `yaml:"logLevel"`
		LogFormat  string `yaml:"logFormat"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	cfg := &Config{
		ControlURL: raw.ControlURL,
		PactDir:    raw.PactDir,
		LogLevel:   raw.LogLevel,
		LogFormat:  raw.LogFormat,
		ConfigFile: path,
	}
	if raw.Timeout != "" {
		if cfg.Timeout, err = parseDuration(raw.Timeout); err != nil {
			return nil, &FileError{Path: path, Err: fmt.Errorf("timeout: %w", err)}
		}
	}
	if raw.RunTimeout != "" {
		if cfg.RunTimeout, err = parseDuration(raw.RunTimeout); err != nil {
			return nil, &FileError{Path: path, Err: fmt.Errorf("runTimeout: %w", err)}
		}
	}
	return cfg, nil
}

// Load builds the effective configuration for the working directory dir:
// defaults, then the config file, then the environment.
func Load(dir string) (*Config, error) {
	cfg := NewDefault()

	if path := FindFile(dir); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		Merge(cfg, fileCfg, SourceFile)
	}

	LoadEnv(cfg)
	return cfg, nil
}

// Set overrides a single value from a command-line flag.
func (c *Config) Set(key, value string) error {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	switch key {
	case "controlUrl":
		c.ControlURL = value
	case "pactDir":
		c.PactDir = value
	case "logLevel":
		c.LogLevel = value
	case "logFormat":
		c.LogFormat = value
	case "timeout":
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Timeout = d
	case "runTimeout":
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.RunTimeout = d
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	c.Sources[key] = SourceFlag
	return nil
}
