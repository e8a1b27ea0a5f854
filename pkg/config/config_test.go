package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.ControlURL != DefaultControlURL {
		t.Errorf("ControlURL = %q, want %q", cfg.ControlURL, DefaultControlURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.RunTimeout != 0 {
		t.Errorf("RunTimeout = %v, want 0", cfg.RunTimeout)
	}
	if cfg.Sources["controlUrl"] != SourceDefault {
		t.Errorf("Sources[controlUrl] = %q, want %q", cfg.Sources["controlUrl"], SourceDefault)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.ControlURL = "localhost:8080" }, wantErr: "not an absolute URL"},
		{name: "empty url", mutate: func(c *Config) { c.ControlURL = "" }, wantErr: "not an absolute URL"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout -1s is negative"},
		{name: "negative run timeout", mutate: func(c *Config) { c.RunTimeout = -time.Second }, wantErr: "runTimeout -1s is negative"},
		{name: "upper case level", mutate: func(c *Config) { c.LogLevel = "DEBUG" }},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "logLevel"},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "logFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	dst := NewDefault()
	Merge(dst, &Config{PactDir: "/tmp/pacts", Timeout: 5 * time.Second}, SourceFile)

	if dst.PactDir != "/tmp/pacts" {
		t.Errorf("PactDir = %q, want /tmp/pacts", dst.PactDir)
	}
	if dst.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", dst.Timeout)
	}
	if dst.ControlURL != DefaultControlURL {
		t.Errorf("ControlURL = %q, want unchanged default", dst.ControlURL)
	}
	if dst.Sources["pactDir"] != SourceFile {
		t.Errorf("Sources[pactDir] = %q, want %q", dst.Sources["pactDir"], SourceFile)
	}
	if dst.Sources["controlUrl"] != SourceDefault {
		t.Errorf("Sources[controlUrl] = %q, want %q", dst.Sources["controlUrl"], SourceDefault)
	}

	Merge(dst, nil, SourceEnv)
	if dst.PactDir != "/tmp/pacts" {
		t.Errorf("Merge(nil) changed PactDir to %q", dst.PactDir)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvControlURL, "http://control:9000")
	t.Setenv(EnvTimeout, "12")
	t.Setenv(EnvRunTimeout, "1m")
	t.Setenv(EnvLogLevel, "debug")

	cfg := NewDefault()
	LoadEnv(cfg)

	if cfg.ControlURL != "http://control:9000" {
		t.Errorf("ControlURL = %q, want http://control:9000", cfg.ControlURL)
	}
	if cfg.Timeout != 12*time.Second {
		t.Errorf("Timeout = %v, want 12s", cfg.Timeout)
	}
	if cfg.RunTimeout != time.Minute {
		t.Errorf("RunTimeout = %v, want 1m", cfg.RunTimeout)
	}
	if cfg.Sources["logLevel"] != SourceEnv {
		t.Errorf("Sources[logLevel] = %q, want %q", cfg.Sources["logLevel"], SourceEnv)
	}
	if cfg.Sources["pactDir"] != SourceDefault {
		t.Errorf("Sources[pactDir] = %q, want %q", cfg.Sources["pactDir"], SourceDefault)
	}
}

func TestLoadEnv_IgnoresBadDuration(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")

	cfg := NewDefault()
	LoadEnv(cfg)

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default %v", cfg.Timeout, DefaultTimeout)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	content := "controlUrl: http://file:1234\npactDir: ./pacts\ntimeout: 10s\n"
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvPactDir, "/env/pacts")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ControlURL != "http://file:1234" {
		t.Errorf("ControlURL = %q, want http://file:1234", cfg.ControlURL)
	}
	if cfg.Sources["controlUrl"] != SourceFile {
		t.Errorf("Sources[controlUrl] = %q, want %q", cfg.Sources["controlUrl"], SourceFile)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.PactDir != "/env/pacts" {
		t.Errorf("PactDir = %q, want env override /env/pacts", cfg.PactDir)
	}
	if cfg.ConfigFile != filepath.Join(dir, LocalConfigFileName) {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("runTimeout: 2m\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RunTimeout != 2*time.Minute {
		t.Errorf("RunTimeout = %v, want 2m", cfg.RunTimeout)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvConfig, "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("controlUrl: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(bad)
	var fe *FileError
	if err == nil {
		t.Fatal("LoadFile() error = nil, want parse error")
	}
	if !errors.As(err, &fe) || fe.Path != bad {
		t.Errorf("LoadFile() error = %v, want *FileError for %s", err, bad)
	}

	badDuration := filepath.Join(dir, "duration.yaml")
	if err := os.WriteFile(badDuration, []byte("timeout: forever\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(badDuration); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("LoadFile() error = %v, want timeout error", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFile() on missing file returned nil error")
	}
}

func TestConfig_Set(t *testing.T) {
	cfg := NewDefault()

	if err := cfg.Set("controlUrl", "http://flag:1"); err != nil {
		t.Fatalf("Set(controlUrl) error = %v", err)
	}
	if err := cfg.Set("runTimeout", "90s"); err != nil {
		t.Fatalf("Set(runTimeout) error = %v", err)
	}
	if cfg.ControlURL != "http://flag:1" || cfg.Sources["controlUrl"] != SourceFlag {
		t.Errorf("ControlURL = %q (%s), want http://flag:1 (flag)", cfg.ControlURL, cfg.Sources["controlUrl"])
	}
	if cfg.RunTimeout != 90*time.Second {
		t.Errorf("RunTimeout = %v, want 90s", cfg.RunTimeout)
	}
	if err := cfg.Set("timeout", "never"); err == nil {
		t.Error("Set(timeout, never) error = nil")
	}
	if err := cfg.Set("color", "blue"); err == nil {
		t.Error("Set(color) error = nil")
	}
}

func TestConfig_Logging(t *testing.T) {
	cfg := NewDefault()
	cfg.LogLevel = "Debug"
	cfg.LogFormat = "JSON"

	lc := cfg.Logging()
	if lc.Level.String() != "DEBUG" {
		t.Errorf("Level = %v, want DEBUG", lc.Level)
	}
	if lc.Format != "json" {
		t.Errorf("Format = %q, want json", lc.Format)
	}
}
