package config

import (
	"os"
)

// Environment variable names
const (
	EnvConfig     = "PACTKIT_CONFIG"
	EnvControlURL = "PACTKIT_CONTROL_URL"
	EnvTimeout    = "PACTKIT_TIMEOUT"
	EnvRunTimeout = "PACTKIT_RUN_TIMEOUT"
	EnvPactDir    = "PACTKIT_PACT_DIR"
	EnvLogLevel   = "PACTKIT_LOG_LEVEL"
	EnvLogFormat  = "PACTKIT_LOG_FORMAT"
)

// LoadEnv applies environment variables to cfg. Unset variables and
// unparsable durations are ignored.
func LoadEnv(cfg *Config) {
	env := &Config{
		ControlURL: os.Getenv(EnvControlURL),
		PactDir:    os.Getenv(EnvPactDir),
		LogLevel:   os.Getenv(EnvLogLevel),
		LogFormat:  os.Getenv(EnvLogFormat),
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := parseDuration(v); err == nil {
			env.Timeout = d
		}
	}
	if v := os.Getenv(EnvRunTimeout); v != "" {
		if d, err := parseDuration(v); err == nil {
			env.RunTimeout = d
		}
	}
	Merge(cfg, env, SourceEnv)
}
