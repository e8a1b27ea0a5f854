package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/pactkit/pkg/config"
	"github.com/getmockd/pactkit/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	controlURL string
	timeout    string
	logLevel   string
	logFormat  string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pactctl",
	Short: "pactctl drives a pact mock service from the shell",
	Long: `pactctl starts consumer sessions on a pact control server, registers
interactions from YAML or JSON contract files, verifies them and writes
pact files.

Configuration can be provided via flags, PACTKIT_* environment variables,
or a .pactkit.yaml file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute runs the CLI and exits the process.
func Execute() {
	os.Exit(Main())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&controlURL, "control-url", "", "Control server URL (default "+config.DefaultControlURL+")")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "HTTP timeout, e.g. 10s (default 30s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig resolves the effective configuration: defaults, config file,
// environment, then any persistent flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrides := []struct {
		flag, key, value string
	}{
		{"control-url", "controlUrl", controlURL},
		{"timeout", "timeout", timeout},
		{"log-level", "logLevel", logLevel},
		{"log-format", "logFormat", logFormat},
	}
	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value); err != nil {
			return nil, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.Logging())
}
