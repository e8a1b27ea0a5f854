package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/pactkit/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration and where each value came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		type entry struct {
			Key    string `json:"key"`
			Value  string `json:"value"`
			Source string `json:"source"`
		}
		entries := []entry{
			{"controlUrl", cfg.ControlURL, cfg.Sources["controlUrl"]},
			{"timeout", cfg.Timeout.String(), cfg.Sources["timeout"]},
			{"runTimeout", cfg.RunTimeout.String(), cfg.Sources["runTimeout"]},
			{"pactDir", cfg.PactDir, cfg.Sources["pactDir"]},
			{"logLevel", cfg.LogLevel, cfg.Sources["logLevel"]},
			{"logFormat", cfg.LogFormat, cfg.Sources["logFormat"]},
		}

		printResult(entries, func() {
			if cfg.ConfigFile != "" {
				fmt.Printf("Config file: %s\n\n", cfg.ConfigFile)
			}
			w := table()
			_, _ = fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
			for _, e := range entries {
				source := e.Source
				if source == "" {
					source = config.SourceDefault
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, source)
			}
			_ = w.Flush()
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
