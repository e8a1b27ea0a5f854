package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type versionInfo struct {
			Version   string `json:"version"`
			Commit    string `json:"commit"`
			BuildDate string `json:"buildDate"`
			GoVersion string `json:"goVersion"`
			Platform  string `json:"platform"`
		}
		info := versionInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}
		printResult(info, func() {
			fmt.Printf("pactctl %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildDate)
			fmt.Printf("%s %s\n", info.GoVersion, info.Platform)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
