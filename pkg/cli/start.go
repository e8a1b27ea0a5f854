package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/pactkit/pkg/controlserver"
)

var (
	startConsumer string
	startProvider string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a mock service session for a consumer/provider pair",
	Long: `Ask the control server for a new mock service and print its URL.

Pass the printed URL to the other commands with --mock-url or by exporting
PACTKIT_MOCK_URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		cs := controlserver.New(controlserver.WithConfig(cfg))
		s, err := cs.StartSession(cmd.Context(), startConsumer, startProvider)
		if err != nil {
			return err
		}

		type startResult struct {
			Consumer string `json:"consumer"`
			Provider string `json:"provider"`
			MockURL  string `json:"mockUrl"`
		}
		printResult(startResult{
			Consumer: s.ConsumerName(),
			Provider: s.ProviderName(),
			MockURL:  s.BaseURL(),
		}, func() {
			fmt.Println(s.BaseURL())
		})
		return nil
	},
}

func init() {
	startCmd.Flags().StringVar(&startConsumer, "consumer", "", "Consumer name (required)")
	startCmd.Flags().StringVar(&startProvider, "provider", "", "Provider name (required)")
	_ = startCmd.MarkFlagRequired("consumer")
	_ = startCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(startCmd)
}
