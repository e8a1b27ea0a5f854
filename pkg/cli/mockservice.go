package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/pactkit/internal/contractfile"
	"github.com/getmockd/pactkit/pkg/config"
	"github.com/getmockd/pactkit/pkg/serviceclient"
)

// EnvMockURL supplies --mock-url when the flag is not given.
const EnvMockURL = "PACTKIT_MOCK_URL"

var (
	mockURL       string
	writeConsumer string
	writeProvider string
	writePactDir  string
)

// errNotVerified makes "verify" exit non-zero without a transport error.
var errNotVerified = errors.New("interactions not verified")

func addMockURLFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mockURL, "mock-url", "", "Mock service URL (default $"+EnvMockURL+")")
}

// mockServiceClient builds a client for the mock service named by --mock-url
// or PACTKIT_MOCK_URL.
func mockServiceClient(cmd *cobra.Command) (*serviceclient.MockService, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	u := mockURL
	if u == "" {
		u = os.Getenv(EnvMockURL)
	}
	if u == "" {
		return nil, nil, fmt.Errorf("no mock service URL: pass --mock-url or set %s", EnvMockURL)
	}
	client := serviceclient.NewMockService(u,
		serviceclient.WithTimeout(cfg.Timeout),
		serviceclient.WithLogger(newLogger(cfg)))
	return client, cfg, nil
}

type messageResult struct {
	MockURL string `json:"mockUrl"`
	Message string `json:"message"`
}

var registerCmd = &cobra.Command{
	Use:   "register <contract-glob>...",
	Short: "Register interactions from contract files",
	Long: `Load interactions from YAML or JSON contract files and register them
with the mock service, replacing any registered before.

Globs may use ** to match nested directories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := mockServiceClient(cmd)
		if err != nil {
			return err
		}
		list, err := contractfile.Interactions(args...)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			warn("no interactions found in %v", args)
		}
		if err := client.RegisterInteractions(cmd.Context(), list); err != nil {
			return err
		}

		type registerResult struct {
			MockURL      string   `json:"mockUrl"`
			Interactions []string `json:"interactions"`
		}
		res := registerResult{MockURL: client.BaseURL(), Interactions: []string{}}
		for _, in := range list {
			res.Interactions = append(res.Interactions, in.Description)
		}
		printResult(res, func() {
			fmt.Printf("registered %d interactions\n", len(list))
		})
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that every registered interaction was exercised",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := mockServiceClient(cmd)
		if err != nil {
			return err
		}
		ok, err := client.Verify(cmd.Context())
		if err != nil {
			return err
		}

		type verifyResult struct {
			MockURL  string `json:"mockUrl"`
			Verified bool   `json:"verified"`
		}
		printResult(verifyResult{MockURL: client.BaseURL(), Verified: ok}, func() {
			if ok {
				fmt.Println("verified")
			}
		})
		if !ok {
			return errNotVerified
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all registered interactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := mockServiceClient(cmd)
		if err != nil {
			return err
		}
		if err := client.CleanInteractions(cmd.Context()); err != nil {
			return err
		}
		printResult(messageResult{MockURL: client.BaseURL(), Message: "cleaned"}, func() {
			fmt.Println("cleaned")
		})
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the pact file for the verified interactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := mockServiceClient(cmd)
		if err != nil {
			return err
		}
		dir := writePactDir
		if dir == "" {
			dir = cfg.PactDir
		}
		if err := client.WritePact(cmd.Context(), writeConsumer, writeProvider, dir); err != nil {
			return err
		}
		printResult(messageResult{MockURL: client.BaseURL(), Message: "pact written"}, func() {
			fmt.Println("pact written")
		})
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the mock service session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := mockServiceClient(cmd)
		if err != nil {
			return err
		}
		if err := client.CloseSession(cmd.Context()); err != nil {
			return err
		}
		printResult(messageResult{MockURL: client.BaseURL(), Message: "closed"}, func() {
			fmt.Println("closed")
		})
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, verifyCmd, cleanCmd, writeCmd, closeCmd} {
		addMockURLFlag(cmd)
		rootCmd.AddCommand(cmd)
	}

	writeCmd.Flags().StringVar(&writeConsumer, "consumer", "", "Consumer name (required)")
	writeCmd.Flags().StringVar(&writeProvider, "provider", "", "Provider name (required)")
	writeCmd.Flags().StringVar(&writePactDir, "pact-dir", "", "Directory for the pact file (default from config)")
	_ = writeCmd.MarkFlagRequired("consumer")
	_ = writeCmd.MarkFlagRequired("provider")
}
