package cli

import (
	"fmt"

	"github.com/ohler55/ojg/gen"
	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"github.com/getmockd/pactkit/internal/contractfile"
	"github.com/getmockd/pactkit/pkg/pactjson"
)

var renderPath string

var renderCmd = &cobra.Command{
	Use:   "render <contract-glob>...",
	Short: "Print the wire form of the interactions in contract files",
	Long: `Load contract files and print the JSON the mock service would receive
when they are registered.

--path selects parts of the output with a JSONPath expression, e.g.
"$[*].description" or "$[0].response.body".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := contractfile.Interactions(args...)
		if err != nil {
			return err
		}
		doc := list.PactJSON()
		if renderPath == "" {
			fmt.Println(pactjson.Pretty(pactjson.Node{Node: doc}))
			return nil
		}

		x, err := jp.ParseString(renderPath)
		if err != nil {
			return fmt.Errorf("--path: %w", err)
		}
		for _, v := range x.Get(doc) {
			node, ok := v.(gen.Node)
			if !ok {
				continue
			}
			if s, isString := node.(gen.String); isString && !jsonOutput {
				fmt.Println(string(s))
				continue
			}
			fmt.Println(pactjson.Pretty(pactjson.Node{Node: node}))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderPath, "path", "", "JSONPath expression selecting what to print")
	rootCmd.AddCommand(renderCmd)
}
