package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// printResult outputs a single operation result.
//
// When --json is active only the JSON encoding of data is written to
// stdout. textFn is called only in text mode.
func printResult(data any, textFn func()) {
	if jsonOutput {
		_ = printJSON(data)
		return
	}
	textFn()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table creates an aligned table writer for stdout.
func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
