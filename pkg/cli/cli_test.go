package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	pacttest "github.com/getmockd/pactkit/pkg/testing"
)

// TestMain lets testscript run pactctl in-process as a subcommand of the
// test binary.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"pactctl": Main,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			pactDir := filepath.Join(env.WorkDir, "pacts")

			control := pacttest.NewControlServer(pactDir)
			env.Defer(control.Close)

			mock := pacttest.NewMockService(
				pacttest.WithPactDir(pactDir),
				pacttest.WithPacticipants("Zoo App", "Animal Service"),
			)
			env.Defer(mock.Close)

			env.Setenv("CONTROL_URL", control.URL())
			env.Setenv("MOCK_URL", mock.URL())
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"httpget": cmdHTTPGet,
		},
	})
}

// cmdHTTPGet fetches a URL as a JSON client and writes the status line and
// body to stdout.
//
//	httpget <url>
func cmdHTTPGet(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: httpget <url>")
	}
	req, err := http.NewRequest(http.MethodGet, args[0], nil)
	ts.Check(err)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	ts.Check(err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	ts.Check(err)

	_, _ = fmt.Fprintf(ts.Stdout(), "%d\n%s", resp.StatusCode, body)
	ok := resp.StatusCode < 300
	if ok == neg {
		ts.Fatalf("httpget %s: status %d", args[0], resp.StatusCode)
	}
}
