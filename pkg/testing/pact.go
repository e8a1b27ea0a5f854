package testing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getmockd/pactkit/pkg/controlserver"
	"github.com/getmockd/pactkit/pkg/serviceclient"
	"github.com/getmockd/pactkit/pkg/session"
)

// Pact is a session started on a private fake control server.
type Pact struct {
	// Control is the fake control server the session was started on.
	Control *ControlServer
	// Server is the client-side registry holding the session.
	Server *controlserver.ControlServer
	// Session is the running session.
	Session *session.Session
	// PactDir is where pact files are written.
	PactDir string
}

// New starts a fake control server, starts a session for consumer and
// provider on it, and closes both when the test completes. Pact files go to
// a per-test temporary directory.
func New(t testing.TB, consumer, provider string, opts ...controlserver.Option) *Pact {
	t.Helper()

	dir := t.TempDir()
	control := NewControlServer(dir)
	t.Cleanup(control.Close)

	opts = append([]controlserver.Option{
		controlserver.WithURL(control.URL()),
		controlserver.WithPactDir(dir),
	}, opts...)
	server := controlserver.New(opts...)

	s, err := server.StartSession(context.Background(), consumer, provider)
	if err != nil {
		t.Fatalf("starting pact session: %v", err)
	}
	t.Cleanup(func() {
		if s.IsOpen() {
			_ = s.Close(context.Background())
		}
	})

	return &Pact{
		Control: control,
		Server:  server,
		Session: s,
		PactDir: dir,
	}
}

// URL returns the mock service URL the code under test should call.
func (p *Pact) URL() string {
	return p.Session.BaseURL()
}

// MockService returns the fake mock service behind the session.
func (p *Pact) MockService() *MockService {
	return p.Control.MockServiceFor(p.Session.ConsumerName(), p.Session.ProviderName())
}

// Verify asks the mock service whether every registered interaction was
// exercised.
func (p *Pact) Verify(ctx context.Context) (bool, error) {
	return serviceclient.NewMockService(p.URL()).Verify(ctx)
}

// AssertVerified fails the test unless verification passes.
func (p *Pact) AssertVerified(t testing.TB) {
	t.Helper()
	ok, err := p.Verify(context.Background())
	if err != nil {
		t.Errorf("verifying interactions: %v", err)
		return
	}
	if !ok {
		t.Errorf("interactions were not verified")
	}
}

// AssertInteractions fails the test unless the mock service holds exactly n
// registered interactions.
func (p *Pact) AssertInteractions(t testing.TB, n int) {
	t.Helper()
	if got := len(p.MockService().Interactions()); got != n {
		t.Errorf("mock service has %d interactions, want %d", got, n)
	}
}

// PactFile returns the path the pact file for this session is written to.
func (p *Pact) PactFile() string {
	return filepath.Join(p.PactDir, PactFileName(p.Session.ConsumerName(), p.Session.ProviderName()))
}

// AssertPactWritten fails the test unless the pact file exists, and returns
// its path.
func (p *Pact) AssertPactWritten(t testing.TB) string {
	t.Helper()
	path := p.PactFile()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("pact file not written: %v", err)
	}
	return path
}
