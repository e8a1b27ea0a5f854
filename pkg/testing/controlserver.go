package testing

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/getmockd/pactkit/pkg/serviceclient"
)

// ControlServer is an in-process control server. Every POST / allocates a
// new MockService for the consumer/provider pair named in the headers.
type ControlServer struct {
	srv     *httptest.Server
	pactDir string

	mu           sync.Mutex
	services     []*MockService
	omitLocation bool
}

// NewControlServer starts a control server on a random local port. Mock
// services it allocates write pact files to pactDir by default.
func NewControlServer(pactDir string) *ControlServer {
	c := &ControlServer{pactDir: pactDir}
	c.srv = httptest.NewServer(c)
	return c
}

// URL returns the base URL of the control server.
func (c *ControlServer) URL() string {
	return c.srv.URL
}

// SetOmitLocation makes the server answer without a mock-service location,
// so clients cannot start sessions.
func (c *ControlServer) SetOmitLocation(omit bool) {
	c.mu.Lock()
	c.omitLocation = omit
	c.mu.Unlock()
}

// MockServices returns every mock service allocated so far.
func (c *ControlServer) MockServices() []*MockService {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*MockService, len(c.services))
	copy(out, c.services)
	return out
}

// MockServiceFor returns the most recently allocated mock service for the
// pair, or nil.
func (c *ControlServer) MockServiceFor(consumer, provider string) *MockService {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.services) - 1; i >= 0; i-- {
		m := c.services[i]
		if m.consumer == consumer && m.provider == provider {
			return m
		}
	}
	return nil
}

// Close shuts down the control server and every mock service it allocated.
func (c *ControlServer) Close() {
	c.srv.Close()
	for _, m := range c.MockServices() {
		m.Close()
	}
}

// ServeHTTP implements http.Handler.
func (c *ControlServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	consumer := r.Header.Get(serviceclient.HeaderConsumer)
	provider := r.Header.Get(serviceclient.HeaderProvider)
	if consumer == "" || provider == "" {
		http.Error(w, "consumer and provider headers are required", http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	omit := c.omitLocation
	c.mu.Unlock()
	if omit {
		w.WriteHeader(http.StatusOK)
		return
	}

	m := NewMockService(WithPactDir(c.pactDir), WithPacticipants(consumer, provider))
	c.mu.Lock()
	c.services = append(c.services, m)
	c.mu.Unlock()

	w.Header().Set(serviceclient.HeaderMockServiceLocation, m.URL())
	w.WriteHeader(http.StatusOK)
}
