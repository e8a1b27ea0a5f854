package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/getmockd/pactkit/pkg/serviceclient"
)

// PactSpecificationVersion is the version written into pact files.
const PactSpecificationVersion = "2.0.0"

type registered struct {
	raw     map[string]any
	matched int
}

// MockService is an in-process implementation of the mock-service protocol.
// It replays registered interactions, records whether each one was
// exercised, and writes pact files.
type MockService struct {
	srv *httptest.Server

	mu           sync.Mutex
	consumer     string
	provider     string
	pactDir      string
	interactions []*registered
	verified     []map[string]any
	unexpected   []string
	adminCalls   int
	closed       bool
	pactFiles    []string
}

// MockServiceOption configures a MockService.
type MockServiceOption func(*MockService)

// WithPactDir sets the directory pact files are written to when the write
// request carries no pact_dir.
func WithPactDir(dir string) MockServiceOption {
	return func(m *MockService) {
		m.pactDir = dir
	}
}

// WithPacticipants sets the consumer and provider names used when a write
// request omits them.
func WithPacticipants(consumer, provider string) MockServiceOption {
	return func(m *MockService) {
		m.consumer = consumer
		m.provider = provider
	}
}

// NewMockService starts a mock service on a random local port.
func NewMockService(opts ...MockServiceOption) *MockService {
	m := &MockService{pactDir: "pacts"}
	for _, opt := range opts {
		opt(m)
	}
	m.srv = httptest.NewServer(m)
	return m
}

// URL returns the base URL of the mock service.
func (m *MockService) URL() string {
	return m.srv.URL
}

// Close shuts the server down.
func (m *MockService) Close() {
	m.srv.Close()
}

// Interactions returns the currently registered interactions as decoded JSON.
func (m *MockService) Interactions() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, len(m.interactions))
	for i, r := range m.interactions {
		out[i] = r.raw
	}
	return out
}

// AdminCalls returns how many control requests the mock service received.
func (m *MockService) AdminCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adminCalls
}

// SessionClosed reports whether DELETE /session was received.
func (m *MockService) SessionClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// PactFiles returns the paths of the pact files written so far.
func (m *MockService) PactFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.pactFiles)
}

// ServeHTTP implements http.Handler.
func (m *MockService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		http.Error(w, "mock service session closed", http.StatusNotFound)
		return
	}

	if r.Header.Get(serviceclient.HeaderMockService) == "true" {
		m.serveAdmin(w, r)
		return
	}
	m.serveInteraction(w, r)
}

func (m *MockService) serveAdmin(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.adminCalls++
	m.mu.Unlock()

	switch {
	case r.Method == http.MethodPut && r.URL.Path == "/interactions":
		m.handleRegister(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/interactions":
		m.handleList(w)
	case r.Method == http.MethodDelete && r.URL.Path == "/interactions":
		m.handleClear(w)
	case r.Method == http.MethodGet && r.URL.Path == "/interactions/verification":
		m.handleVerify(w)
	case r.Method == http.MethodPost && r.URL.Path == "/pact":
		m.handleWrite(w, r)
	case r.Method == http.MethodDelete && r.URL.Path == "/session":
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "session closed"})
	default:
		http.NotFound(w, r)
	}
}

func (m *MockService) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Interactions []map[string]any `json:"interactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid interactions: "+err.Error(), http.StatusBadRequest)
		return
	}
	for i, in := range req.Interactions {
		request, _ := in["request"].(map[string]any)
		if in["description"] == nil || request == nil || request["path"] == nil || in["response"] == nil {
			http.Error(w, fmt.Sprintf("interaction %d is incomplete", i), http.StatusBadRequest)
			return
		}
	}

	m.mu.Lock()
	m.interactions = nil
	for _, in := range req.Interactions {
		m.interactions = append(m.interactions, &registered{raw: in})
	}
	m.unexpected = nil
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Registered interactions"})
}

func (m *MockService) handleList(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"interactions": m.Interactions()})
}

func (m *MockService) handleClear(w http.ResponseWriter) {
	m.mu.Lock()
	m.interactions = nil
	m.unexpected = nil
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cleared interactions"})
}

func (m *MockService) handleVerify(w http.ResponseWriter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []string
	for _, in := range m.interactions {
		if in.matched == 0 {
			missing = append(missing, describe(in.raw))
		}
	}

	if len(missing) > 0 || len(m.unexpected) > 0 {
		var b strings.Builder
		b.WriteString("Actual interactions do not match expected interactions for mock service.\n")
		for _, d := range missing {
			b.WriteString("Missing request: " + d + "\n")
		}
		for _, d := range m.unexpected {
			b.WriteString("Unexpected request: " + d + "\n")
		}
		http.Error(w, b.String(), http.StatusInternalServerError)
		return
	}

	for _, in := range m.interactions {
		m.remember(in.raw)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Interactions matched")
}

// remember keeps a verified interaction for the pact file, replacing an
// earlier one with the same description and provider state. Caller holds mu.
func (m *MockService) remember(in map[string]any) {
	for i, v := range m.verified {
		if v["description"] == in["description"] && v["providerState"] == in["providerState"] {
			m.verified[i] = in
			return
		}
	}
	m.verified = append(m.verified, in)
}

func (m *MockService) handleWrite(w http.ResponseWriter, r *http.Request) {
	var req serviceclient.WritePactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid pact request: "+err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	consumer, provider, dir := req.Consumer.Name, req.Provider.Name, req.PactDir
	if consumer == "" {
		consumer = m.consumer
	}
	if provider == "" {
		provider = m.provider
	}
	if dir == "" {
		dir = m.pactDir
	}
	interactions := make([]any, 0, len(m.verified))
	for _, in := range m.verified {
		interactions = append(interactions, reify(in))
	}
	m.mu.Unlock()

	pact := map[string]any{
		"consumer":     map[string]string{"name": consumer},
		"provider":     map[string]string{"name": provider},
		"interactions": interactions,
		"metadata": map[string]any{
			"pactSpecification": map[string]string{"version": PactSpecificationVersion},
		},
	}

	path, err := writePactFile(dir, consumer, provider, pact)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.mu.Lock()
	m.pactFiles = append(m.pactFiles, path)
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, pact)
}

func (m *MockService) serveInteraction(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	var hit *registered
	for _, in := range m.interactions {
		req, _ := in.raw["request"].(map[string]any)
		if req != nil && matchRequest(req, r, body) {
			hit = in
			break
		}
	}
	if hit == nil {
		m.unexpected = append(m.unexpected, r.Method+" "+r.URL.RequestURI())
		m.mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": fmt.Sprintf("No interaction found for %s %s", r.Method, r.URL.RequestURI()),
		})
		return
	}
	hit.matched++
	resp, _ := hit.raw["response"].(map[string]any)
	m.mu.Unlock()

	writeResponse(w, resp)
}

// writeResponse replays a registered response with matchers reified.
func writeResponse(w http.ResponseWriter, resp map[string]any) {
	status := http.StatusOK
	if s, ok := resp["status"].(float64); ok {
		status = int(s)
	}

	if headers, ok := reify(resp["headers"]).(map[string]any); ok {
		for k, v := range headers {
			w.Header().Set(k, fmt.Sprint(v))
		}
	}

	body, hasBody := resp["body"]
	if !hasBody {
		w.WriteHeader(status)
		return
	}

	value := reify(body)
	if s, ok := value.(string); ok && !strings.Contains(w.Header().Get("Content-Type"), "json") {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, s)
		return
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// PactFileName returns the file name used for a consumer/provider pair.
func PactFileName(consumer, provider string) string {
	normalize := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	}
	return normalize(consumer) + "-" + normalize(provider) + ".json"
}

func writePactFile(dir, consumer, provider string, pact map[string]any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating pact dir: %w", err)
	}
	data, err := json.MarshalIndent(pact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding pact: %w", err)
	}
	path := filepath.Join(dir, PactFileName(consumer, provider))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing pact: %w", err)
	}
	return path, nil
}

func describe(in map[string]any) string {
	req, _ := in["request"].(map[string]any)
	method, _ := req["method"].(string)
	path := reify(req["path"])
	return fmt.Sprintf("%s %v (%v)", strings.ToUpper(method), path, in["description"])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
