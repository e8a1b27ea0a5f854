package serviceclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/getmockd/pactkit/pkg/interaction"
	"github.com/getmockd/pactkit/pkg/pactjson"
)

var adminHeaders = map[string]string{
	HeaderMockService: "true",
	"Content-Type":    "application/json",
}

// MockService is a client for one allocated mock service.
type MockService struct {
	base
}

// NewMockService creates a client for the mock service at baseURL.
func NewMockService(baseURL string, opts ...Option) *MockService {
	return &MockService{base: newBase(baseURL, opts)}
}

// RegisterInteraction registers a single interaction.
func (c *MockService) RegisterInteraction(ctx context.Context, in interaction.Interaction) error {
	return c.RegisterInteractions(ctx, []interaction.Interaction{in})
}

// RegisterInteractions replaces the mock service's interactions with the given list.
func (c *MockService) RegisterInteractions(ctx context.Context, interactions []interaction.Interaction) error {
	body := pactjson.Encode(pactjson.Object{
		"interactions": interaction.List(interactions),
	})
	resp, err := c.do(ctx, http.MethodPut, "/interactions", adminHeaders, body)
	if err != nil {
		return fmt.Errorf("register interactions: %w", err)
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return c.statusError("register interactions", resp)
	}
	return nil
}

// Verify asks the mock service whether every registered interaction was
// exercised and nothing unexpected happened. A reachable mock service that
// reports a mismatch yields (false, nil).
func (c *MockService) Verify(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/interactions/verification", adminHeaders, nil)
	if err != nil {
		return false, fmt.Errorf("verify interactions: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("pact verification failed",
			"status", resp.StatusCode,
			"detail", strings.TrimSpace(string(detail)))
		return false, nil
	}
	return true, nil
}

// CleanInteractions removes every registered interaction.
func (c *MockService) CleanInteractions(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/interactions", adminHeaders, nil)
	if err != nil {
		return fmt.Errorf("clean interactions: %w", err)
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return c.statusError("clean interactions", resp)
	}
	return nil
}

// Pacticipant names a consumer or provider.
type Pacticipant struct {
	Name string `json:"name"`
}

// WritePactRequest is the body of POST /pact.
type WritePactRequest struct {
	Consumer Pacticipant `json:"consumer"`
	Provider Pacticipant `json:"provider"`
	PactDir  string      `json:"pact_dir,omitempty"`
}

// NewWritePactRequest builds the write request. exportPath is only honored
// when it names a local filesystem location: a plain path or a file:// URL.
func NewWritePactRequest(consumer, provider, exportPath string) WritePactRequest {
	return WritePactRequest{
		Consumer: Pacticipant{Name: consumer},
		Provider: Pacticipant{Name: provider},
		PactDir:  LocalPath(exportPath),
	}
}

// LocalPath returns the filesystem path for p, or "" when p is empty or a
// non-file URL.
func LocalPath(p string) string {
	if p == "" {
		return ""
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// plain path; a one-letter scheme is a Windows drive
		return filepath.Clean(p)
	}
	if u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// WritePact asks the mock service to persist the contract.
func (c *MockService) WritePact(ctx context.Context, consumer, provider, exportPath string) error {
	body, err := json.Marshal(NewWritePactRequest(consumer, provider, exportPath))
	if err != nil {
		return fmt.Errorf("write pact: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/pact", adminHeaders, body)
	if err != nil {
		return fmt.Errorf("write pact: %w", err)
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return c.statusError("write pact", resp)
	}
	return nil
}

// CloseSession tears down the mock service session.
func (c *MockService) CloseSession(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/session", adminHeaders, nil)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return c.statusError("close session", resp)
	}
	return nil
}
