package serviceclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// DefaultControlURL is where the control server listens unless configured otherwise.
const DefaultControlURL = "http://localhost:8080"

// ControlService is a client for the control server.
type ControlService struct {
	base
}

// NewControlService creates a control server client. An empty baseURL uses
// DefaultControlURL.
func NewControlService(baseURL string, opts ...Option) *ControlService {
	if baseURL == "" {
		baseURL = DefaultControlURL
	}
	return &ControlService{base: newBase(baseURL, opts)}
}

// Start asks the control server for a mock service dedicated to the
// consumer/provider pair and returns its base address.
func (c *ControlService) Start(ctx context.Context, consumer, provider string) (string, error) {
	headers := map[string]string{
		HeaderConsumer: consumer,
		HeaderProvider: provider,
	}
	resp, err := c.do(ctx, http.MethodPost, "/", headers, nil)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return "", c.statusError("start session", resp)
	}

	location := resp.Header.Get(HeaderMockServiceLocation)
	if location == "" {
		return "", ErrMissingLocation
	}
	if _, err := url.ParseRequestURI(location); err != nil {
		return "", fmt.Errorf("start session: invalid location %q: %w", location, err)
	}
	return location, nil
}
