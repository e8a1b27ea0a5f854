// Package controlserver keeps the registry of pact sessions and starts new
// ones through the control server.
//
// Default returns the process-wide instance, configured from the
// environment; New builds an independent one for isolated tests. Each
// instance owns its own registry.
//
//	cs := controlserver.New(controlserver.WithURL("http://localhost:8080"))
//	s, err := cs.StartSession(ctx, "ios-app", "user-api")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer s.Close(ctx)
package controlserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/getmockd/pactkit/pkg/config"
	"github.com/getmockd/pactkit/pkg/dispatch"
	"github.com/getmockd/pactkit/pkg/logging"
	"github.com/getmockd/pactkit/pkg/serviceclient"
	"github.com/getmockd/pactkit/pkg/session"
)

// ErrNoSession is returned when the control server could not provide a mock service.
var ErrNoSession = errors.New("no pact session")

// ControlServer is a registry of sessions keyed by consumer and provider.
// The registry is append-only: closed sessions stay in it.
type ControlServer struct {
	url        string
	timeout    time.Duration
	runTimeout time.Duration
	pactDir    string
	log        *slog.Logger
	queue      *dispatch.Queue

	client *serviceclient.ControlService

	mu       sync.RWMutex
	sessions []*session.Session
}

// Option configures a ControlServer.
type Option func(*ControlServer)

// WithURL sets the control server address.
func WithURL(url string) Option {
	return func(c *ControlServer) {
		c.url = url
	}
}

// WithTimeout sets the HTTP timeout for control and mock service requests.
func WithTimeout(d time.Duration) Option {
	return func(c *ControlServer) {
		c.timeout = d
	}
}

// WithRunTimeout sets the run timeout of every session started.
func WithRunTimeout(d time.Duration) Option {
	return func(c *ControlServer) {
		c.runTimeout = d
	}
}

// WithPactDir sets the export path of every session started.
func WithPactDir(dir string) Option {
	return func(c *ControlServer) {
		c.pactDir = dir
	}
}

// WithLogger sets the logger passed to sessions and clients.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ControlServer) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithQueue sets the queue async completions are delivered on.
func WithQueue(q *dispatch.Queue) Option {
	return func(c *ControlServer) {
		if q != nil {
			c.queue = q
		}
	}
}

// WithConfig applies a loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *ControlServer) {
		if cfg.ControlURL != "" {
			c.url = cfg.ControlURL
		}
		if cfg.Timeout > 0 {
			c.timeout = cfg.Timeout
		}
		c.runTimeout = cfg.RunTimeout
		c.pactDir = cfg.PactDir
		c.log = logging.New(cfg.Logging())
	}
}

// New creates a ControlServer with an empty registry.
func New(opts ...Option) *ControlServer {
	c := &ControlServer{
		url:     serviceclient.DefaultControlURL,
		timeout: serviceclient.DefaultTimeout,
		log:     logging.Nop(),
		queue:   dispatch.Main(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = serviceclient.NewControlService(c.url,
		serviceclient.WithTimeout(c.timeout),
		serviceclient.WithLogger(c.log))
	return c
}

var defaultServer = sync.OnceValue(func() *ControlServer {
	cfg, err := config.Load(".")
	if err != nil {
		cfg = config.NewDefault()
		config.LoadEnv(cfg)
	}
	return New(WithConfig(cfg))
})

// Default returns the process-wide ControlServer, configured on first use
// from .pactkit.yaml and PACTKIT_* environment variables. An unreadable
// config file is ignored.
func Default() *ControlServer {
	return defaultServer()
}

// URL returns the control server address.
func (c *ControlServer) URL() string {
	return c.url
}

// StartSession asks the control server for a mock service and registers a
// new session bound to it. On failure no session is registered and the
// error wraps ErrNoSession.
func (c *ControlServer) StartSession(ctx context.Context, consumer, provider string) (*session.Session, error) {
	location, err := c.client.Start(ctx, consumer, provider)
	if err != nil {
		c.log.Warn("could not start pact session",
			"consumer", consumer, "provider", provider, "error", err)
		return nil, fmt.Errorf("%w for %s/%s: %w", ErrNoSession, consumer, provider, err)
	}

	s := session.New(consumer, provider, location,
		session.WithLogger(c.log),
		session.WithRunTimeout(c.runTimeout),
		session.WithQueue(c.queue),
		session.WithClientOptions(serviceclient.WithTimeout(c.timeout)))
	if c.pactDir != "" {
		s.SetExportPath(c.pactDir)
	}

	c.mu.Lock()
	c.sessions = append(c.sessions, s)
	c.mu.Unlock()

	c.log.Info("pact session started",
		"session", s.ID(), "consumer", consumer, "provider", provider, "url", location)
	return s, nil
}

// StartSessionAsync is StartSession with a completion delivered on the
// queue. The completion receives nil when no session could be started.
func (c *ControlServer) StartSessionAsync(ctx context.Context, consumer, provider string, onComplete func(*session.Session)) {
	go func() {
		s, _ := c.StartSession(ctx, consumer, provider)
		if onComplete != nil {
			c.queue.Post(func() { onComplete(s) })
		}
	}()
}

// Pair names a consumer and a provider.
type Pair struct {
	Consumer string
	Provider string
}

// StartSessions starts a session for every pair concurrently. The returned
// slice is in the order of pairs. If any start fails the first error is
// returned; sessions that did start stay registered.
func (c *ControlServer) StartSessions(ctx context.Context, pairs ...Pair) ([]*session.Session, error) {
	out := make([]*session.Session, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		g.Go(func() error {
			s, err := c.StartSession(gctx, p.Consumer, p.Provider)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// Session returns the most recently started session for the pair, or nil.
func (c *ControlServer) Session(consumer, provider string) *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.sessions) - 1; i >= 0; i-- {
		s := c.sessions[i]
		if s.ConsumerName() == consumer && s.ProviderName() == provider {
			return s
		}
	}
	return nil
}

// Sessions returns a snapshot of the registry in start order.
func (c *ControlServer) Sessions() []*session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.sessions)
}
