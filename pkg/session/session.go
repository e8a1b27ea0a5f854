package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/pactkit/pkg/dispatch"
	"github.com/getmockd/pactkit/pkg/interaction"
	"github.com/getmockd/pactkit/pkg/logging"
	"github.com/getmockd/pactkit/pkg/pactjson"
	"github.com/getmockd/pactkit/pkg/serviceclient"
)

var (
	// ErrSessionClosed is returned by Run on a session that has been closed.
	ErrSessionClosed = errors.New("pact session is already closed")
	// ErrRunTimeout is returned by Run when the body does not signal
	// completion within the configured run timeout.
	ErrRunTimeout = errors.New("pact run timed out waiting for the test body")
)

// Session owns one mock service and the interactions queued for it.
type Session struct {
	id       string
	consumer string
	provider string

	client     *serviceclient.MockService
	builder    *interaction.Builder
	queue      *dispatch.Queue
	log        *slog.Logger
	runTimeout time.Duration
	clientOpts []serviceclient.Option

	mu           sync.Mutex
	open         bool
	interactions []interaction.Interaction
	exportPath   string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The session adds its own identity attributes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithRunTimeout bounds how long Run waits for the body to call done.
// Zero, the default, waits until the context is cancelled.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.runTimeout = d
	}
}

// WithQueue sets the queue async completions are delivered on.
// Defaults to dispatch.Main().
func WithQueue(q *dispatch.Queue) Option {
	return func(s *Session) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithClientOptions passes options to the mock service client.
func WithClientOptions(opts ...serviceclient.Option) Option {
	return func(s *Session) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// New creates an open session bound to the mock service at baseURL.
func New(consumer, provider, baseURL string, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		consumer: consumer,
		provider: provider,
		builder:  interaction.NewBuilder(),
		queue:    dispatch.Main(),
		log:      logging.Nop(),
		open:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.ForSession(s.log, s.id, consumer, provider)
	s.client = serviceclient.NewMockService(baseURL,
		append([]serviceclient.Option{serviceclient.WithLogger(s.log)}, s.clientOpts...)...)
	return s
}

// ID returns the session's unique identifier, used for log correlation.
func (s *Session) ID() string { return s.id }

// ConsumerName returns the consumer this session was started for.
func (s *Session) ConsumerName() string { return s.consumer }

// ProviderName returns the provider this session was started for.
func (s *Session) ProviderName() string { return s.provider }

// BaseURL returns the mock service address. The system under test should
// send its requests here.
func (s *Session) BaseURL() string { return s.client.BaseURL() }

// IsOpen reports whether the session has not been closed yet.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// ExportPath returns the directory the pact file is written to, if set.
func (s *Session) ExportPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportPath
}

// SetExportPath sets where the mock service writes the pact file. Only
// local paths and file:// URLs are honored.
func (s *Session) SetExportPath(p string) {
	s.mu.Lock()
	s.exportPath = p
	s.mu.Unlock()
}

// DefaultRequestHeaders returns the headers merged into every request.
func (s *Session) DefaultRequestHeaders() pactjson.Headers {
	return s.builder.DefaultRequestHeaders()
}

// SetDefaultRequestHeaders sets the headers merged into every request.
func (s *Session) SetDefaultRequestHeaders(h pactjson.Headers) {
	s.builder.SetDefaultRequestHeaders(h)
}

// DefaultResponseHeaders returns the headers merged into every response.
func (s *Session) DefaultResponseHeaders() pactjson.Headers {
	return s.builder.DefaultResponseHeaders()
}

// SetDefaultResponseHeaders sets the headers merged into every response.
func (s *Session) SetDefaultResponseHeaders(h pactjson.Headers) {
	s.builder.SetDefaultResponseHeaders(h)
}

// Interactions returns a copy of the pending interactions.
func (s *Session) Interactions() []interaction.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.interactions)
}

// AddInteractions queues already built interactions, e.g. ones loaded from
// a contract file.
func (s *Session) AddInteractions(in ...interaction.Interaction) {
	s.mu.Lock()
	s.interactions = append(s.interactions, in...)
	s.mu.Unlock()
}

// Given sets the provider state of the current draft.
func (s *Session) Given(providerState string) *Session {
	s.builder.Given(providerState)
	return s
}

// UponReceiving sets the description of the current draft.
func (s *Session) UponReceiving(description string) *Session {
	s.builder.UponReceiving(description)
	return s
}

// With sets the expected request of the current draft.
func (s *Session) With(method interaction.Method, path pactjson.Renderable, opts ...interaction.RequestOption) *Session {
	s.builder.With(method, path, opts...)
	return s
}

// WillRespondWith sets the response of the current draft. When the draft is
// complete the interaction is queued and the draft reset; otherwise the
// draft is kept as is.
func (s *Session) WillRespondWith(status int, opts ...interaction.ResponseOption) *Session {
	s.builder.WillRespondWith(status, opts...)
	in, ok := s.builder.Build()
	if !ok {
		s.log.Debug("interaction draft incomplete, not queued")
		return s
	}
	s.AddInteractions(in)
	s.builder.Clean()
	return s
}

// Run registers the pending interactions, runs body and verifies the
// result. body must call done once every exchange with the mock service
// has happened; done may be called from any goroutine and more than once.
//
// Returns (true, nil) when verification passed and the pact was written,
// (false, nil) when the mock service reported a mismatch, and an error for
// a closed session, a transport failure or an expired wait.
func (s *Session) Run(ctx context.Context, body func(done func())) (bool, error) {
	if !s.IsOpen() {
		s.log.Warn("pact session is already closed")
		return false, ErrSessionClosed
	}

	pending := s.Interactions()
	if err := s.client.RegisterInteractions(ctx, pending); err != nil {
		return false, err
	}
	s.log.Debug("registered interactions", "count", len(pending))

	if err := s.await(ctx, body); err != nil {
		return false, err
	}

	ok, err := s.client.Verify(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		s.log.Info("pact verification failed")
		return false, nil
	}

	if err := s.client.WritePact(ctx, s.consumer, s.provider, s.ExportPath()); err != nil {
		return false, fmt.Errorf("verified but could not persist pact: %w", err)
	}
	s.log.Info("pact verified and written")
	return true, nil
}

// await invokes body and blocks until it signals completion.
func (s *Session) await(ctx context.Context, body func(done func())) error {
	doneCh := make(chan struct{})
	var once sync.Once
	done := func() {
		once.Do(func() { close(doneCh) })
	}

	waitCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeoutCause(ctx, s.runTimeout, ErrRunTimeout)
		defer cancel()
	}

	body(done)

	select {
	case <-doneCh:
		return nil
	case <-waitCtx.Done():
		return context.Cause(waitCtx)
	}
}

// Clean removes every interaction from the mock service and, once that
// succeeded, from the session.
func (s *Session) Clean(ctx context.Context) error {
	if err := s.client.CleanInteractions(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.interactions = nil
	s.mu.Unlock()
	return nil
}

// Close tears down the mock service session and marks the session closed.
func (s *Session) Close(ctx context.Context) error {
	if err := s.client.CloseSession(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	s.log.Debug("session closed")
	return nil
}

// RunAsync is Run with a completion callback. body and onComplete both run on
// the session's queue; onComplete runs exactly once.
func (s *Session) RunAsync(ctx context.Context, body func(done func()), onComplete func(ok bool, err error)) {
	queued := func(done func()) {
		s.queue.Post(func() { body(done) })
	}
	go func() {
		ok, err := s.Run(ctx, queued)
		s.complete(func() { onComplete(ok, err) }, onComplete == nil)
	}()
}

// CleanAsync is Clean with a completion callback delivered on the session's queue.
func (s *Session) CleanAsync(ctx context.Context, onComplete func(err error)) {
	go func() {
		err := s.Clean(ctx)
		s.complete(func() { onComplete(err) }, onComplete == nil)
	}()
}

// CloseAsync is Close with a completion callback delivered on the session's queue.
func (s *Session) CloseAsync(ctx context.Context, onComplete func(err error)) {
	go func() {
		err := s.Close(ctx)
		s.complete(func() { onComplete(err) }, onComplete == nil)
	}()
}

func (s *Session) complete(fn func(), skip bool) {
	if skip {
		return
	}
	s.queue.Post(fn)
}
