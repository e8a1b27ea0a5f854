package interaction

import (
	"maps"

	"github.com/getmockd/pactkit/pkg/pactjson"
)

// RequestOption sets an optional part of a request draft.
type RequestOption func(*Request)

// WithQuery sets the expected query parameters.
func WithQuery(q pactjson.Query) RequestOption {
	return func(r *Request) { r.Query = q }
}

// WithHeaders sets request headers. They override same-named default headers.
func WithHeaders(h pactjson.Headers) RequestOption {
	return func(r *Request) { r.Headers = h }
}

// WithBody sets the expected request body.
func WithBody(body pactjson.Renderable) RequestOption {
	return func(r *Request) { r.Body = body }
}

// ResponseOption sets an optional part of a response draft.
type ResponseOption func(*Response)

// RespondHeaders sets response headers. They override same-named default headers.
func RespondHeaders(h pactjson.Headers) ResponseOption {
	return func(r *Response) { r.Headers = h }
}

// RespondBody sets the response body.
func RespondBody(body pactjson.Renderable) ResponseOption {
	return func(r *Response) { r.Body = body }
}

// Builder accumulates a single interaction draft.
// It is not safe for concurrent use.
type Builder struct {
	providerState string
	description   string
	request       *Request
	response      *Response

	defaultRequestHeaders  pactjson.Headers
	defaultResponseHeaders pactjson.Headers
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Given sets the provider state. Last write wins.
func (b *Builder) Given(providerState string) *Builder {
	b.providerState = providerState
	return b
}

// UponReceiving sets the description. Last write wins.
func (b *Builder) UponReceiving(description string) *Builder {
	b.description = description
	return b
}

// With sets the request draft, replacing any previous one.
// Request-side default headers are merged in.
func (b *Builder) With(method Method, path pactjson.Renderable, opts ...RequestOption) *Builder {
	req := &Request{Method: method, Path: path}
	for _, opt := range opts {
		opt(req)
	}
	req.Headers = MergeHeaders(b.defaultRequestHeaders, req.Headers)
	b.request = req
	return b
}

// WillRespondWith sets the response draft, replacing any previous one.
// Response-side default headers are merged in.
func (b *Builder) WillRespondWith(status int, opts ...ResponseOption) *Builder {
	resp := &Response{Status: status}
	for _, opt := range opts {
		opt(resp)
	}
	resp.Headers = MergeHeaders(b.defaultResponseHeaders, resp.Headers)
	b.response = resp
	return b
}

// IsValid reports whether Build would succeed.
func (b *Builder) IsValid() bool {
	return b.description != "" && b.request != nil && b.request.Path != nil && b.response != nil
}

// Build returns the completed interaction. The second result is false when
// the description, request (or its path) or response is missing.
func (b *Builder) Build() (Interaction, bool) {
	if !b.IsValid() {
		return Interaction{}, false
	}
	return Interaction{
		Description:   b.description,
		ProviderState: b.providerState,
		Request:       *b.request,
		Response:      *b.response,
	}, true
}

// Clean resets the draft. Default headers are kept.
func (b *Builder) Clean() {
	b.providerState = ""
	b.description = ""
	b.request = nil
	b.response = nil
}

// DefaultRequestHeaders returns the request-side default headers.
func (b *Builder) DefaultRequestHeaders() pactjson.Headers {
	return b.defaultRequestHeaders
}

// SetDefaultRequestHeaders sets the request-side default headers. Nil clears them.
func (b *Builder) SetDefaultRequestHeaders(h pactjson.Headers) {
	b.defaultRequestHeaders = h
}

// DefaultResponseHeaders returns the response-side default headers.
func (b *Builder) DefaultResponseHeaders() pactjson.Headers {
	return b.defaultResponseHeaders
}

// SetDefaultResponseHeaders sets the response-side default headers. Nil clears them.
func (b *Builder) SetDefaultResponseHeaders(h pactjson.Headers) {
	b.defaultResponseHeaders = h
}

// MergeHeaders combines default headers with call-site headers:
//   - both nil: nil
//   - defaults nil: specific, verbatim
//   - specific nil: a copy of defaults
//   - both set: defaults overridden by specific on the same key
func MergeHeaders(defaults, specific pactjson.Headers) pactjson.Headers {
	if defaults == nil {
		return specific
	}
	merged := maps.Clone(defaults)
	maps.Copy(merged, specific)
	return merged
}
