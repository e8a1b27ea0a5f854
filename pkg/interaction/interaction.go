package interaction

import (
	"github.com/ohler55/ojg/gen"

	"github.com/getmockd/pactkit/pkg/pactjson"
)

// Request describes the request the consumer is expected to send.
// Nil Query, Headers and Body are omitted from the wire form.
type Request struct {
	Method  Method
	Path    pactjson.Renderable
	Query   pactjson.Query
	Headers pactjson.Headers
	Body    pactjson.Renderable
}

// PactJSON implements pactjson.Renderable.
func (r Request) PactJSON() gen.Node {
	out := gen.Object{
		"method": gen.String(r.Method.String()),
	}
	if r.Path != nil {
		out["path"] = r.Path.PactJSON()
	}
	if r.Query != nil {
		out["query"] = r.Query.PactJSON()
	}
	if r.Headers != nil {
		out["headers"] = r.Headers.PactJSON()
	}
	if r.Body != nil {
		out["body"] = r.Body.PactJSON()
	}
	return out
}

// Response describes what the mock service answers with.
type Response struct {
	Status  int
	Headers pactjson.Headers
	Body    pactjson.Renderable
}

// PactJSON implements pactjson.Renderable.
func (r Response) PactJSON() gen.Node {
	out := gen.Object{
		"status": gen.Int(r.Status),
	}
	if r.Headers != nil {
		out["headers"] = r.Headers.PactJSON()
	}
	if r.Body != nil {
		out["body"] = r.Body.PactJSON()
	}
	return out
}

// Interaction is one expected request/response exchange.
type Interaction struct {
	Description string
	// ProviderState is the precondition the provider must be put into.
	// Empty means none.
	ProviderState string
	Request       Request
	Response      Response
}

// PactJSON implements pactjson.Renderable.
func (i Interaction) PactJSON() gen.Node {
	out := gen.Object{
		"description": gen.String(i.Description),
		"request":     i.Request.PactJSON(),
		"response":    i.Response.PactJSON(),
	}
	if i.ProviderState != "" {
		out["providerState"] = gen.String(i.ProviderState)
	}
	return out
}

// List renders a slice of interactions as a JSON array.
type List []Interaction

// PactJSON implements pactjson.Renderable.
func (l List) PactJSON() gen.Node {
	out := make(gen.Array, 0, len(l))
	for _, i := range l {
		out = append(out, i.PactJSON())
	}
	return out
}
