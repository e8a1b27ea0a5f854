package pactjson

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/gen"
	"github.com/ohler55/ojg/oj"
)

// Renderable is implemented by every value that can be sent to the mock service.
type Renderable interface {
	PactJSON() gen.Node
}

// Headers maps header names to expected values.
type Headers map[string]Renderable

// Query maps query parameter names to expected values.
type Query map[string]Renderable

// String is a JSON string.
type String string

// PactJSON implements Renderable.
func (s String) PactJSON() gen.Node { return gen.String(s) }

// Int is a JSON integer.
type Int int64

// PactJSON implements Renderable.
func (i Int) PactJSON() gen.Node { return gen.Int(i) }

// Float is a JSON floating point number.
type Float float64

// PactJSON implements Renderable.
func (f Float) PactJSON() gen.Node { return gen.Float(f) }

// Bool is a JSON boolean.
type Bool bool

// PactJSON implements Renderable.
func (b Bool) PactJSON() gen.Node { return gen.Bool(b) }

// Array is an ordered JSON array. Nil members are skipped.
type Array []Renderable

// PactJSON implements Renderable.
func (a Array) PactJSON() gen.Node {
	out := make(gen.Array, 0, len(a))
	for _, v := range a {
		if v == nil {
			continue
		}
		out = append(out, v.PactJSON())
	}
	return out
}

// Object is a JSON object. Key order is irrelevant; nil members are skipped.
type Object map[string]Renderable

// PactJSON implements Renderable.
func (o Object) PactJSON() gen.Node {
	out := make(gen.Object, len(o))
	for k, v := range o {
		if v == nil {
			continue
		}
		out[k] = v.PactJSON()
	}
	return out
}

// PactJSON renders query values as an object.
func (q Query) PactJSON() gen.Node { return Object(q).PactJSON() }

// PactJSON renders header values as an object.
func (h Headers) PactJSON() gen.Node { return Object(h).PactJSON() }

// Node wraps an already rendered node so it can be embedded in other values.
type Node struct {
	gen.Node
}

// PactJSON implements Renderable.
func (n Node) PactJSON() gen.Node { return n.Node }

// Simplify renders r and converts the result to plain Go values
// (map[string]any, []any, string, int64, float64, bool).
func Simplify(r Renderable) any {
	if r == nil {
		return nil
	}
	return r.PactJSON().Simplify()
}

// Encode renders r and serializes it to JSON.
// It panics if the rendered tree cannot be serialized.
func Encode(r Renderable) []byte {
	data, err := json.Marshal(Simplify(r))
	if err != nil {
		panic(fmt.Sprintf("pactjson: could not serialize value: %v", err))
	}
	return data
}

// Pretty renders r as indented JSON with sorted keys.
func Pretty(r Renderable) string {
	return oj.JSON(Simplify(r), &oj.Options{Indent: 2, Sort: true})
}
