// Package matcher provides structural expectations for interaction values.
//
// A matcher is used in place of a literal value anywhere a request or
// response accepts a pactjson.Renderable: a path, a query or header value,
// or any part of a body. Matchers nest freely.
//
//	body := pactjson.Object{
//	    "date":  matcher.Term("02/11/2013", `\d{2}/\d{2}/\d{4}`),
//	    "count": matcher.Like(pactjson.Int(10)),
//	    "items": matcher.EachLike(pactjson.Object{"name": pactjson.String("foo")}),
//	}
package matcher

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/gen"

	"github.com/getmockd/pactkit/pkg/pactjson"
)

// ErrInvalidArgument is returned when a matcher is constructed with an invalid parameter.
var ErrInvalidArgument = errors.New("invalid argument")

// Wire tags understood by the mock service.
const (
	ClassKey       = "json_class"
	ClassTerm      = "Pact::Term"
	ClassLike      = "Pact::SomethingLike"
	ClassEachLike  = "Pact::ArrayLike"
	ClassRegexp    = "Regexp"
	DefaultMinimum = 1
)

// Kind identifies a matcher variant.
type Kind string

// Matcher kinds.
const (
	KindTerm     Kind = "term"
	KindLike     Kind = "like"
	KindEachLike Kind = "each_like"
)

// TermMatcher matches strings against a regular expression and uses
// Generate as the example value.
type TermMatcher struct {
	Generate string
	Pattern  string
}

// PactJSON implements pactjson.Renderable.
func (m TermMatcher) PactJSON() gen.Node {
	return gen.Object{
		ClassKey: gen.String(ClassTerm),
		"data": gen.Object{
			"generate": gen.String(m.Generate),
			"matcher": gen.Object{
				ClassKey: gen.String(ClassRegexp),
				"o":      gen.Int(0),
				"s":      gen.String(m.Pattern),
			},
		},
	}
}

// LikeMatcher asserts that a value of the same shape and type is present.
type LikeMatcher struct {
	Value pactjson.Renderable
}

// PactJSON implements pactjson.Renderable.
func (m LikeMatcher) PactJSON() gen.Node {
	return gen.Object{
		ClassKey:   gen.String(ClassLike),
		"contents": render(m.Value),
	}
}

// EachLikeMatcher asserts an array whose elements each look like Value,
// with at least Min elements.
type EachLikeMatcher struct {
	Value pactjson.Renderable
	Min   int
}

// PactJSON implements pactjson.Renderable.
func (m EachLikeMatcher) PactJSON() gen.Node {
	return gen.Object{
		ClassKey:   gen.String(ClassEachLike),
		"contents": render(m.Value),
		"min":      gen.Int(m.Min),
	}
}

// Term returns a regular-expression matcher.
func Term(generate, pattern string) pactjson.Renderable {
	return TermMatcher{Generate: generate, Pattern: pattern}
}

// Like returns a type matcher for value.
func Like(value pactjson.Renderable) pactjson.Renderable {
	return LikeMatcher{Value: value}
}

// EachLike returns an array matcher requiring at least one element.
func EachLike(value pactjson.Renderable) pactjson.Renderable {
	return EachLikeMatcher{Value: value, Min: DefaultMinimum}
}

// EachLikeN returns an array matcher requiring at least min elements.
func EachLikeN(value pactjson.Renderable, min int) (pactjson.Renderable, error) {
	if min < 0 {
		return nil, fmt.Errorf("each-like minimum %d: %w", min, ErrInvalidArgument)
	}
	return EachLikeMatcher{Value: value, Min: min}, nil
}

// MustEachLikeN is like EachLikeN but panics on a negative minimum.
func MustEachLikeN(value pactjson.Renderable, min int) pactjson.Renderable {
	m, err := EachLikeN(value, min)
	if err != nil {
		panic(err)
	}
	return m
}

// Classify reports which matcher, if any, a rendered node encodes.
func Classify(n gen.Node) (Kind, bool) {
	obj, ok := n.(gen.Object)
	if !ok {
		return "", false
	}
	class, ok := obj[ClassKey].(gen.String)
	if !ok {
		return "", false
	}
	switch string(class) {
	case ClassTerm:
		return KindTerm, true
	case ClassLike:
		return KindLike, true
	case ClassEachLike:
		return KindEachLike, true
	}
	return "", false
}

// ClassifyValue is Classify for simplified data (map[string]any).
func ClassifyValue(v any) (Kind, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	switch obj[ClassKey] {
	case ClassTerm:
		return KindTerm, true
	case ClassLike:
		return KindLike, true
	case ClassEachLike:
		return KindEachLike, true
	}
	return "", false
}

func render(r pactjson.Renderable) gen.Node {
	if r == nil {
		return gen.Object{}
	}
	return r.PactJSON()
}
