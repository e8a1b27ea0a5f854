// Package pactjson defines the JSON value model used on the mock-service wire.
//
// Every value that may appear in an interaction (paths, query values, header
// values, bodies and matchers) implements Renderable. Rendering produces an
// ojg generic node tree, which is the only representation that crosses the
// wire:
//
//	body := pactjson.Object{
//	    "id":   pactjson.Int(42),
//	    "name": pactjson.String("Alice"),
//	    "tags": pactjson.Array{pactjson.String("admin")},
//	}
//	data := pactjson.Encode(body)
//
// Rendering is pure and total. Serialization of a rendered tree can only fail
// for values the package cannot produce, so Encode panics instead of
// returning an error.
package pactjson
