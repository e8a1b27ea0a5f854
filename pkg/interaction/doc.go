// Package interaction models the expected request/response exchanges that are
// registered with a mock service.
//
// An Interaction is an immutable value: a description, an optional provider
// state, a Request and a Response. Interactions are produced by a Builder,
// which accumulates one draft at a time and only yields a value once the
// description, request and response have all been set:
//
//	b := interaction.NewBuilder()
//	b.Given("a user with id 1 exists").
//	    UponReceiving("a request for user 1").
//	    With(interaction.GET, pactjson.String("/users/1")).
//	    WillRespondWith(200, interaction.RespondBody(pactjson.Object{
//	        "id": matcher.Like(pactjson.Int(1)),
//	    }))
//	in, ok := b.Build()
//
// # Default Headers
//
// A Builder carries request and response default headers that outlive
// individual drafts. They are merged into every interaction built while they
// are set; see MergeHeaders for the exact policy.
package interaction
