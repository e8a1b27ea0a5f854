// Package session drives one mock service through a contract test.
//
// A Session is bound to the mock service that the control server allocated
// for a consumer/provider pair. Test code describes interactions with the
// fluent Given/UponReceiving/With/WillRespondWith chain, then calls Run:
//
//	s.Given("a user with id 1 exists").
//	    UponReceiving("a request for user 1").
//	    With(interaction.GET, pactjson.String("/users/1")).
//	    WillRespondWith(200, interaction.RespondBody(pactjson.Object{"id": pactjson.Int(1)}))
//
//	ok, err := s.Run(ctx, func(done func()) {
//	    resp, _ := http.Get(s.BaseURL() + "/users/1")
//	    resp.Body.Close()
//	    done()
//	})
//
// Run registers the pending interactions, invokes the body, waits for the
// body to call done, asks the mock service to verify and, when verification
// passes, asks it to write the pact file. Verification failure is reported
// as (false, nil); transport failures are errors.
//
// # Waiting
//
// Run has no timeout of its own. A body that never calls done keeps Run
// waiting until ctx is cancelled, which matches the behaviour of the mock
// service clients this package is modelled on. WithRunTimeout bounds the
// wait; when it expires Run returns ErrRunTimeout.
//
// # Concurrency
//
// A Session is meant to be used by one test at a time; the interaction draft
// is not safe for concurrent mutation. Different sessions may run
// concurrently. The async variants deliver their completion exactly once on
// the session's dispatch.Queue.
package session
