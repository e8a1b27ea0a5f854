// Package testing provides in-process fakes of the pact control server and
// mock service, plus a helper that wires them to a session for Go tests.
//
// # Basic Usage
//
//	func TestAnimalClient(t *testing.T) {
//	    p := pacttest.New(t, "Zoo App", "Animal Service")
//
//	    p.Session.
//	        Given("there is an alligator named Mary").
//	        UponReceiving("a request for an alligator").
//	        With(interaction.GET, pactjson.String("/alligators/Mary")).
//	        WillRespondWith(200, interaction.RespondBody(pactjson.Object{
//	            "name": matcher.Like(pactjson.String("Mary")),
//	        }))
//
//	    ok, err := p.Session.Run(context.Background(), func(done func()) {
//	        client := NewAnimalClient(p.URL())
//	        _, _ = client.Alligator("Mary")
//	        done()
//	    })
//	    require.NoError(t, err)
//	    require.True(t, ok)
//
//	    p.AssertPactWritten(t)
//	}
//
// # Fakes
//
// ControlServer answers POST / by allocating a MockService and returning
// its URL in the X-Pact-Mock-Service-Location header. MockService implements the
// mock service's administrative protocol: it replays registered
// interactions, honors term, like and each-like matchers when matching
// requests, verifies that every interaction was exercised and writes pact
// files with matchers replaced by their examples.
//
// Both fakes expose inspectors (Interactions, AdminCalls, SessionClosed,
// PactFiles) for assertions that would need a real mock service's logs.
package testing
