// Package serviceclient implements the HTTP side of the pact mock-service
// protocols.
//
// ControlService talks to the control server that allocates one mock service
// per consumer/provider pair. MockService talks to one allocated mock
// service: it registers interactions, asks for verification, clears
// interactions, writes the pact file and closes the session.
//
// Every call takes a context.Context and returns an explicit error. Non-2xx
// answers are reported as *StatusError.
package serviceclient
