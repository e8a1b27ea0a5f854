// Package cli implements the pactctl command-line interface.
//
// pactctl drives a pact mock service from the shell: it starts sessions on
// a control server, registers interactions read from contract files,
// verifies them and writes pact files. Each command is stateless, so the
// mock service URL printed by "start" is passed to later commands with
// --mock-url or PACTKIT_MOCK_URL.
package cli
