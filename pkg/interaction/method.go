package interaction

import (
	"fmt"
	"strings"
)

// Method is an HTTP request method.
type Method string

// Supported methods.
const (
	OPTIONS Method = "OPTIONS"
	GET     Method = "GET"
	HEAD    Method = "HEAD"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	TRACE   Method = "TRACE"
	CONNECT Method = "CONNECT"
)

var methods = []Method{OPTIONS, GET, HEAD, POST, PUT, PATCH, DELETE, TRACE, CONNECT}

// String returns the upper-case verb.
func (m Method) String() string {
	return strings.ToUpper(string(m))
}

// ParseMethod parses a verb in any case.
func ParseMethod(s string) (Method, error) {
	upper := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range methods {
		if m == upper {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown HTTP method %q", s)
}
