package testing

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/pactkit/pkg/matcher"
)

var (
	termSource   = jp.MustParseString("$.data.matcher.s")
	termGenerate = jp.MustParseString("$.data.generate")
	contents     = jp.MustParseString("$.contents")
	minimum      = jp.MustParseString("$.min")
)

// matchRequest reports whether an incoming request satisfies a registered
// request expectation (decoded JSON). Extra headers, query parameters and
// object keys in the actual request are allowed.
func matchRequest(exp map[string]any, r *http.Request, body []byte) bool {
	method, _ := exp["method"].(string)
	if !strings.EqualFold(method, r.Method) {
		return false
	}

	if path, ok := exp["path"]; ok && !matchValue(path, r.URL.Path) {
		return false
	}

	if query, ok := exp["query"].(map[string]any); ok {
		actual := r.URL.Query()
		for k, v := range query {
			values, found := actual[k]
			if !found || len(values) == 0 || !matchValue(v, values[0]) {
				return false
			}
		}
	}

	if headers, ok := exp["headers"].(map[string]any); ok {
		for k, v := range headers {
			actual := r.Header.Get(k)
			if actual == "" || !matchValue(v, actual) {
				return false
			}
		}
	}

	if expBody, ok := exp["body"]; ok {
		if !matchValue(expBody, decodeBody(body)) {
			return false
		}
	}
	return true
}

// decodeBody parses a JSON body, falling back to the raw string.
func decodeBody(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}

// matchValue compares an expected value, which may contain matcher
// envelopes, with an actual value.
func matchValue(exp, act any) bool {
	if kind, ok := matcher.ClassifyValue(exp); ok {
		return matchMatcher(kind, exp, act)
	}

	switch e := exp.(type) {
	case map[string]any:
		a, ok := act.(map[string]any)
		if !ok {
			return false
		}
		for k, v := range e {
			av, found := a[k]
			if !found || !matchValue(v, av) {
				return false
			}
		}
		return true
	case []any:
		a, ok := act.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !matchValue(e[i], a[i]) {
				return false
			}
		}
		return true
	default:
		return exp == act
	}
}

func matchMatcher(kind matcher.Kind, exp, act any) bool {
	switch kind {
	case matcher.KindTerm:
		s, ok := act.(string)
		if !ok {
			return false
		}
		pattern, _ := termSource.First(exp).(string)
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	case matcher.KindLike:
		return matchType(contents.First(exp), act)
	case matcher.KindEachLike:
		a, ok := act.([]any)
		if !ok {
			return false
		}
		least, _ := minimum.First(exp).(float64)
		if float64(len(a)) < least {
			return false
		}
		item := contents.First(exp)
		for _, el := range a {
			if !matchType(item, el) {
				return false
			}
		}
		return true
	}
	return false
}

// matchType checks that act has the same JSON shape and types as exp.
func matchType(exp, act any) bool {
	if kind, ok := matcher.ClassifyValue(exp); ok {
		return matchMatcher(kind, exp, act)
	}

	switch e := exp.(type) {
	case map[string]any:
		a, ok := act.(map[string]any)
		if !ok {
			return false
		}
		for k, v := range e {
			av, found := a[k]
			if !found || !matchType(v, av) {
				return false
			}
		}
		return true
	case []any:
		a, ok := act.([]any)
		if !ok || len(a) < len(e) {
			return false
		}
		for i := range e {
			if !matchType(e[i], a[i]) {
				return false
			}
		}
		return true
	case string:
		_, ok := act.(string)
		return ok
	case float64:
		_, ok := act.(float64)
		return ok
	case bool:
		_, ok := act.(bool)
		return ok
	default:
		return act == nil
	}
}

// reify replaces matchers with the example values they carry.
func reify(v any) any {
	if kind, ok := matcher.ClassifyValue(v); ok {
		switch kind {
		case matcher.KindTerm:
			return termGenerate.First(v)
		case matcher.KindLike:
			return reify(contents.First(v))
		case matcher.KindEachLike:
			n, _ := minimum.First(v).(float64)
			if n < 1 {
				n = 1
			}
			item := reify(contents.First(v))
			out := make([]any, int(n))
			for i := range out {
				out[i] = item
			}
			return out
		}
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = reify(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = reify(val)
		}
		return out
	default:
		return v
	}
}
