package contractfile

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/getmockd/pactkit/pkg/interaction"
	"github.com/getmockd/pactkit/pkg/matcher"
	"github.com/getmockd/pactkit/pkg/pactjson"
)

// Shorthand matcher keys.
const (
	KeyTerm     = "$term"
	KeyLike     = "$like"
	KeyEachLike = "$eachLike"
	KeyMin      = "min"
)

func decodeInteraction(raw map[string]any, field string) (interaction.Interaction, error) {
	var out interaction.Interaction
	out.Description, _ = raw["description"].(string)
	out.ProviderState, _ = raw["providerState"].(string)

	req, _ := raw["request"].(map[string]any)
	method, err := interaction.ParseMethod(stringField(req, "method"))
	if err != nil {
		return out, fmt.Errorf("%s.request.method: %w", field, err)
	}
	out.Request.Method = method
	if out.Request.Path, err = decodeValue(req["path"], field+".request.path"); err != nil {
		return out, err
	}
	if out.Request.Query, err = decodeMap(req["query"], field+".request.query"); err != nil {
		return out, err
	}
	headers, err := decodeMap(req["headers"], field+".request.headers")
	if err != nil {
		return out, err
	}
	out.Request.Headers = pactjson.Headers(headers)
	if body, ok := req["body"]; ok {
		if out.Request.Body, err = decodeValue(body, field+".request.body"); err != nil {
			return out, err
		}
	}

	resp, _ := raw["response"].(map[string]any)
	status, err := intField(resp["status"])
	if err != nil {
		return out, fmt.Errorf("%s.response.status: %w", field, err)
	}
	out.Response.Status = status
	headers, err = decodeMap(resp["headers"], field+".response.headers")
	if err != nil {
		return out, err
	}
	out.Response.Headers = pactjson.Headers(headers)
	if body, ok := resp["body"]; ok {
		if out.Response.Body, err = decodeValue(body, field+".response.body"); err != nil {
			return out, err
		}
	}
	return out, nil
}

// decodeMap decodes an optional object of values. A missing object is nil.
func decodeMap(v any, field string) (pactjson.Query, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %T", field, v)
	}
	out := make(pactjson.Query, len(obj))
	for k, item := range obj {
		r, err := decodeValue(item, field+"."+k)
		if err != nil {
			return nil, err
		}
		out[k] = r
	}
	return out, nil
}

// decodeValue converts a JSON-typed value into a Renderable, turning
// matcher objects into matcher values.
func decodeValue(v any, field string) (pactjson.Renderable, error) {
	switch t := v.(type) {
	case map[string]any:
		if m, ok, err := decodeMatcher(t, field); ok || err != nil {
			return m, err
		}
		out := make(pactjson.Object, len(t))
		for k, item := range t {
			r, err := decodeValue(item, field+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make(pactjson.Array, 0, len(t))
		for i, item := range t {
			r, err := decodeValue(item, fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	default:
		r, err := pactjson.From(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return r, nil
	}
}

// decodeMatcher recognizes both matcher notations. ok is false for plain
// objects.
func decodeMatcher(obj map[string]any, field string) (r pactjson.Renderable, ok bool, err error) {
	if class, isClass := obj[matcher.ClassKey].(string); isClass {
		r, err = decodeClassMatcher(class, obj, field)
		return r, true, err
	}

	switch {
	case hasOnly(obj, KeyTerm):
		def, isObj := obj[KeyTerm].(map[string]any)
		if !isObj {
			return nil, true, fmt.Errorf("%s.%s: expected an object with generate and matcher", field, KeyTerm)
		}
		r, err = newTerm(stringField(def, "generate"), stringField(def, "matcher"), field)
		return r, true, err
	case hasOnly(obj, KeyLike):
		inner, err := decodeValue(obj[KeyLike], field+"."+KeyLike)
		if err != nil {
			return nil, true, err
		}
		return matcher.Like(inner), true, nil
	case hasOnly(obj, KeyEachLike, KeyMin):
		inner, err := decodeValue(obj[KeyEachLike], field+"."+KeyEachLike)
		if err != nil {
			return nil, true, err
		}
		r, err = newEachLike(inner, obj[KeyMin], field)
		return r, true, err
	}
	return nil, false, nil
}

func decodeClassMatcher(class string, obj map[string]any, field string) (pactjson.Renderable, error) {
	switch class {
	case matcher.ClassTerm:
		data, _ := obj["data"].(map[string]any)
		re, _ := data["matcher"].(map[string]any)
		return newTerm(stringField(data, "generate"), stringField(re, "s"), field)
	case matcher.ClassLike:
		inner, err := decodeValue(obj["contents"], field+".contents")
		if err != nil {
			return nil, err
		}
		return matcher.Like(inner), nil
	case matcher.ClassEachLike:
		inner, err := decodeValue(obj["contents"], field+".contents")
		if err != nil {
			return nil, err
		}
		return newEachLike(inner, obj[KeyMin], field)
	default:
		return nil, fmt.Errorf("%s: unsupported %s %q", field, matcher.ClassKey, class)
	}
}

// newTerm builds a term matcher after checking that generate matches pattern.
func newTerm(generate, pattern, field string) (pactjson.Renderable, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid term pattern: %w", field, err)
	}
	if !re.MatchString(generate) {
		return nil, fmt.Errorf("%s: term example %q does not match %q", field, generate, pattern)
	}
	return matcher.Term(generate, pattern), nil
}

func newEachLike(inner pactjson.Renderable, rawMin any, field string) (pactjson.Renderable, error) {
	if rawMin == nil {
		return matcher.EachLike(inner), nil
	}
	least, err := intField(rawMin)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", field, KeyMin, err)
	}
	m, err := matcher.EachLikeN(inner, least)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return m, nil
}

func hasOnly(obj map[string]any, key string, optional ...string) bool {
	if _, ok := obj[key]; !ok {
		return false
	}
	n := 1
	for _, k := range optional {
		if _, ok := obj[k]; ok {
			n++
		}
	}
	return len(obj) == n
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func intField(v any) (int, error) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", t.String())
		}
		return int(n), nil
	case int:
		return t, nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("%v is not an integer", t)
		}
		return int(t), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}
