package interaction

import (
	"testing"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/pactkit/pkg/matcher"
	"github.com/getmockd/pactkit/pkg/pactjson"
)

func get(data any, path string) any {
	return jp.MustParseString(path).First(data)
}

func has(data any, path string) bool {
	return len(jp.MustParseString(path).Get(data)) > 0
}

func TestInteractionRender(t *testing.T) {
	in := Interaction{
		Description:   "a request for integrates",
		ProviderState: "integrates exist",
		Request: Request{
			Method:  Method("get"),
			Path:    pactjson.String("/integrates"),
			Query:   pactjson.Query{"page": pactjson.String("1")},
			Headers: pactjson.Headers{"Accept": pactjson.String("application/json")},
			Body:    pactjson.Object{"name": pactjson.String("foo")},
		},
		Response: Response{
			Status:  200,
			Headers: pactjson.Headers{"Content-Type": pactjson.String("application/json")},
			Body:    matcher.EachLike(pactjson.Object{"id": pactjson.Int(1)}),
		},
	}

	data := pactjson.Simplify(in)

	checks := map[string]any{
		"$.description":            "a request for integrates",
		"$.providerState":          "integrates exist",
		"$.request.method":         "GET",
		"$.request.path":           "/integrates",
		"$.request.query.page":     "1",
		"$.request.headers.Accept": "application/json",
		"$.request.body.name":      "foo",
		"$.response.status":        int64(200),
		"$.response.body.min":      int64(1),
	}
	for path, want := range checks {
		if got := get(data, path); got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}
}

func TestInteractionRenderOmitsAbsentParts(t *testing.T) {
	in := Interaction{
		Description: "minimal",
		Request:     Request{Method: DELETE, Path: pactjson.String("/x")},
		Response:    Response{Status: 204},
	}

	data := pactjson.Simplify(in)

	for _, path := range []string{
		"$.providerState",
		"$.request.query",
		"$.request.headers",
		"$.request.body",
		"$.response.headers",
		"$.response.body",
	} {
		if has(data, path) {
			t.Errorf("%s present, want omitted", path)
		}
	}
	if get(data, "$.request.method") != "DELETE" {
		t.Errorf("method = %v, want DELETE", get(data, "$.request.method"))
	}
}

func TestInteractionRenderTermPath(t *testing.T) {
	in := Interaction{
		Description: "term path",
		Request:     Request{Method: GET, Path: matcher.Term("/users/1", `/users/\d+`)},
		Response:    Response{Status: 200},
	}
	data := pactjson.Simplify(in)
	if get(data, "$.request.path.data.generate") != "/users/1" {
		t.Errorf("path.data.generate = %v", get(data, "$.request.path.data.generate"))
	}
}

func TestListRender(t *testing.T) {
	l := List{
		{Description: "a", Request: Request{Method: GET, Path: pactjson.String("/a")}, Response: Response{Status: 200}},
		{Description: "b", Request: Request{Method: GET, Path: pactjson.String("/b")}, Response: Response{Status: 200}},
	}
	data := pactjson.Simplify(l)
	if get(data, "$[1].description") != "b" {
		t.Errorf("[1].description = %v, want b", get(data, "$[1].description"))
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"get", GET, false},
		{"POST", POST, false},
		{" Patch ", PATCH, false},
		{"connect", CONNECT, false},
		{"fetch", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
