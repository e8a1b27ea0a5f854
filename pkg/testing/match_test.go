package testing

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getmockd/pactkit/pkg/interaction"
	"github.com/getmockd/pactkit/pkg/matcher"
	"github.com/getmockd/pactkit/pkg/pactjson"
)

// decoded renders r to the JSON shape the fake sees on the wire.
func decoded(t *testing.T, r pactjson.Renderable) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(pactjson.Encode(r), &v); err != nil {
		t.Fatalf("decoding rendered value: %v", err)
	}
	return v
}

func TestMatchValue(t *testing.T) {
	tests := []struct {
		name   string
		exp    pactjson.Renderable
		actual string
		want   bool
	}{
		{"equal string", pactjson.String("Mary"), `"Mary"`, true},
		{"different string", pactjson.String("Mary"), `"Joe"`, false},
		{"term match", matcher.Term("2020-01-01", `^\d{4}-\d{2}-\d{2}$`), `"1999-12-31"`, true},
		{"term mismatch", matcher.Term("2020-01-01", `^\d{4}-\d{2}-\d{2}$`), `"yesterday"`, false},
		{"term on number", matcher.Term("1", `\d`), `1`, false},
		{"like same type", matcher.Like(pactjson.Int(10)), `42`, true},
		{"like other type", matcher.Like(pactjson.Int(10)), `"42"`, false},
		{"like nested object", matcher.Like(pactjson.Object{"name": pactjson.String("x")}), `{"name":"y","extra":1}`, true},
		{"like missing key", matcher.Like(pactjson.Object{"name": pactjson.String("x")}), `{"extra":1}`, false},
		{"each like", matcher.EachLike(pactjson.Object{"id": pactjson.Int(1)}), `[{"id":2},{"id":3}]`, true},
		{"each like wrong item", matcher.EachLike(pactjson.Object{"id": pactjson.Int(1)}), `[{"id":"2"}]`, false},
		{"each like below min", matcher.MustEachLikeN(pactjson.Int(1), 3), `[1,2]`, false},
		{"each like empty min zero", matcher.MustEachLikeN(pactjson.Int(1), 0), `[]`, true},
		{"object extra keys", pactjson.Object{"a": pactjson.Int(1)}, `{"a":1,"b":2}`, true},
		{"array length differs", pactjson.Array{pactjson.Int(1)}, `[1,2]`, false},
		{"nested matcher", pactjson.Object{"when": matcher.Term("10:00", `^\d\d:\d\d$`)}, `{"when":"23:59"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var act any
			if err := json.Unmarshal([]byte(tt.actual), &act); err != nil {
				t.Fatal(err)
			}
			if got := matchValue(decoded(t, tt.exp), act); got != tt.want {
				t.Errorf("matchValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchRequest(t *testing.T) {
	in := interaction.Request{
		Method:  interaction.POST,
		Path:    matcher.Term("/animals/1", `^/animals/\d+$`),
		Query:   pactjson.Query{"type": pactjson.String("alligator")},
		Headers: pactjson.Headers{"Content-Type": pactjson.String("application/json")},
		Body:    pactjson.Object{"name": matcher.Like(pactjson.String("Mary"))},
	}
	exp := decoded(t, in).(map[string]any)

	tests := []struct {
		name   string
		method string
		target string
		header string
		body   string
		want   bool
	}{
		{"all match", "POST", "/animals/7?type=alligator", "application/json", `{"name":"Joe"}`, true},
		{"method differs", "PUT", "/animals/7?type=alligator", "application/json", `{"name":"Joe"}`, false},
		{"path differs", "POST", "/plants/7?type=alligator", "application/json", `{"name":"Joe"}`, false},
		{"query missing", "POST", "/animals/7", "application/json", `{"name":"Joe"}`, false},
		{"header missing", "POST", "/animals/7?type=alligator", "", `{"name":"Joe"}`, false},
		{"body type differs", "POST", "/animals/7?type=alligator", "application/json", `{"name":7}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.header != "" {
				r.Header.Set("Content-Type", tt.header)
			}
			if got := matchRequest(exp, r, []byte(tt.body)); got != tt.want {
				t.Errorf("matchRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReify(t *testing.T) {
	body := pactjson.Object{
		"name":  matcher.Like(pactjson.String("Mary")),
		"born":  matcher.Term("2020-01-01", `\d+`),
		"teeth": matcher.MustEachLikeN(pactjson.Object{"size": pactjson.Int(3)}, 2),
		"tags":  matcher.MustEachLikeN(pactjson.String("green"), 0),
	}

	got := reify(decoded(t, body))
	want := map[string]any{
		"name":  "Mary",
		"born":  "2020-01-01",
		"teeth": []any{map[string]any{"size": float64(3)}, map[string]any{"size": float64(3)}},
		"tags":  []any{"green"},
	}

	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if string(gotJSON) != string(wantJSON) {
		t.Errorf("reify() = %s, want %s", gotJSON, wantJSON)
	}
}
