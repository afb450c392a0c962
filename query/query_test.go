package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, doc string) *Value {
	t.Helper()
	v, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return v
}

func TestParsePreservesKeyOrder(t *testing.T) {
	v := mustParse(t, `{"zeta": 1, "alpha": 2, "mid": {"b": true, "a": null}}`)

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, v.Keys()); diff != "" {
		t.Errorf("root keys (-want +got):\n%s", diff)
	}
	mid, _ := v.Get("mid")
	if diff := cmp.Diff([]string{"b", "a"}, mid.Keys()); diff != "" {
		t.Errorf("nested keys (-want +got):\n%s", diff)
	}

	out, _ := v.MarshalJSON()
	if got, want := string(out), `{"zeta":1,"alpha":2,"mid":{"b":true,"a":null}}`; got != want {
		t.Errorf("MarshalJSON = %s, want %s", got, want)
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	if _, err := Parse([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
	if _, err := Parse([]byte(`{"a":`)); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestFindIndexedPath(t *testing.T) {
	root := mustParse(t, `{"a": {"b": ["x", "y", "z"]}, "m": {"k": {"inner": "v"}}}`)

	tests := []struct {
		expr string
		want string
	}{
		{"a.b[0]", "x"},
		{"a.b[2]", "z"},
		{"m[k].inner", "v"},
		{" a.b[1] ", "y"},
	}
	for _, tc := range tests {
		got, err := FindString(root, tc.expr)
		if err != nil {
			t.Errorf("FindString(%q): %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FindString(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestFindOutOfBoundsNamesPath(t *testing.T) {
	root := mustParse(t, `{"a": {"b": ["x", "y", "z"]}}`)

	_, err := Find(root, "a.b[3]")
	if err == nil {
		t.Fatal("expected out of bounds error")
	}
	if !errors.Is(err, ErrResolve) {
		t.Errorf("error %v does not match ErrResolve", err)
	}
	var re *ResolveError
	if !errors.As(err, &re) || re.Path != "a.b[3]" {
		t.Fatalf("want ResolveError for a.b[3], got %#v", err)
	}
	if !strings.Contains(err.Error(), `"a.b[3]"`) {
		t.Errorf("error message %q does not name the path", err)
	}
}

func TestFindErrors(t *testing.T) {
	root := mustParse(t, `{"a": {"b": ["x"]}, "s": "str"}`)

	for _, expr := range []string{
		"missing",
		"a.c",
		"s.deeper",
		"a.b[key]",
		"a..b",
		"a.b[",
		"a.b[]",
		"[0]",
	} {
		if _, err := Find(root, expr); !errors.Is(err, ErrResolve) {
			t.Errorf("Find(%q) err = %v, want ErrResolve", expr, err)
		}
	}
}

func TestFindEmptyPathIsRoot(t *testing.T) {
	root := mustParse(t, `{"a": 1}`)
	got, err := Find(root, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Error("empty path should resolve to the root node")
	}
}

func TestFindNodeArrayClassification(t *testing.T) {
	root := mustParse(t, `{"n": null, "o": {"x": 1}, "a": [{"x": 1}, {"x": 2}, {"x": 3}], "s": "nope", "num": 4}`)

	tests := []struct {
		expr    string
		wantLen int
		wantErr bool
	}{
		{"n", 1, false},
		{"o", 1, false},
		{"a", 3, false},
		{"s", 0, true},
		{"num", 0, true},
	}
	for _, tc := range tests {
		nodes, err := FindNodeArray(root, tc.expr)
		if tc.wantErr {
			if !errors.Is(err, ErrResolve) {
				t.Errorf("FindNodeArray(%q) err = %v, want ErrResolve", tc.expr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FindNodeArray(%q): %v", tc.expr, err)
			continue
		}
		if len(nodes) != tc.wantLen {
			t.Errorf("FindNodeArray(%q) len = %d, want %d", tc.expr, len(nodes), tc.wantLen)
		}
	}

	nodes, _ := FindNodeArray(root, "n")
	if !nodes[0].IsNull() {
		t.Error("null node should yield a single null record")
	}
}

func TestFindStringArray(t *testing.T) {
	root := mustParse(t, `{"lines": ["Hello", "World", 3, null], "one": "solo", "n": null, "o": {}}`)

	got, err := FindStringArray(root, "lines")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Hello", "World", "3", ""}, got); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}

	got, _ = FindStringArray(root, "one")
	if diff := cmp.Diff([]string{"solo"}, got); diff != "" {
		t.Errorf("one (-want +got):\n%s", diff)
	}

	got, _ = FindStringArray(root, "n")
	if diff := cmp.Diff([]string{""}, got); diff != "" {
		t.Errorf("null (-want +got):\n%s", diff)
	}

	if _, err := FindStringArray(root, "o"); !errors.Is(err, ErrResolve) {
		t.Errorf("object err = %v, want ErrResolve", err)
	}
}

func TestFindDataBindError(t *testing.T) {
	root := mustParse(t, `{"row": "text", "pairs": {"k1": "v1", "k2": null}, "bad": {"k": 1}}`)

	_, err := FindData(root, "row", AsObject)
	var be *BindError
	if !errors.As(err, &be) {
		t.Fatalf("want BindError, got %v", err)
	}
	if be.Path != "row" || be.Got != String {
		t.Errorf("BindError = %+v", be)
	}
	if !errors.Is(err, ErrBind) {
		t.Error("BindError should match ErrBind")
	}

	pairs, err := FindData(root, "pairs", AsStringMap)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{{"k1", "v1"}, {"k2", ""}}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("pairs (-want +got):\n%s", diff)
	}

	if _, err := FindData(root, "bad", AsStringMap); !errors.Is(err, ErrBind) {
		t.Errorf("bad map err = %v, want ErrBind", err)
	}
}

func TestFindDataArray(t *testing.T) {
	root := mustParse(t, `{"rows": [{"a": "1"}, {"a": "2"}], "single": {"a": "3"}}`)

	rows, err := FindDataArray(root, "rows", AsObject)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}

	single, err := FindDataArray(root, "single", AsObject)
	if err != nil || len(single) != 1 {
		t.Fatalf("single = %v, %v", single, err)
	}

	if _, err := FindDataArray(root, "rows", AsString); !errors.Is(err, ErrBind) {
		t.Errorf("err = %v, want ErrBind", err)
	}
}
