// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package recpath_test

import (
	"testing"

	"github.com/creachadair/grncmd/decode"
	"github.com/creachadair/grncmd/recpath"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"$"},
		{"$.name"},
		{"$.tags[*]"},
		{"$.*"},
		{"$..name"},
		{"$..*"},
		{"$[2]"},
		{"$[-1]"},
		{"$[0,2]"},
		{"$[1:3]"},
		{"$[-2:]"},
		{"$[:2]"},
		{"$['two words'].x..'deep name'"},
		{"$[a][1:3][b]['c d e']"},
	}
	for _, test := range tests {
		e, err := recpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}

		want := test.input
		if got := e.String(); got != want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"name",
		"$.",
		"$..",
		"$[1",
		"$[]",
		"$x",
		"$['open",
	}
	for _, input := range tests {
		if e, err := recpath.Parse(input); err == nil {
			t.Errorf("Parse %q: got %v, want error", input, e)
		}
	}
	mtest.MustPanic(t, func() { recpath.MustParse("bogus") })
}

func TestEval(t *testing.T) {
	rec, err := decode.Value([]byte(`{
  "_key": "alice",
  "name": "Alice",
  "tags": ["a", "b", "c"],
  "address book": {"home": {"name": "Home"}, "work": {"name": "Work"}},
  "scores": [[1, 2], [3]]
}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	row := []any{"bob", "Bob", int64(25)}

	tests := []struct {
		path  string
		input any
		want  []any
	}{
		{"$", row, []any{row}},
		{"$._key", rec, []any{"alice"}},
		{"$['_key']", rec, []any{"alice"}},
		{"$.missing", rec, nil},
		{"$.tags[1]", rec, []any{"b"}},
		{"$.tags[-1]", rec, []any{"c"}},
		{"$.tags[5]", rec, nil},
		{"$.tags[0,2]", rec, []any{"a", "c"}},
		{"$.tags[1:]", rec, []any{"b", "c"}},
		{"$.tags[:-1]", rec, []any{"a", "b"}},
		{"$.tags[2:1]", rec, nil},
		{"$.tags.*", rec, []any{"a", "b", "c"}},
		{"$.tags[*]", rec, []any{"a", "b", "c"}},
		{"$['address book'].*.name", rec, []any{"Home", "Work"}},
		{"$..name", rec, []any{"Alice", "Home", "Work"}},
		{"$.scores[*][0]", rec, []any{int64(1), int64(3)}},
		{"$[0]", row, []any{"bob"}},
		{"$[-1]", row, []any{int64(25)}},
		{"$.name", row, nil},
		{"$[0]", rec, nil},
	}
	for _, test := range tests {
		e := recpath.MustParse(test.path)
		got := e.Eval(test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Eval %q (-want, +got):\n%s", test.path, diff)
		}
	}
}

func TestFirst(t *testing.T) {
	row := []any{"bob", "Bob"}
	if v, ok := recpath.MustParse("$[1]").First(row); !ok || v != "Bob" {
		t.Errorf("First $[1]: got %v, %v; want Bob, true", v, ok)
	}
	if v, ok := recpath.MustParse("$[2]").First(row); ok {
		t.Errorf("First $[2]: got %v, true; want false", v)
	}
}
