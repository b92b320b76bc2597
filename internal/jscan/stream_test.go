// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jscan_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/grncmd/internal/jscan"
	"github.com/google/go-cmp/cmp"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true false null", `
Value true <true>
Value false <false>
Value null <null>
.`},

		{`0 5 -6.32 0.1e-2`, `
Value integer <0>
Value integer <5>
Value number <-6.32>
Value number <0.1e-2>
.`},

		{`{}`, "BeginObject\nEndObject\n."},

		{`{"_key":"alice"}`, `
BeginObject
BeginMember <"_key">
Value string <"alice">
EndMember "}"
EndObject
.`},

		{`[["_key"],[1]]`, `
BeginArray
BeginArray
Value string <"_key">
EndArray
BeginArray
Value integer <1>
EndArray
EndArray
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject
BeginMember <"x">
Value null <null>
EndMember ","
BeginMember <"y">
BeginArray
Value true <true>
EndArray
EndMember "}"
EndObject
.`},

		{`[]`, "BeginArray\nEndArray\n."},
	}

	for _, test := range tests {
		st := jscan.NewStream([]byte(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject`,
			`at offset 1: expected "}" or string, got end of input`},
		{`}`, ``, `at offset 0: unexpected "}"`},
		{`{false:1}`, `BeginObject`,
			`at offset 1: expected "}" or string, got false`},
		{`{"true":}`, `
BeginObject
BeginMember <"true">`,
			`at offset 8: unexpected "}"`},

		// Unbalanced array bits.
		{`[`, `BeginArray`,
			`at offset 1: expected more input, got end of input`},
		{`[15,`, `
BeginArray
Value integer <15>`,
			`at offset 4: expected more input, got end of input`},
		{`[15,]`, `
BeginArray
Value integer <15>`,
			`at offset 4: unexpected "]"`},
		{`[15 16]`, `
BeginArray
Value integer <15>`,
			`at offset 4: expected "]" or ",", got integer`},
	}

	for _, test := range tests {
		st := jscan.NewStream([]byte(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Error("Parse did not report an error")
			continue
		}
		var serr *jscan.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: got %T, want *SyntaxError", test.input, err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseOne(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginObject
BeginMember <"love">
Value true <true>
EndMember "}"
EndObject
---
BeginArray
EndArray
---
Value string <"ok">
---
.`
	th := new(testHandler)

	st := jscan.NewStream([]byte(input))
	for {
		err := st.ParseOne(th)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ParseOne failed: %v", err)
		}
		th.pr("---")
	}

	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func TestHandlerError(t *testing.T) {
	errStop := errors.New("stop")
	st := jscan.NewStream([]byte(`[1, 2, 3]`))
	err := st.Parse(stopHandler{testHandler: new(testHandler), err: errStop})
	if !errors.Is(err, errStop) {
		t.Errorf("Parse: got %v, want %v", err, errStop)
	}
	if got, want := st.Offset(), 2; got != want {
		t.Errorf("Offset: got %d, want %d", got, want)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf bytes.Buffer
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(loc jscan.Anchor) error { t.pr("BeginObject"); return nil }
func (t *testHandler) EndObject(loc jscan.Anchor) error   { t.pr("EndObject"); return nil }
func (t *testHandler) BeginArray(loc jscan.Anchor) error  { t.pr("BeginArray"); return nil }
func (t *testHandler) EndArray(loc jscan.Anchor) error    { t.pr("EndArray"); return nil }
func (t *testHandler) EndOfInput(loc jscan.Anchor)        { t.pr(".") }

func (t *testHandler) BeginMember(loc jscan.Anchor) error {
	t.pr("BeginMember <%s>", string(loc.Text()))
	return nil
}

func (t *testHandler) EndMember(loc jscan.Anchor) error {
	t.pr("EndMember %s", loc.Token())
	return nil
}

func (t *testHandler) Value(loc jscan.Anchor) error {
	t.pr(`Value %s <%s>`, loc.Token(), string(loc.Text()))
	return nil
}

// stopHandler fails on the first scalar value.
type stopHandler struct {
	*testHandler
	err error
}

func (s stopHandler) Value(loc jscan.Anchor) error { return s.err }
