// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jscan_test

import (
	"errors"
	"io"
	"testing"

	"github.com/creachadair/grncmd/internal/jscan"
	"github.com/google/go-cmp/cmp"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []jscan.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Constants
		{"true false null", []jscan.Token{jscan.True, jscan.False, jscan.Null}},

		// Punctuation
		{"{ [ ] } , :", []jscan.Token{
			jscan.LBrace, jscan.LSquare, jscan.RSquare, jscan.RBrace, jscan.Comma, jscan.Colon,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []jscan.Token{jscan.String, jscan.String, jscan.String}},
		{`"\"\\\/\b\f\n\r\t"`, []jscan.Token{jscan.String}},
		{`"\u0000\u01fc\uAA9c"`, []jscan.Token{jscan.String}},
		{`"日本語"`, []jscan.Token{jscan.String}},

		// Numbers
		{`0 -1 5139 2.3 5e+9 3.6E+4 -0.001E-100`, []jscan.Token{
			jscan.Integer, jscan.Integer, jscan.Integer,
			jscan.Number, jscan.Number, jscan.Number, jscan.Number,
		}},

		// Mixed types
		{`{"a": true, "b":[null, 1, 0.5]}`, []jscan.Token{
			jscan.LBrace,
			jscan.String, jscan.Colon, jscan.True, jscan.Comma,
			jscan.String, jscan.Colon,
			jscan.LSquare,
			jscan.Null, jscan.Comma, jscan.Integer, jscan.Comma, jscan.Number,
			jscan.RSquare,
			jscan.RBrace,
		}},
		{`[["_key","name"],["alice",1]]`, []jscan.Token{
			jscan.LSquare,
			jscan.LSquare, jscan.String, jscan.Comma, jscan.String, jscan.RSquare, jscan.Comma,
			jscan.LSquare, jscan.String, jscan.Comma, jscan.Integer, jscan.RSquare,
			jscan.RSquare,
		}},
	}

	for _, test := range tests {
		var got []jscan.Token
		s := jscan.NewScanner([]byte(test.input))
		for s.Next() {
			got = append(got, s.Token())
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{`"abc`, 4},
		{`"a\qb"`, 2},
		{`"\u12"`, 1},
		{"\"a\tb\"", 2},
		{`01`, 2},
		{`-x`, 1},
		{`1.`, 2},
		{`1e+`, 3},
		{`nil`, 3},
		{`truth`, 5},
		{`@`, 0},
	}
	for _, test := range tests {
		s := jscan.NewScanner([]byte(test.input))
		if s.Next() {
			t.Errorf("Next(%#q): got token %v, want error", test.input, s.Token())
			continue
		}
		var perr jscan.PosError
		if !errors.As(s.Err(), &perr) {
			t.Errorf("Next(%#q): got error %v, want PosError", test.input, s.Err())
		} else if perr.Offset != test.offset {
			t.Errorf("Next(%#q): error at offset %d, want %d", test.input, perr.Offset, test.offset)
		}
	}
}

func TestScannerSpan(t *testing.T) {
	const input = ` {"k" : -1.5e3 }`
	want := []jscan.Span{{1, 2}, {2, 5}, {6, 7}, {8, 14}, {15, 16}}
	texts := []string{`{`, `"k"`, `:`, `-1.5e3`, `}`}

	var got []jscan.Span
	var gotText []string
	s := jscan.NewScanner([]byte(input))
	for s.Next() {
		got = append(got, s.Span())
		gotText = append(gotText, string(s.Text()))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Spans: (-want, +got)\n%s", diff)
	}
	if diff := cmp.Diff(texts, gotText); diff != "" {
		t.Errorf("Text: (-want, +got)\n%s", diff)
	}
}
