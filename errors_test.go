// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd_test

import (
	"errors"
	"testing"

	"github.com/creachadair/grncmd"
)

func TestParseErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *grncmd.ParseError
		want string
	}{
		{"Location", &grncmd.ParseError{
			Kind:   grncmd.MissingRecordSeparator,
			Before: `{"_key": "alice", "name": "Alice"}`,
			After:  "\n" + `{"_key": "bob"`,
		}, `record separate comma is missing:
{"_key": "alice", "name": "Alice"}
                                  ^
{"_key": "bob"`},

		{"Garbage", &grncmd.ParseError{
			Kind:   grncmd.GarbageBeforePayload,
			Before: "load --table Users\n",
			After:  "XXX\n",
		}, "there are garbages before JSON:\nload --table Users\n\n^XXX\n"},

		// Whitespace before the garbage moves the caret to it.
		{"GarbageAfterSpace", &grncmd.ParseError{
			Kind:   grncmd.GarbageBeforePayload,
			Before: "load --table T\n  ",
			After:  "XXX\n",
		}, "there are garbages before JSON:\nload --table T\n  \n  ^XXX\n"},

		{"MultiLineBefore", &grncmd.ParseError{
			Kind:   grncmd.InvalidRecord,
			Before: "load --table T\n[",
			After:  "1]\n",
		}, "record form is inconsistent:\nload --table T\n[\n ^1]\n"},

		// The caret column counts characters, not bytes.
		{"Runes", &grncmd.ParseError{
			Kind:   grncmd.InvalidJSON,
			Before: `["日本",`,
			After:  "x]",
		}, "invalid JSON:\n[\"日本\",\n      ^x]"},

		{"Incomplete", &grncmd.ParseError{
			Kind:   grncmd.IncompletePayload,
			Before: "[[1]",
		}, "JSON is incomplete:\n[[1]\n    ^"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.want {
				t.Errorf("Error:\ngot:\n%s\nwant:\n%s", got, test.want)
			}
		})
	}
}

func TestParseErrorIs(t *testing.T) {
	cause := errors.New("bad value")
	var err error = &grncmd.ParseError{Kind: grncmd.InvalidJSON, Before: "[", After: "x]"}
	if !errors.Is(err, grncmd.InvalidJSON) {
		t.Errorf("Is(%v, InvalidJSON): got false, want true", err)
	}
	if errors.Is(err, grncmd.InvalidRecord) {
		t.Errorf("Is(%v, InvalidRecord): got true, want false", err)
	}
	if errors.Is(err, cause) {
		t.Errorf("Is(%v, cause): got true, want false", err)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind grncmd.ErrorKind
		want string
	}{
		{grncmd.GarbageBeforePayload, "there are garbages before JSON"},
		{grncmd.MissingRecordSeparator, "record separate comma is missing"},
		{grncmd.InvalidRecord, "record form is inconsistent"},
		{grncmd.InvalidJSON, "invalid JSON"},
		{grncmd.IncompletePayload, "JSON is incomplete"},
		{0, "unknown error"},
		{grncmd.ErrorKind(100), "unknown error"},
	}
	for _, test := range tests {
		if got := test.kind.Error(); got != test.want {
			t.Errorf("Error(%d): got %q, want %q", test.kind, got, test.want)
		}
	}
}

func TestInvalidJSONUnwrap(t *testing.T) {
	_, err := parseAll("load --table T\n[[\"a\"],[1}]\n", 0)
	var perr *grncmd.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse: got %v, want *ParseError", err)
	}
	if perr.Unwrap() == nil {
		t.Error("Unwrap: got nil, want decoding error")
	}
}
