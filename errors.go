// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd

import (
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies a fault in a load payload. An ErrorKind is itself an
// error, so errors.Is(err, kind) reports whether err is a *ParseError of
// that kind.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	// Text other than whitespace where the payload must begin.
	GarbageBeforePayload ErrorKind = iota + 1

	// Two records not separated by a comma.
	MissingRecordSeparator

	// A record that is neither an array nor an object, or whose form does not
	// agree with the records before it or with a columns argument, or a header
	// row that is not all strings.
	InvalidRecord

	// A record that is not valid JSON.
	InvalidJSON

	// The input ended inside the payload.
	IncompletePayload
)

var kindText = [...]string{
	GarbageBeforePayload:   "there are garbages before JSON",
	MissingRecordSeparator: "record separate comma is missing",
	InvalidRecord:          "record form is inconsistent",
	InvalidJSON:            "invalid JSON",
	IncompletePayload:      "JSON is incomplete",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindText) && kindText[k] != "" {
		return kindText[k]
	}
	return "unknown error"
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// ParseError is the concrete type of errors reported for faults in a load
// payload.
type ParseError struct {
	Kind   ErrorKind
	Before string // the source text preceding the fault
	After  string // the source text from the fault to the end of its line

	err error
}

// Error renders the fault with the source text around it. The text before
// the fault is followed by a line with a caret under the column where the
// fault begins, and the caret is followed by the text after the fault:
//
//	record separate comma is missing:
//	{"_key": "alice"}
//	                 ^
//	{"_key": "bob"}
func (e *ParseError) Error() string {
	last := e.Before[strings.LastIndexByte(e.Before, '\n')+1:]

	var buf strings.Builder
	buf.WriteString(e.Kind.String())
	buf.WriteString(":\n")
	buf.WriteString(e.Before)
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", utf8.RuneCountInString(last)))
	buf.WriteByte('^')
	buf.WriteString(e.After)
	return buf.String()
}

// Is reports whether target is the ErrorKind of e.
func (e *ParseError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.err }
