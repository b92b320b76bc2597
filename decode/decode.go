// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package decode converts the text of a single JSON value into a Go value.
//
// The result uses the following representation:
//
//	JSON type | Go type
//	--------- | ----------------------------------------------
//	object    | map[string]any
//	array     | []any
//	integer   | int64 (float64 if the value does not fit)
//	number    | float64
//	string    | string
//	boolean   | bool
//	null      | nil
//
// Decoding is driven by push events from a JSON stream parser. Each call to
// Value uses fresh state, so concurrent calls are safe.
package decode

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/grncmd/internal/escape"
	"github.com/creachadair/grncmd/internal/jscan"
)

// Value decodes src, which must contain exactly one JSON value surrounded by
// optional whitespace. In case of error, the concrete type is *SyntaxError.
func Value(src []byte) (any, error) {
	st := jscan.NewStream(src)
	b := new(builder)
	if err := st.ParseOne(b); err == io.EOF {
		return nil, &SyntaxError{Offset: len(src), Message: "no value"}
	} else if err != nil {
		return nil, syntaxError(err)
	}
	for i, ch := range st.Rest() {
		if !isSpace(ch) {
			return nil, &SyntaxError{Offset: st.Offset() + i, Message: "extra input after value"}
		}
	}
	return b.result, nil
}

// SyntaxError reports a failure to decode a JSON value.
type SyntaxError struct {
	Offset  int    // byte offset of the fault within the decoded text
	Message string // description of the fault

	err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", e.Offset, e.Message)
}

// Unwrap supports error wrapping.
func (e *SyntaxError) Unwrap() error { return e.err }

func syntaxError(err error) error {
	var serr *jscan.SyntaxError
	if errors.As(err, &serr) {
		return &SyntaxError{Offset: serr.Offset, Message: serr.Message, err: err}
	}
	var berr *buildError
	if errors.As(err, &berr) {
		return &SyntaxError{Offset: berr.offset, Message: berr.err.Error(), err: berr.err}
	}
	return err
}

// A container is a partially-constructed array or object.
type container interface {
	add(v any)
	value() any
}

// A listBuilder accumulates the elements of an array.
type listBuilder struct{ vs []any }

func (l *listBuilder) add(v any) { l.vs = append(l.vs, v) }

func (l *listBuilder) value() any {
	if l.vs == nil {
		return []any{}
	}
	return l.vs
}

// A mapBuilder accumulates the members of an object. The key of the member
// currently being parsed is held until its value is complete.
type mapBuilder struct {
	m   map[string]any
	key string
}

func (m *mapBuilder) add(v any) { m.m[m.key] = v }

func (m *mapBuilder) value() any { return m.m }

// builder implements the jscan.Handler interface to construct a value.
type builder struct {
	stk    []container
	result any
}

type buildError struct {
	offset int
	err    error
}

func (b *buildError) Error() string { return b.err.Error() }

func (b *builder) push(c container) { b.stk = append(b.stk, c) }

func (b *builder) pop() container {
	last := b.stk[len(b.stk)-1]
	b.stk = b.stk[:len(b.stk)-1]
	return last
}

// reduce attaches a completed value to the innermost open container, or
// records it as the result if no container is open.
func (b *builder) reduce(v any) {
	if len(b.stk) == 0 {
		b.result = v
		return
	}
	b.stk[len(b.stk)-1].add(v)
}

func (b *builder) BeginObject(loc jscan.Anchor) error {
	b.push(&mapBuilder{m: make(map[string]any)})
	return nil
}

func (b *builder) EndObject(loc jscan.Anchor) error {
	b.reduce(b.pop().value())
	return nil
}

func (b *builder) BeginArray(loc jscan.Anchor) error {
	b.push(new(listBuilder))
	return nil
}

func (b *builder) EndArray(loc jscan.Anchor) error {
	b.reduce(b.pop().value())
	return nil
}

func (b *builder) BeginMember(loc jscan.Anchor) error {
	key, err := escape.Unquote(loc.Text())
	if err != nil {
		return &buildError{offset: loc.Span().Pos, err: err}
	}
	b.stk[len(b.stk)-1].(*mapBuilder).key = key
	return nil
}

func (b *builder) EndMember(loc jscan.Anchor) error { return nil }

func (b *builder) Value(loc jscan.Anchor) error {
	v, err := scalar(loc.Token(), loc.Text())
	if err != nil {
		return &buildError{offset: loc.Span().Pos, err: err}
	}
	b.reduce(v)
	return nil
}

func (b *builder) EndOfInput(loc jscan.Anchor) {}

func scalar(tok jscan.Token, text []byte) (any, error) {
	switch tok {
	case jscan.String:
		return escape.Unquote(text)
	case jscan.Integer:
		z, err := strconv.ParseInt(string(text), 10, 64)
		if err == nil {
			return z, nil
		}
		return strconv.ParseFloat(string(text), 64)
	case jscan.Number:
		return strconv.ParseFloat(string(text), 64)
	case jscan.True:
		return true, nil
	case jscan.False:
		return false, nil
	case jscan.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown value %v", tok)
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}
