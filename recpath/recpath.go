// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package recpath implements a small path language for selecting parts of
// decoded load records.
//
// A path begins with "$", denoting the record, followed by steps:
//
//	$.name          member "name" of an object
//	$['two words']  member "two words" of an object
//	$.*             every member of an object, or every element of an array
//	$..name         member "name" of the record or of any value nested in it
//	$[2]            element 2 of an array; negative indexes count from the end
//	$[0,2]          elements 0 and 2 of an array
//	$[1:3]          elements 1 through 2 of an array
//
// Records are values in the representation produced by package decode.
package recpath

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX ["," INDEX]*
 slice = [INDEX] ":" [INDEX]

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
 INDEX = RE `-?\d+`
*/

// An Expr is a parsed path expression.
type Expr []Step

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	steps, err := parseSteps(t)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", s, err)
	}
	return steps, nil
}

// MustParse is as Parse, but panics if s is not a valid path.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member, Recur:
			if s.Arg2 == QName.String() {
				fmt.Fprintf(&buf, "%s'%s'", s.Op, s.Arg1)
			} else {
				fmt.Fprint(&buf, s.Op, s.Arg1)
			}

		case Slice:
			fmt.Fprintf(&buf, "[%s:%s]", s.Arg1, s.Arg2)

		case QName:
			fmt.Fprintf(&buf, "['%s']", s.Arg1)

		default:
			fmt.Fprintf(&buf, "[%s]", s.Arg1)
		}
	}
	return buf.String()
}

// Eval returns the values selected by e from v, in order. Object members
// selected by a wildcard are visited in order of their names.
func (e Expr) Eval(v any) []any {
	cur := []any{v}
	for _, s := range e {
		var next []any
		for _, c := range cur {
			next = s.apply(c, next)
		}
		cur = next
	}
	return cur
}

// First returns the first value selected by e from v, and reports whether
// there was one.
func (e Expr) First(v any) (any, bool) {
	if vs := e.Eval(v); len(vs) != 0 {
		return vs[0], true
	}
	return nil, false
}

func parseSteps(s string) (steps []Step, _ error) {
	for s != "" {
		step, rest, err := parseStep(s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		s = rest
	}
	return steps, nil
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		kind, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Arg1: name, Arg2: kind.String()}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		kind, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: Member, Arg1: name, Arg2: kind.String()}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		kind, val, u, err := parseValue(t)
		if err != nil {
			return Step{}, t, err
		}
		out := Step{Op: kind, Arg1: val}
		if out.Op == Slice {
			if arg2, rest, err := parseIndex(u); err == nil {
				out.Arg2 = arg2
				u = rest
			}
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return out, u, nil
	}
	return Step{}, s, fmt.Errorf("invalid path step %q", s)
}

func parseName(s string) (kind Op, name, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Wildcard, "*", t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return Name, m[1], s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return QName, m[1], s[len(m[0]):], nil
	}
	return Invalid, "", s, errors.New("invalid name")
}

func parseIndex(s string) (text, rest string, _ error) {
	if m := indexRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], nil
	}
	return "", "", errors.New("invalid index")
}

func parseValue(s string) (kind Op, value, rest string, _ error) {
	if m := indexListRE.FindStringSubmatch(s); m != nil {
		rest := s[len(m[0]):]
		if u, ok := strings.CutPrefix(rest, ":"); ok && !strings.Contains(m[1], ",") {
			return Slice, m[1], u, nil
		}
		return Index, m[1], rest, nil
	}
	if u, ok := strings.CutPrefix(s, ":"); ok {
		return Slice, "", u, nil
	}
	if kind, text, rest, err := parseName(s); err == nil {
		return kind, text, rest, nil
	}
	return Invalid, "", s, fmt.Errorf("invalid value: %q", s)
}

var (
	wordRE      = regexp.MustCompile(`^(\w+)`)
	indexRE     = regexp.MustCompile(`^(-?\d+)`)
	indexListRE = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	quoteRE     = regexp.MustCompile(`^'([^\']*)'`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup (.)
	Index              // array index lookup
	Slice              // array slice
	Wildcard           // wildcard expansion (*)
	Name               // unquoted name expansion
	QName              // quoted name expansion
	Recur              // recursive member lookup (..)
)

var opText = map[Op]string{
	Invalid:  "invalid",
	Member:   ".",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Name:     "name",
	QName:    "qname",
	Recur:    "..",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
//
// For Member and Recur, Arg1 is the name and Arg2 is the kind of name (name,
// qname, or *). For Index, Arg1 is a comma-separated list of indexes. For
// Slice, Arg1 and Arg2 are the bounds, either of which may be empty.
type Step struct {
	Op   Op
	Arg1 string
	Arg2 string
}

// apply appends to out the values selected by s from v.
func (s Step) apply(v any, out []any) []any {
	switch s.Op {
	case Member:
		return member(v, s.Arg1, s.Arg2 == Wildcard.String(), out)
	case Name, QName:
		return member(v, s.Arg1, false, out)
	case Wildcard:
		return member(v, "*", true, out)
	case Recur:
		return recur(v, s.Arg1, s.Arg2 == Wildcard.String(), out)
	case Index:
		arr, ok := v.([]any)
		if !ok {
			return out
		}
		for _, t := range strings.Split(s.Arg1, ",") {
			i, _ := strconv.Atoi(t)
			if i < 0 {
				i += len(arr)
			}
			if i >= 0 && i < len(arr) {
				out = append(out, arr[i])
			}
		}
		return out
	case Slice:
		arr, ok := v.([]any)
		if !ok {
			return out
		}
		lo, hi := bound(s.Arg1, 0, len(arr)), bound(s.Arg2, len(arr), len(arr))
		if lo < hi {
			out = append(out, arr[lo:hi]...)
		}
		return out
	}
	return out
}

// member appends the named member of v, or all its members if all is true.
func member(v any, name string, all bool, out []any) []any {
	switch t := v.(type) {
	case map[string]any:
		if all {
			for _, key := range slices.Sorted(maps.Keys(t)) {
				out = append(out, t[key])
			}
		} else if elt, ok := t[name]; ok {
			out = append(out, elt)
		}
	case []any:
		if all {
			out = append(out, t...)
		}
	}
	return out
}

// recur appends the named member of v and of every value nested in v.
func recur(v any, name string, all bool, out []any) []any {
	out = member(v, name, all, out)
	switch t := v.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(t)) {
			out = recur(t[key], name, all, out)
		}
	case []any:
		for _, elt := range t {
			out = recur(elt, name, all, out)
		}
	}
	return out
}

// bound parses a slice bound relative to an array of length n, clamped to
// [0, n]. An empty bound is dflt.
func bound(s string, dflt, n int) int {
	if s == "" {
		return dflt
	}
	i, _ := strconv.Atoi(s)
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}
