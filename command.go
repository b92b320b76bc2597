// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd

import (
	"net/url"
	"slices"
	"strings"

	"github.com/creachadair/mds/shell"
)

// Format identifies the syntax a Command was written in.
type Format byte

// Constants defining the valid Format values.
const (
	CommandLineFormat Format = iota + 1 // name --param value ...
	URIFormat                           // /prefix/name?param=value&...
)

func (f Format) String() string {
	switch f {
	case CommandLineFormat:
		return "command-line"
	case URIFormat:
		return "uri"
	default:
		return "invalid format"
	}
}

// An Arg is a single named argument of a command.
type Arg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// A Command is a single parsed command. A Command delivered by a Parser must
// not be modified; use WithArg to derive a modified copy.
type Command struct {
	Name   string
	Format Format

	// PathPrefix is the part of the request path before the final segment
	// naming the command, for example "/d". It is empty for commands not in
	// URIFormat.
	PathPrefix string

	args []Arg // in order of first appearance; names are unique
	load bool  // the command carries a load payload
}

// IsLoad reports whether c is a load command. For a command delivered by a
// Parser, this reflects the load command name set by WithLoadCommand; for
// one returned by Parse, the name is "load".
func (c *Command) IsLoad() bool { return c.load }

// Arg returns the value of the named argument, and reports whether it was set.
func (c *Command) Arg(name string) (string, bool) {
	if i := c.argIndex(name); i >= 0 {
		return c.args[i].Value, true
	}
	return "", false
}

// Args returns a copy of the arguments of c, in order of appearance.
func (c *Command) Args() []Arg { return slices.Clone(c.args) }

// NumArgs reports the number of distinct arguments of c.
func (c *Command) NumArgs() int { return len(c.args) }

// WithArg returns a copy of c with the named argument set to value.
func (c *Command) WithArg(name, value string) *Command {
	cp := *c
	cp.args = slices.Clone(c.args)
	cp.setArg(name, value)
	return &cp
}

// CommandLine renders c in the command line syntax. Values are quoted as
// needed to survive splitting into words.
func (c *Command) CommandLine() string {
	var buf strings.Builder
	buf.WriteString(c.Name)
	for _, arg := range c.args {
		buf.WriteString(" --")
		buf.WriteString(arg.Name)
		buf.WriteByte(' ')
		buf.WriteString(shell.Quote(arg.Value))
	}
	return buf.String()
}

// URI renders c in the URI syntax, beginning with its PathPrefix.
func (c *Command) URI() string {
	var buf strings.Builder
	buf.WriteString(c.PathPrefix)
	buf.WriteByte('/')
	buf.WriteString(url.PathEscape(c.Name))
	for i, arg := range c.args {
		if i == 0 {
			buf.WriteByte('?')
		} else {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(arg.Name))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(arg.Value))
	}
	return buf.String()
}

func (c *Command) argIndex(name string) int {
	return slices.IndexFunc(c.args, func(a Arg) bool { return a.Name == name })
}

// setArg sets the named argument. A name already present keeps its position
// and takes the new value.
func (c *Command) setArg(name, value string) {
	if i := c.argIndex(name); i >= 0 {
		c.args[i].Value = value
	} else {
		c.args = append(c.args, Arg{Name: name, Value: value})
	}
}

func (c *Command) hasArg(name string) bool { return c.argIndex(name) >= 0 }
