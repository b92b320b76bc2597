// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/creachadair/grncmd/cmdspec"
	"github.com/creachadair/mds/shell"
)

// outputTypeParam is set from the extension of a URI command name.
const outputTypeParam = "output_type"

// Parse parses a single command line in either syntax, using the built-in
// command specs to bind positional arguments. A trailing line terminator is
// ignored. Parse does not read a load payload that follows the line; the
// values argument of the command holds an inline payload, if any.
//
// Parse reports an error if line is blank or a comment.
func Parse(line string) (*Command, error) {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	cmd, err := parseCommand(line, cmdspec.Builtin())
	if err != nil {
		return nil, err
	} else if cmd == nil {
		return nil, errors.New("no command")
	}
	cmd.load = cmd.Name == defaultLoadCommand
	return cmd, nil
}

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

// commentText reports whether line is a comment, and if so returns the text
// following the comment marker. Blanks before the marker are allowed.
func commentText(line string) (string, bool) {
	t := strings.TrimLeft(line, " \t")
	if rest, ok := strings.CutPrefix(t, "#"); ok {
		return rest, true
	}
	return "", false
}

// parseCommand parses a line of input. It returns nil without error for a
// blank or comment line.
func parseCommand(line string, reg cmdspec.Registry) (*Command, error) {
	if isBlank(line) {
		return nil, nil
	} else if _, ok := commentText(line); ok {
		return nil, nil
	}
	var cmd *Command
	var err error
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "/") {
		cmd, err = parseURI(strings.TrimSpace(line))
	} else {
		cmd, err = parseCommandLine(line, reg)
	}
	if err != nil {
		return nil, err
	}
	applyDefaults(cmd, reg)
	return cmd, nil
}

// parseURI parses a command in URIFormat.
//
// The last path segment names the command; an extension on that segment,
// as in "select.json", sets the output type. A query parameter without a
// value is ignored.
func parseURI(line string) (*Command, error) {
	path, query, _ := strings.Cut(line, "?")
	i := strings.LastIndexByte(path, '/')
	prefix, last := path[:i], path[i+1:]
	last, ext, _ := strings.Cut(last, ".")
	name, err := url.PathUnescape(last)
	if err != nil {
		return nil, fmt.Errorf("invalid command name %q: %w", last, err)
	} else if name == "" {
		return nil, fmt.Errorf("missing command name in %q", line)
	}

	cmd := &Command{Name: name, Format: URIFormat, PathPrefix: prefix}
	for _, param := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue // no value
		}
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter name %q: %w", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", k, err)
		}
		cmd.setArg(k, v)
	}
	if ext != "" && !cmd.hasArg(outputTypeParam) {
		cmd.setArg(outputTypeParam, ext)
	}
	return cmd, nil
}

// parseCommandLine parses a command in CommandLineFormat.
//
// Flags have the form "--name value". Other words are positional, and are
// bound in order to the parameters of the command not already named by a
// flag. A flag with no following word has an empty value.
func parseCommandLine(line string, reg cmdspec.Registry) (*Command, error) {
	words, ok := shell.Split(line)
	if !ok {
		return nil, fmt.Errorf("unbalanced quotation in %q", line)
	}
	if len(words) == 0 || words[0] == "" {
		return nil, fmt.Errorf("missing command name in %q", line)
	}
	cmd := &Command{Name: words[0], Format: CommandLineFormat}

	var pos []string
	rest := words[1:]
	for i := 0; i < len(rest); i++ {
		name, ok := strings.CutPrefix(rest[i], "--")
		if !ok || name == "" {
			pos = append(pos, rest[i])
			continue
		}
		var value string
		if i+1 < len(rest) {
			i++
			value = rest[i]
		}
		cmd.setArg(name, value)
	}
	if len(pos) == 0 {
		return cmd, nil
	}

	spec, ok := lookup(reg, cmd.Name)
	if !ok {
		return nil, fmt.Errorf("command %q: positional argument %q for unknown command", cmd.Name, pos[0])
	}
	for _, value := range pos {
		// Each positional is set before the next is bound, so the next one
		// always takes the first parameter still free.
		name, ok := spec.Positional(0, cmd.hasArg)
		if !ok {
			return nil, fmt.Errorf("command %q: too many positional arguments at %q", cmd.Name, value)
		}
		cmd.setArg(name, value)
	}
	return cmd, nil
}

// applyDefaults sets the default arguments from reg that cmd does not set.
func applyDefaults(cmd *Command, reg cmdspec.Registry) {
	spec, ok := lookup(reg, cmd.Name)
	if !ok {
		return
	}
	for _, name := range spec.DefaultNames() {
		if !cmd.hasArg(name) {
			cmd.setArg(name, spec.Defaults[name])
		}
	}
}

func lookup(reg cmdspec.Registry, name string) (*cmdspec.Spec, bool) {
	if reg == nil {
		return nil, false
	}
	return reg.Lookup(name)
}
