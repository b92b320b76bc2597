// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package cmdspec describes the commands understood by a search server: the
// order of their parameters, used to bind positional arguments, and default
// argument values injected when a command omits them.
//
// A Table starts from the built-in descriptions (see Builtin) and may be
// extended from a configuration file in JSON (with comments and trailing
// commas, as HuJSON), TOML, or YAML format:
//
//	{
//	  "commands": [
//	    {"name": "select", "defaults": {"output_type": "json"}},
//	    {"name": "my_plugin", "parameters": ["table", "query"]},
//	  ],
//	}
package cmdspec

import (
	"maps"
	"slices"
)

// A Registry reports the specification of a command by name.
type Registry interface {
	// Lookup returns the specification for the named command, and reports
	// whether one was found.
	Lookup(name string) (*Spec, bool)
}

// A Spec describes a single command.
type Spec struct {
	Name string `json:"name" toml:"name" yaml:"name"`

	// Parameters lists the parameter names in positional order.
	Parameters []string `json:"parameters,omitempty" toml:"parameters" yaml:"parameters,omitempty"`

	// Defaults gives argument values to use when a command does not set them.
	Defaults map[string]string `json:"defaults,omitempty" toml:"defaults" yaml:"defaults,omitempty"`
}

// Positional returns the name of the n-th positional parameter (0-based) of
// s, skipping parameters for which set reports true.
func (s *Spec) Positional(n int, set func(string) bool) (string, bool) {
	for _, p := range s.Parameters {
		if set(p) {
			continue
		}
		if n == 0 {
			return p, true
		}
		n--
	}
	return "", false
}

// DefaultNames returns the names of the parameters with default values, in
// lexicographic order.
func (s *Spec) DefaultNames() []string {
	return slices.Sorted(maps.Keys(s.Defaults))
}

// A Table is a Registry backed by an in-memory collection of specs.
// A zero Table is empty and ready for use.
type Table struct {
	specs map[string]*Spec
}

// Lookup implements the Registry interface.
func (t *Table) Lookup(name string) (*Spec, bool) {
	s, ok := t.specs[name]
	return s, ok
}

// Names returns the names of all the commands in t, in lexicographic order.
func (t *Table) Names() []string { return slices.Sorted(maps.Keys(t.specs)) }

// Add adds spec to t. If t already has a command with the same name, the new
// parameter list replaces the old one when it is non-empty, and the new
// defaults are merged over the old ones.
func (t *Table) Add(spec Spec) {
	if t.specs == nil {
		t.specs = make(map[string]*Spec)
	}
	old, ok := t.specs[spec.Name]
	if !ok {
		t.specs[spec.Name] = &Spec{
			Name:       spec.Name,
			Parameters: slices.Clone(spec.Parameters),
			Defaults:   maps.Clone(spec.Defaults),
		}
		return
	}
	if len(spec.Parameters) != 0 {
		old.Parameters = slices.Clone(spec.Parameters)
	}
	if len(spec.Defaults) != 0 {
		if old.Defaults == nil {
			old.Defaults = make(map[string]string)
		}
		maps.Copy(old.Defaults, spec.Defaults)
	}
}

// Builtin returns a new Table populated with the built-in command specs.
func Builtin() *Table {
	t := new(Table)
	for _, s := range builtin {
		t.Add(s)
	}
	return t
}

var builtin = []Spec{
	{Name: "cache_limit", Parameters: []string{"max"}},
	{Name: "column_create", Parameters: []string{"table", "name", "flags", "type", "source"}},
	{Name: "column_list", Parameters: []string{"table"}},
	{Name: "column_remove", Parameters: []string{"table", "name"}},
	{Name: "column_rename", Parameters: []string{"table", "name", "new_name"}},
	{Name: "delete", Parameters: []string{"table", "key", "id", "filter"}},
	{Name: "dump", Parameters: []string{"tables", "dump_plugins", "dump_schema", "dump_records", "dump_indexes"}},
	{Name: "load", Parameters: []string{
		"values", "table", "columns", "ifexists", "input_type", "each",
		"output_ids", "output_errors", "lock_table",
	}},
	{Name: "log_level", Parameters: []string{"level"}},
	{Name: "log_put", Parameters: []string{"level", "message"}},
	{Name: "normalize", Parameters: []string{"normalizer", "string", "flags"}},
	{Name: "object_exist", Parameters: []string{"name"}},
	{Name: "plugin_register", Parameters: []string{"name"}},
	{Name: "quit"},
	{Name: "register", Parameters: []string{"path"}},
	{Name: "select", Parameters: []string{
		"table", "match_columns", "query", "filter", "scorer", "sortby",
		"output_columns", "offset", "limit", "drilldown", "drilldown_sortby",
		"drilldown_output_columns", "drilldown_offset", "drilldown_limit",
		"cache", "match_escalation_threshold", "query_expansion", "query_flags",
		"query_expander", "adjuster", "drilldown_calc_types",
		"drilldown_calc_target", "drilldown_filter", "sort_keys",
		"drilldown_sort_keys",
	}},
	{Name: "shutdown", Parameters: []string{"mode"}},
	{Name: "status"},
	{Name: "table_create", Parameters: []string{
		"name", "flags", "key_type", "value_type", "default_tokenizer",
		"normalizer", "token_filters",
	}},
	{Name: "table_list", Parameters: []string{"prefix"}},
	{Name: "table_remove", Parameters: []string{"name", "dependent"}},
	{Name: "table_rename", Parameters: []string{"name", "new_name"}},
	{Name: "tokenize", Parameters: []string{"tokenizer", "string", "normalizer", "flags", "mode", "token_filters"}},
	{Name: "truncate", Parameters: []string{"target_name"}},
}
