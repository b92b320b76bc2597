// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package cmdspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a configuration file.
type Format int

// Constants defining the supported configuration formats.
const (
	JSON Format = iota // JSON, with HuJSON comments and trailing commas
	TOML               // TOML
	YAML               // YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf returns the configuration format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".hujson", ".jsonc":
		return JSON, nil
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("unknown config format %q", ext)
	}
}

// file is the top-level shape of a configuration file.
type file struct {
	Commands []Spec `json:"commands" toml:"commands" yaml:"commands"`
}

// Parse parses the command specs from data in the given format.
func Parse(data []byte, f Format) ([]Spec, error) {
	var cfg file
	switch f {
	case JSON:
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parse %v: %w", f, err)
		}
		dec := json.NewDecoder(bytes.NewReader(std))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %v: %w", f, err)
		}
	case TOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %v: %w", f, err)
		}
		if un := md.Undecoded(); len(un) != 0 {
			return nil, fmt.Errorf("parse %v: unknown key %q", f, un[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %v: %w", f, err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %v", f)
	}
	for i, s := range cfg.Commands {
		if s.Name == "" {
			return nil, fmt.Errorf("parse %v: command %d has no name", f, i+1)
		}
	}
	return cfg.Commands, nil
}

// Load reads the configuration file at path and returns a Table containing
// the built-in specs extended by the contents of the file.
func Load(path string) (*Table, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	specs, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t := Builtin()
	for _, s := range specs {
		t.Add(s)
	}
	return t, nil
}
