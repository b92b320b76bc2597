// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/grncmd"
	"github.com/spf13/cobra"
)

var convertFlags struct {
	to        string
	prefix    string
	chunkSize int
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Rewrite commands in another syntax",
	Long: `Parse the input and write each command in the syntax chosen by --to,
either "command" (command line) or "uri". Comments are copied.

A load command is written as a single command whose values argument holds
all its records, including the header row of an array payload.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		render, err := renderer(convertFlags.to, convertFlags.prefix)
		if err != nil {
			return err
		}
		c := &converter{w: os.Stdout, render: render}
		p := newParser()
		p.On(grncmd.EventComment, c.comment)
		p.On(grncmd.EventCommand, c.command)
		p.On(grncmd.EventLoadStart, c.loadStart)
		p.On(grncmd.EventLoadColumns, c.loadColumns)
		p.On(grncmd.EventLoadValue, c.loadValue)
		p.On(grncmd.EventLoadComplete, c.loadComplete)
		if err := runInput(cmd, p, args, convertFlags.chunkSize); err != nil {
			return err
		}
		return c.err
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFlags.to, "to", "command", `Output syntax ("command" or "uri")`)
	convertCmd.Flags().StringVar(&convertFlags.prefix, "prefix", "", "Path prefix for URI output (default: as parsed)")
	convertCmd.Flags().IntVar(&convertFlags.chunkSize, "chunk-size", 4096, "Input chunk size in bytes")
	rootCmd.AddCommand(convertCmd)
}

// renderer returns a function to render commands in the named syntax.
func renderer(to, prefix string) (func(*grncmd.Command) string, error) {
	switch to {
	case "command":
		return (*grncmd.Command).CommandLine, nil
	case "uri":
		return func(c *grncmd.Command) string {
			if prefix != "" {
				cp := *c
				cp.PathPrefix = prefix
				return cp.URI()
			}
			return c.URI()
		}, nil
	default:
		return nil, fmt.Errorf("unknown output syntax %q", to)
	}
}

// A converter rewrites the commands reported by a parser.
type converter struct {
	w      io.Writer
	render func(*grncmd.Command) string
	rows   []any // records of the current load
	err    error
}

func (c *converter) println(s string) {
	if c.err == nil {
		_, c.err = fmt.Fprintln(c.w, s)
	}
}

func (c *converter) comment(e grncmd.Event) { c.println("#" + e.Comment) }

func (c *converter) command(e grncmd.Event) { c.println(c.render(e.Command)) }

func (c *converter) loadStart(e grncmd.Event) { c.rows = nil }

func (c *converter) loadColumns(e grncmd.Event) {
	if _, ok := e.Command.Arg("columns"); ok {
		return // already an argument
	}
	hdr := make([]any, len(e.Columns))
	for i, col := range e.Columns {
		hdr[i] = col
	}
	c.rows = append(c.rows, hdr)
}

func (c *converter) loadValue(e grncmd.Event) { c.rows = append(c.rows, e.Value) }

func (c *converter) loadComplete(e grncmd.Event) {
	rows := c.rows
	if rows == nil {
		rows = []any{}
	}
	values, err := json.Marshal(rows)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.println(c.render(e.Command.WithArg("values", string(values))))
	c.rows = nil
}
