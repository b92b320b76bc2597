// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/creachadair/grncmd"
	"github.com/spf13/cobra"
)

var parseFlags struct {
	chunkSize int
	source    bool
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Report parse events as JSON lines",
	Long: `Parse the input and write one JSON object per event to stdout.

Each object has the event kind, and as applicable the command name, format,
and arguments, the comment text, the column names, or the record value. With
--source, load events include the source text consumed so far.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		var werr error
		p := newParser()
		for kind := range numEventKinds {
			p.On(kind, func(e grncmd.Event) {
				if werr == nil {
					werr = enc.Encode(newEventJSON(e, parseFlags.source))
				}
			})
		}
		if err := runInput(cmd, p, args, parseFlags.chunkSize); err != nil {
			return err
		}
		return werr
	},
}

func init() {
	parseCmd.Flags().IntVar(&parseFlags.chunkSize, "chunk-size", 4096, "Input chunk size in bytes")
	parseCmd.Flags().BoolVar(&parseFlags.source, "source", false, "Include source text in load events")
	rootCmd.AddCommand(parseCmd)
}

// eventJSON is the encoding of an event for output.
type eventJSON struct {
	Event   string       `json:"event"`
	Command string       `json:"command,omitempty"`
	Format  string       `json:"format,omitempty"`
	Prefix  string       `json:"prefix,omitempty"`
	Args    []grncmd.Arg `json:"args,omitempty"`
	Comment *string      `json:"comment,omitempty"`
	Columns []string     `json:"columns,omitempty"`
	Value   any          `json:"value,omitempty"`
	Source  string       `json:"source,omitempty"`
}

func newEventJSON(e grncmd.Event, withSource bool) eventJSON {
	out := eventJSON{Event: e.Kind.String(), Columns: e.Columns, Value: e.Value}
	if e.Kind == grncmd.EventComment {
		out.Comment = &e.Comment
	}
	if c := e.Command; c != nil {
		out.Command = c.Name
		out.Format = c.Format.String()
		out.Prefix = c.PathPrefix
		if e.Kind == grncmd.EventCommand || e.Kind == grncmd.EventLoadStart {
			out.Args = c.Args()
		}
	}
	if withSource {
		out.Source = e.Source
	}
	return out
}
