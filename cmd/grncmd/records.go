// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/creachadair/grncmd"
	"github.com/creachadair/grncmd/recpath"
	"github.com/spf13/cobra"
)

var recordsFlags struct {
	selects   []string
	chunkSize int
}

var recordsCmd = &cobra.Command{
	Use:   "records [file]",
	Short: "Write the records of load commands as JSON lines",
	Long: `Parse the input and write each record of each load command to stdout as a
JSON object with the table name and the record. Array records are converted
to objects using the column names of the load.

Each --select path (for example, "$.name" or "$..tags[0]") selects a field
of the record; when any are given, only the selected fields are written,
keyed by their paths.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var paths []recpath.Expr
		for _, s := range recordsFlags.selects {
			e, err := recpath.Parse(s)
			if err != nil {
				return err
			}
			paths = append(paths, e)
		}

		enc := json.NewEncoder(os.Stdout)
		var columns []string
		var werr error
		p := newParser()
		p.On(grncmd.EventLoadStart, func(grncmd.Event) { columns = nil })
		p.On(grncmd.EventLoadColumns, func(e grncmd.Event) { columns = e.Columns })
		p.On(grncmd.EventLoadValue, func(e grncmd.Event) {
			if werr != nil {
				return
			}
			table, _ := e.Command.Arg("table")
			werr = enc.Encode(recordJSON{
				Table:  table,
				Record: selectFields(paths, toObject(columns, e.Value)),
			})
		})
		if err := runInput(cmd, p, args, recordsFlags.chunkSize); err != nil {
			return err
		}
		return werr
	},
}

func init() {
	recordsCmd.Flags().StringArrayVar(&recordsFlags.selects, "select", nil, "Path of a field to select (repeatable)")
	recordsCmd.Flags().IntVar(&recordsFlags.chunkSize, "chunk-size", 4096, "Input chunk size in bytes")
	rootCmd.AddCommand(recordsCmd)
}

type recordJSON struct {
	Table  string `json:"table,omitempty"`
	Record any    `json:"record"`
}

// toObject converts an array record to an object keyed by column names.
// Values past the last column are keyed by their decimal position.
func toObject(columns []string, v any) any {
	row, ok := v.([]any)
	if !ok {
		return v
	}
	obj := make(map[string]any, len(row))
	for i, elt := range row {
		if i < len(columns) {
			obj[columns[i]] = elt
		} else {
			obj[strconv.Itoa(i)] = elt
		}
	}
	return obj
}

// selectFields returns the values selected from v by paths, keyed by path,
// or v itself if there are no paths. A path that selects several values maps
// to an array of them.
func selectFields(paths []recpath.Expr, v any) any {
	if len(paths) == 0 {
		return v
	}
	out := make(map[string]any, len(paths))
	for _, e := range paths {
		switch vs := e.Eval(v); len(vs) {
		case 0:
			out[e.String()] = nil
		case 1:
			out[e.String()] = vs[0]
		default:
			out[e.String()] = vs
		}
	}
	return out
}
