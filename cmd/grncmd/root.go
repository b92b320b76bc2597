// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/grncmd"
	"github.com/creachadair/grncmd/cmdspec"
	"github.com/spf13/cobra"
)

var (
	specFile string
	verbose  bool

	logger   = slog.New(slog.NewTextHandler(os.Stderr, nil))
	registry cmdspec.Registry
)

var rootCmd = &cobra.Command{
	Use:   "grncmd",
	Short: "Parse search-server command streams",
	Long: `grncmd reads a stream of search-server commands, in command-line or URI
syntax, and reports what it finds. Load commands are parsed record by record.

Command specs (positional parameters and default arguments) come from a
built-in table, overlaid by the file given with --spec (.json, .hujson,
.jsonc, .toml, .yaml, or .yml).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		if specFile == "" {
			registry = cmdspec.Builtin()
			return nil
		}
		tab, err := cmdspec.Load(specFile)
		if err != nil {
			return fmt.Errorf("load command specs: %w", err)
		}
		logger.Debug("loaded command specs", "file", specFile, "commands", len(tab.Names()))
		registry = tab
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&specFile, "spec", "", "Command spec file to overlay the built-in specs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// newParser returns a parser using the selected command registry, with
// debug logging of each event.
func newParser() *grncmd.Parser {
	p := grncmd.NewParser(grncmd.WithRegistry(registry))
	for kind := range numEventKinds {
		p.On(kind, func(e grncmd.Event) {
			if e.Command != nil {
				logger.Debug("event", "kind", e.Kind, "command", e.Command.Name)
			} else {
				logger.Debug("event", "kind", e.Kind)
			}
		})
	}
	return p
}

const numEventKinds = grncmd.EventLoadComplete + 1

// openInput opens the input named by args, or stdin if there is none.
func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

// feedInput delivers the contents of r to p in chunks of at most size bytes,
// then finishes p.
func feedInput(ctx context.Context, p *grncmd.Parser, r io.Reader, size int) error {
	if size <= 0 {
		return fmt.Errorf("invalid chunk size %d", size)
	}
	buf := make([]byte, size)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			logger.Debug("feed", "offset", total, "bytes", n)
			total += int64(n)
			if perr := p.Feed(buf[:n]); perr != nil {
				return perr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
	}
	logger.Debug("finish", "bytes", total)
	return p.Finish()
}

// runInput parses the input named by args with p. The error it returns is
// reported by cobra, so it is not logged here.
func runInput(cmd *cobra.Command, p *grncmd.Parser, args []string, size int) error {
	in, name, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := feedInput(cmd.Context(), p, in, size); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
