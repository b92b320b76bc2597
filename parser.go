// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd

import (
	"bytes"
	"slices"
	"strings"

	"github.com/creachadair/grncmd/cmdspec"
)

const defaultLoadCommand = "load"

// Parser is an incremental parser for a stream of commands. Use Feed (or
// Write) to deliver input in chunks of any size, and Finish at the end of
// input. Register listeners with On before feeding input.
//
// A Parser is not safe for concurrent use by multiple goroutines.
type Parser struct {
	reg      cmdspec.Registry
	split    func(string) []string
	loadName string
	ls       listeners

	buf     []byte // unconsumed input outside a streamed payload
	scanned int    // length of the prefix of buf known to have no newline
	sess    *loadSession
}

// An Option configures a Parser.
type Option func(*Parser)

// WithRegistry sets the command registry used to bind positional arguments
// and supply default arguments. The default is cmdspec.Builtin(). A nil
// registry disables both.
func WithRegistry(reg cmdspec.Registry) Option { return func(p *Parser) { p.reg = reg } }

// WithColumnSplitter sets the function used to split the columns argument of
// a load command into column names. The default splits on commas, trims
// surrounding whitespace from each name, and discards empty names.
func WithColumnSplitter(split func(string) []string) Option {
	return func(p *Parser) { p.split = split }
}

// WithLoadCommand sets the name of the command whose payload is parsed as
// records. The default is "load".
func WithLoadCommand(name string) Option { return func(p *Parser) { p.loadName = name } }

// NewParser constructs a new, empty Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		reg:      cmdspec.Builtin(),
		split:    splitColumns,
		loadName: defaultLoadCommand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// On adds f to the listeners for events of the given kind. Listeners are
// called in the order they were added. On panics if kind is not valid.
func (p *Parser) On(kind EventKind, f func(Event)) { p.ls.add(kind, f) }

// Feed delivers a chunk of input to p, and calls the listeners for each
// command, comment, or load event completed by it.
//
// If the input is malformed, Feed returns an error and p discards the input
// buffered so far, including the rest of data. A fault in a load payload is
// reported as a *ParseError once the line holding it is complete.
func (p *Parser) Feed(data []byte) error {
	if p.sess != nil {
		p.sess.seg.buf = append(p.sess.seg.buf, data...)
	} else {
		p.buf = append(p.buf, data...)
	}
	return p.run(false)
}

// Write implements the io.Writer interface. It is equivalent to Feed.
func (p *Parser) Write(data []byte) (int, error) {
	if err := p.Feed(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Finish reports the end of input, as if the final line were terminated.
// A load command whose payload has not begun completes with no records.
// After Finish, p is ready for new input.
func (p *Parser) Finish() error {
	defer p.Reset()
	return p.run(true)
}

// Reset discards all buffered input and any load in progress. Listeners are
// retained.
func (p *Parser) Reset() {
	p.buf = nil
	p.scanned = 0
	p.sess = nil
}

func (p *Parser) run(final bool) error {
	for {
		if p.sess != nil {
			done, err := p.pump(final)
			if err != nil {
				p.Reset()
				return err
			} else if !done {
				return nil
			}
			continue
		}
		line, n, ok := p.nextLine(final)
		if !ok {
			return nil
		}
		if err := p.parseLine(line, n); err != nil {
			p.Reset()
			return err
		}
	}
}

// nextLine returns the next complete line in the buffer without its line
// terminator, along with the number of bytes it spans including the
// terminator. If final is true, the rest of the buffer is a complete line.
func (p *Parser) nextLine(final bool) (string, int, bool) {
	n := len(p.buf)
	if i := bytes.IndexByte(p.buf[p.scanned:], '\n'); i >= 0 {
		n = p.scanned + i + 1
	} else if !final || n == 0 {
		p.scanned = len(p.buf)
		return "", 0, false
	}
	line := strings.TrimSuffix(strings.TrimSuffix(string(p.buf[:n]), "\n"), "\r")
	return line, n, true
}

// parseLine handles a complete line spanning the first n bytes of the buffer.
func (p *Parser) parseLine(line string, n int) error {
	if text, ok := commentText(line); ok {
		p.consume(n)
		p.ls.fire(Event{Kind: EventComment, Comment: text})
		return nil
	}
	cmd, err := parseCommand(line, p.reg)
	if err != nil {
		return err
	} else if cmd == nil {
		p.consume(n) // blank
		return nil
	}
	cmd.load = cmd.Name == p.loadName
	if !cmd.IsLoad() {
		p.consume(n)
		p.ls.fire(Event{Kind: EventCommand, Command: cmd})
		return nil
	}
	return p.startLoad(cmd, line, n)
}

func (p *Parser) consume(n int) {
	p.buf = p.buf[n:]
	p.scanned = 0
}

// A loadSession is the state of a load command in progress.
type loadSession struct {
	cmd     *Command
	line    string // the command line
	inline  bool   // the payload is the values argument
	columns []string
	seg     *segmenter
}

// source returns a copy of the source text consumed for the load so far.
func (s *loadSession) source() string {
	if s.inline {
		return s.line
	}
	return string(s.seg.buf[:s.seg.pos])
}

func (p *Parser) startLoad(cmd *Command, line string, n int) error {
	cols, hasColumns := cmd.Arg("columns")
	values, inline := cmd.Arg("values")
	sess := &loadSession{
		cmd:    cmd,
		line:   line,
		inline: inline,
		seg:    newSegmenter(hasColumns),
	}
	if inline {
		sess.seg.buf = []byte(values)
		p.consume(n)
	} else {
		// The payload follows the command line in the same buffer.
		sess.seg.buf, sess.seg.pos = p.buf, n
		p.buf, p.scanned = nil, 0
	}
	p.sess = sess

	p.ls.fire(Event{Kind: EventLoadStart, Command: cmd, Source: line})
	if hasColumns {
		sess.columns = p.split(cols)
		p.ls.fire(Event{
			Kind:    EventLoadColumns,
			Command: cmd,
			Columns: slices.Clone(sess.columns),
			Source:  line,
		})
	}
	if !inline {
		return nil
	}

	// An inline payload is complete, so it is parsed to the end now.
	defer func() { p.sess = nil }()
	_, err := p.pump(true)
	return err
}

// pump delivers events for the segments of the current load payload, and
// reports whether the payload is complete.
func (p *Parser) pump(final bool) (bool, error) {
	s := p.sess
	for {
		seg, ok, err := s.seg.next(final)
		if err != nil || !ok {
			return false, err
		}
		switch seg.kind {
		case segHeader:
			s.columns = columnNames(seg.value)
			p.ls.fire(Event{
				Kind:    EventLoadColumns,
				Command: s.cmd,
				Columns: slices.Clone(s.columns),
				Source:  s.source(),
			})

		case segRecord:
			p.ls.fire(Event{Kind: EventLoadValue, Command: s.cmd, Value: seg.value, Source: s.source()})

		case segEnd:
			p.ls.fire(Event{Kind: EventLoadComplete, Command: s.cmd, Source: s.source()})
			if !s.inline {
				p.buf = slices.Clone(s.seg.buf[s.seg.pos:])
				p.scanned = 0
			}
			p.sess = nil
			return true, nil
		}
	}
}

// columnNames converts a header row, which the segmenter has checked holds
// only strings.
func columnNames(v any) []string {
	row := v.([]any)
	out := make([]string, len(row))
	for i, elt := range row {
		out[i] = elt.(string)
	}
	return out
}

func splitColumns(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if t := strings.TrimSpace(name); t != "" {
			out = append(out, t)
		}
	}
	return out
}
