// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd

import (
	"bytes"
	"errors"

	"github.com/creachadair/grncmd/decode"
	"github.com/creachadair/grncmd/internal/jscan"
)

// segState is the state of a segmenter.
type segState byte

const (
	awaitPayload   segState = iota // before the first "[" or "{"
	awaitElement                   // inside the outer array, before an element
	inElement                      // inside an element
	awaitSeparator                 // after an element, before "," or "]"
	closing                        // after a single object record
	segDone                        // the payload is complete
)

// segKind identifies the kind of a segment.
type segKind byte

const (
	segHeader segKind = iota + 1 // the header row of a bracket payload
	segRecord                    // a data record
	segEnd                       // the end of the payload
)

// A segment is a unit of a load payload found by a segmenter.
type segment struct {
	kind  segKind
	span  jscan.Span // the source of the element; zero for segEnd
	value any        // the decoded element; nil for segEnd
}

// A fault is a payload fault found by a segmenter, pending until the line
// holding its offending byte is complete.
type fault struct {
	kind  ErrorKind
	from  int // offset where Before begins
	split int // offset where Before ends and After begins
	err   error
}

// A segmenter finds and decodes the depth-1 elements of a load payload held in
// buf, which grows at the end as input arrives. Bytes before pos have been
// consumed and are never examined again, except to report a fault.
type segmenter struct {
	buf []byte
	pos int

	state   segState
	started bool // the outer "[" or "{" has been seen
	single  bool // the payload is a single object

	form      byte // '[' or '{' for the elements seen so far, or 0
	header    bool // the next array element is the header row
	noObjects bool // object elements are not permitted

	// Scanning state for the current element.
	start int  // offset of its opening delimiter
	last  int  // offset past the end of the previous element
	depth int  // nesting depth relative to the element
	inStr bool // inside a string
	esc   bool // after a backslash in a string

	fault *fault
	scan  int // where to resume looking for the end of the fault line
}

// newSegmenter returns a segmenter for a payload. If columns is true, the
// column names are already known, so array payloads have no header row and
// object elements are not permitted.
func newSegmenter(columns bool) *segmenter {
	return &segmenter{header: !columns, noObjects: columns}
}

// next returns the next complete segment of the payload. It returns false
// without error when more input is required, including while a fault waits
// for the rest of its line. If final is true, the input is complete, so a
// pending fault is reported as it stands, and an unfinished payload is an
// error.
func (s *segmenter) next(final bool) (segment, bool, error) {
	if s.fault != nil {
		return segment{}, false, s.report(final)
	}
	for s.pos < len(s.buf) || s.state == closing {
		switch s.state {
		case awaitPayload:
			c := s.buf[s.pos]
			switch {
			case isSpace(c):
				s.pos++
			case c == '[':
				s.started = true
				s.state = awaitElement
				s.pos++
			case c == '{':
				s.started = true
				s.single = true
				if !s.canBegin(c) {
					return segment{}, false, s.fail(InvalidRecord, s.pos, s.pos, nil, final)
				}
				s.beginElement(c)
			default:
				return segment{}, false, s.fail(GarbageBeforePayload, s.pos, s.pos, nil, final)
			}

		case awaitElement:
			c := s.buf[s.pos]
			switch {
			case isSpace(c):
				s.pos++
			case c == ']':
				s.pos++
				s.state = segDone
				return segment{kind: segEnd}, true, nil
			case c == '[' || c == '{':
				if !s.canBegin(c) {
					return segment{}, false, s.fail(InvalidRecord, s.pos, s.pos, nil, final)
				}
				s.beginElement(c)
			default:
				return segment{}, false, s.fail(InvalidRecord, s.pos, s.pos, nil, final)
			}

		case inElement:
			if !s.scanElement() {
				break // need more input
			}
			return s.endElement(final)

		case awaitSeparator:
			c := s.buf[s.pos]
			switch {
			case isSpace(c):
				s.pos++
			case c == ',':
				s.pos++
				s.state = awaitElement
			case c == ']':
				s.pos++
				s.state = segDone
				return segment{kind: segEnd}, true, nil
			default:
				// The text before the fault is the previous element.
				s.fault = &fault{kind: MissingRecordSeparator, from: s.start, split: s.last}
				s.scan = s.pos
				return segment{}, false, s.report(final)
			}

		case closing:
			s.state = segDone
			return segment{kind: segEnd}, true, nil

		case segDone:
			return segment{}, false, nil
		}
	}
	if final && s.started && s.state != segDone {
		return segment{}, false, &ParseError{Kind: IncompletePayload, Before: string(s.buf)}
	}
	if final && !s.started {
		s.state = segDone
		return segment{kind: segEnd}, true, nil
	}
	return segment{}, false, nil
}

// canBegin reports whether an element may begin with c, given the elements
// seen so far.
func (s *segmenter) canBegin(c byte) bool {
	if c == '{' && s.noObjects {
		return false
	}
	return s.form == 0 || s.form == c
}

// beginElement starts scanning an element whose opening delimiter c is at pos.
func (s *segmenter) beginElement(c byte) {
	s.form = c
	s.start = s.pos
	s.depth, s.inStr, s.esc = 1, false, false
	s.state = inElement
	s.pos++
}

// scanElement advances through the current element, and reports whether its
// closing delimiter has been consumed.
func (s *segmenter) scanElement() bool {
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++
		if s.inStr {
			if s.esc {
				s.esc = false
			} else if c == '\\' {
				s.esc = true
			} else if c == '"' {
				s.inStr = false
			}
			continue
		}
		switch c {
		case '"':
			s.inStr = true
		case '[', '{':
			s.depth++
		case ']', '}':
			s.depth--
			if s.depth == 0 {
				return true
			}
		}
	}
	return false
}

// endElement decodes the element just closed at pos.
func (s *segmenter) endElement(final bool) (segment, bool, error) {
	span := jscan.Span{Pos: s.start, End: s.pos}
	v, err := decode.Value(s.buf[span.Pos:span.End])
	if err != nil {
		off := span.Pos
		var serr *decode.SyntaxError
		if errors.As(err, &serr) {
			off += min(serr.Offset, span.End-span.Pos-1)
		}
		return segment{}, false, s.fail(InvalidJSON, off, off, err, final)
	}

	seg := segment{kind: segRecord, span: span, value: v}
	switch {
	case s.single:
		s.state = closing
	case s.form == '[' && s.header:
		if !allStrings(v) {
			return segment{}, false, s.fail(InvalidRecord, span.Pos, span.Pos, nil, final)
		}
		s.header = false
		seg.kind = segHeader
		s.state = awaitSeparator
	default:
		s.state = awaitSeparator
	}
	s.last = s.pos
	return seg, true, nil
}

// fail records a fault whose text before begins at the start of buf, and
// reports it if its line is complete. It returns nil while the fault is
// pending.
func (s *segmenter) fail(kind ErrorKind, split, offset int, err error, final bool) error {
	s.fault = &fault{kind: kind, split: split, err: err}
	s.scan = offset
	return s.report(final)
}

// report returns the pending fault as a *ParseError once the line holding the
// offending byte is complete, or nil if it is not yet.
func (s *segmenter) report(final bool) error {
	f := s.fault
	end := len(s.buf)
	if i := bytes.IndexByte(s.buf[s.scan:], '\n'); i >= 0 {
		end = s.scan + i + 1
	} else if !final {
		s.scan = len(s.buf)
		return nil
	}
	return &ParseError{
		Kind:   f.kind,
		Before: string(s.buf[f.from:f.split]),
		After:  string(s.buf[f.split:end]),
		err:    f.err,
	}
}

func allStrings(v any) bool {
	row, ok := v.([]any)
	if !ok {
		return false
	}
	for _, elt := range row {
		if _, ok := elt.(string); !ok {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
