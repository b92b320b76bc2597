// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package grncmd

import "fmt"

// EventKind identifies the kind of an Event.
type EventKind byte

// Constants defining the valid EventKind values.
const (
	EventCommand      EventKind = iota // a complete command other than a load
	EventComment                       // a comment line
	EventLoadStart                     // a load command line is complete
	EventLoadColumns                   // the column names of a load are known
	EventLoadValue                     // a load record is complete
	EventLoadComplete                  // a load payload is complete

	numEventKinds
)

var eventText = [...]string{
	EventCommand:      "command",
	EventComment:      "comment",
	EventLoadStart:    "load-start",
	EventLoadColumns:  "load-columns",
	EventLoadValue:    "load-value",
	EventLoadComplete: "load-complete",
}

func (k EventKind) String() string {
	if k < numEventKinds {
		return eventText[k]
	}
	return fmt.Sprintf("EventKind(%d)", byte(k))
}

// An Event reports a unit of parsed input to a listener.
type Event struct {
	Kind EventKind

	// Command is the command the event belongs to. It is nil for
	// EventComment.
	Command *Command

	// Comment is the text of a comment line following the "#" marker, for
	// EventComment.
	Comment string

	// Columns are the column names of a load, for EventLoadColumns.
	Columns []string

	// Value is the decoded record, for EventLoadValue: a []any for an array
	// record or a map[string]any for an object record.
	Value any

	// Source is the source text consumed for the load command up to this
	// event, for the load events. For a payload given inline as an argument,
	// it is the command line.
	Source string
}

// listeners maps each event kind to its listeners in registration order.
type listeners [numEventKinds][]func(Event)

func (ls *listeners) add(kind EventKind, f func(Event)) {
	if kind >= numEventKinds {
		panic(fmt.Sprintf("invalid event kind %v", kind))
	}
	ls[kind] = append(ls[kind], f)
}

func (ls *listeners) fire(e Event) {
	for _, f := range ls[e.Kind] {
		f(e)
	}
}
