// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package grncmd implements an incremental parser for the command protocol
// of a search-engine server.
//
// # Commands
//
// Commands are written one per line in either of two syntaxes. The command
// line syntax gives a command name followed by flags:
//
//	select --table Users --filter 'age <= 30'
//
// The URI syntax gives the command name as the last segment of a path, with
// arguments in the query string:
//
//	/d/select.json?table=Users&filter=age%3C%3D30
//
// Lines beginning with "#" are comments. Parse parses a single line into a
// Command.
//
// # Streaming
//
// The Parser type accepts input in chunks of any size and reports what it
// finds to listeners registered with On:
//
//	p := grncmd.NewParser()
//	p.On(grncmd.EventCommand, func(e grncmd.Event) {
//	   log.Printf("Command: %s", e.Command.Name)
//	})
//	for chunk := range input {
//	   if err := p.Feed(chunk); err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   }
//	}
//	if err := p.Finish(); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// Listeners run synchronously, on the goroutine that called Feed or Finish,
// as soon as each unit of input is complete. A listener must not call back
// into the Parser that invoked it.
//
// # Loading
//
// The load command carries a JSON payload of records, either inline as the
// value of its values argument, or in the text that follows the command line:
//
//	load --table Users
//	[
//	["_key", "name"],
//	["alice", "Alice"]
//	]
//
// The payload is an array of arrays, where the first row names the columns
// unless a columns argument was given; or an array of objects; or a single
// object. The parser reports each record as soon as it is complete:
//
//	Event             | When
//	----------------- | ----------------------------------------------------
//	EventLoadStart    | the load command line is complete
//	EventLoadColumns  | the column names are known
//	EventLoadValue    | a record is complete (array or object)
//	EventLoadComplete | the payload is complete
//
// Load events include a copy of the source text consumed for the command so
// far. Faults in the payload are reported as a *ParseError, whose message
// shows the text around the fault:
//
//	record separate comma is missing:
//	{"_key": "alice"}
//	                 ^
//	{"_key": "bob"}
package grncmd
