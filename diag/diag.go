// Package diag collects the non-fatal diagnostic events this toolchain
// raises (malformed literals, out-of-range registers, unknown opcodes, ...)
// so they can be reported in aggregate rather than only printed as they
// occur.
package diag

import (
	"fmt"
	"io"
)

// Event is a single recorded diagnostic.
type Event struct {
	// PC is the instruction index the event occurred at, in whichever
	// ISA's index space the reporting component is working in.
	PC int
	// Err is the underlying error kind (see package simerr).
	Err error
	// Detail is optional free-text context (e.g. the offending line).
	Detail string
}

func (e Event) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("pc=%d: %v", e.PC, e.Err)
	}
	return fmt.Sprintf("pc=%d: %v (%s)", e.PC, e.Err, e.Detail)
}

// Log accumulates Events and, optionally, mirrors them to a writer as they
// are recorded. A nil *Log is valid and silently discards every record,
// so components may accept a *Log without the caller having to construct
// one.
type Log struct {
	w      io.Writer
	events []Event
}

// New creates a Log. w may be nil to disable live mirroring.
func New(w io.Writer) *Log {
	return &Log{w: w}
}

// Record appends an event and, if a writer was configured, writes it
// immediately.
func (l *Log) Record(pc int, err error, detail string) {
	if l == nil {
		return
	}
	ev := Event{PC: pc, Err: err, Detail: detail}
	l.events = append(l.events, ev)
	if l.w != nil {
		fmt.Fprintln(l.w, ev.String())
	}
}

// Events returns every event recorded so far, in recording order.
func (l *Log) Events() []Event {
	if l == nil {
		return nil
	}
	return l.events
}

// Len reports how many events have been recorded.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}
