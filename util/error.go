// util/error.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmp/sixdof/log"
)

// ErrorLogger accumulates problems found while validating a vehicle
// configuration so that validation can continue past the first one.
// Push and Pop maintain the path to the item being checked (e.g.
// "flight_controls / control_surfaces / Elevator"), which prefixes each
// message. To find out whether a particular item had problems, compare
// Count before and after checking it.
//
// The query methods may be called on a nil *ErrorLogger.
type ErrorLogger struct {
	path   []string
	errors []string
}

func (e *ErrorLogger) Push(s string) { e.path = append(e.path, s) }
func (e *ErrorLogger) Pop()          { e.path = e.path[:len(e.path)-1] }

func (e *ErrorLogger) ErrorString(s string, args ...any) {
	e.add(fmt.Sprintf(s, args...))
}

func (e *ErrorLogger) Error(err error) {
	e.add(err.Error())
}

func (e *ErrorLogger) add(msg string) {
	if len(e.path) > 0 {
		msg = strings.Join(e.path, " / ") + ": " + msg
	}
	e.errors = append(e.errors, msg)
}

// Merge adds all of other's errors to e under the given context; an empty
// context adds them under e's current path.
func (e *ErrorLogger) Merge(context string, other *ErrorLogger) {
	if context != "" {
		e.Push(context)
		defer e.Pop()
	}
	for _, msg := range other.Errors() {
		e.add(msg)
	}
}

func (e *ErrorLogger) HaveErrors() bool { return e.Count() > 0 }

func (e *ErrorLogger) Count() int {
	if e == nil {
		return 0
	}
	return len(e.errors)
}

// Errors returns a copy of the error messages.
func (e *ErrorLogger) Errors() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.errors...)
}

func (e *ErrorLogger) String() string {
	return strings.Join(e.Errors(), "\n")
}

func (e *ErrorLogger) PrintErrors(lg *log.Logger) {
	e.FprintErrors(os.Stderr, lg)
}

// FprintErrors writes the errors to w, one per line, and also logs them
// if lg is non-nil.
func (e *ErrorLogger) FprintErrors(w io.Writer, lg *log.Logger) {
	msgs := e.Errors()
	if lg != nil {
		// Logged first so the two aren't interleaved when logging to a
		// terminal.
		for _, msg := range msgs {
			lg.Error(msg)
		}
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}
}

func (e *ErrorLogger) CurrentDepth() int {
	if e == nil {
		return 0
	}
	return len(e.path)
}

// CheckDepth should be deferred with the depth at the start of a function
// that pushes context; it panics if the function returned without popping
// everything it pushed. A panic already in flight is passed through.
func (e *ErrorLogger) CheckDepth(d int) {
	if r := recover(); r != nil {
		panic(r)
	}
	if depth := e.CurrentDepth(); depth != d {
		var sb strings.Builder
		fmt.Fprintf(&sb, "ErrorLogger depth %d at start, %d at return\n", d, depth)
		for _, f := range log.CaptureCallstack(1) {
			fmt.Fprintln(&sb, "\t"+f.String())
		}
		panic(sb.String())
	}
}
