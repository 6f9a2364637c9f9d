// log/stack.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const maxStackDepth = 12

type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

func (f StackFrame) String() string {
	return f.Function + " (" + f.File + ":" + strconv.Itoa(f.Line) + ")"
}

// Callstack is the chain of calls that led to a log message, innermost
// first.
type Callstack []StackFrame

// CaptureCallstack returns the callstack starting skip frames above its
// caller.
func CaptureCallstack(skip int) Callstack {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var cs Callstack
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") || strings.HasPrefix(frame.Function, "testing.") {
			break
		}
		fn := strings.TrimPrefix(frame.Function, "github.com/mmp/sixdof/")
		cs = append(cs, StackFrame{Function: fn, File: filepath.Base(frame.File), Line: frame.Line})
		if !more || frame.Function == "main.main" {
			break
		}
	}
	return cs
}

func (cs Callstack) LogValue() slog.Value {
	s := make([]string, len(cs))
	for i, f := range cs {
		s[i] = f.String()
	}
	return slog.AnyValue(s)
}
