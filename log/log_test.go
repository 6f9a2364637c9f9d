// log/log_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNilLogger(t *testing.T) {
	var l *Logger
	// None of these should crash.
	l.Debug("debug")
	l.Debugf("debug %d", 1)
	l.Info("info")
	l.Infof("info %d", 2)
	if l.With("a", 1) != nil {
		t.Errorf("With on nil logger should return nil")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	buf.Reset()

	l.Info("should not appear")
	l.Debugf("nor %s", "this")
	if buf.Len() != 0 {
		t.Errorf("info/debug records written at warn level: %s", buf.String())
	}

	l.Warnf("surface %s dropped", "elevator")
	if !strings.Contains(buf.String(), "surface elevator dropped") {
		t.Errorf("expected warning in output, got %q", buf.String())
	}
}

func TestWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").With("vehicle", "f16")
	buf.Reset()

	l.Info("tick")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unable to decode log record %q: %v", buf.String(), err)
	}
	if rec["vehicle"] != "f16" {
		t.Errorf("vehicle attribute: got %v, expected f16", rec["vehicle"])
	}
	if _, ok := rec["callstack"]; !ok {
		t.Errorf("expected callstack attribute in %v", rec)
	}
}

func TestCallstack(t *testing.T) {
	cs := func() Callstack { return CaptureCallstack(0) }()
	if len(cs) < 2 {
		t.Fatalf("got %d frames, expected at least 2", len(cs))
	}
	for _, f := range cs {
		if f.File != "log_test.go" || f.Line == 0 {
			t.Errorf("unexpected frame %s", f)
		}
	}
	if !strings.HasPrefix(cs[1].Function, "log.TestCallstack") {
		t.Errorf("got outer frame %s, expected log.TestCallstack", cs[1])
	}
}
