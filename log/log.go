// log/log.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	LogFile string
	LogDir  string
	Start   time.Time
}

// New returns a Logger that writes JSON records to a rotated log file in
// dir. If dir is empty, logs go into "sixdof-logs" in the user's cache
// directory.
func New(level string, dir string) *Logger {
	if dir == "" {
		cd, err := os.UserCacheDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to find user cache dir: %v", err)
			cd = "."
		}
		dir = filepath.Join(cd, "sixdof-logs")
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "sixdof.slog"),
		MaxSize:    32, // MB
		MaxBackups: 2,
	}
	if level == "debug" {
		// Per-tick debug logging adds up quickly.
		w.MaxSize = 512
	}

	return newLogger(w, level, dir, w.Filename)
}

// NewWriter returns a Logger that writes JSON records to the given
// writer; it's mostly useful for tests.
func NewWriter(w io.Writer, level string) *Logger {
	return newLogger(w, level, "", "")
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"":      slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func newLogger(w io.Writer, level, dir, fn string) *Logger {
	lvl, ok := levels[level]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: invalid log level; using \"info\"\n", level)
		lvl = slog.LevelInfo
	}

	l := &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		LogFile: fn,
		LogDir:  dir,
		Start:   time.Now(),
	}

	l.Info("logging started", slog.Time("start", l.Start), slog.String("level", lvl.String()),
		slog.String("arch", runtime.GOOS+"/"+runtime.GOARCH), slog.Int("cpus", runtime.NumCPU()))
	if bi, ok := debug.ReadBuildInfo(); ok && l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		deps := make([]any, 0, len(bi.Deps))
		for _, dep := range bi.Deps {
			deps = append(deps, slog.String(dep.Path, dep.Version))
		}
		l.Debug("build", slog.String("go", bi.GoVersion), slog.String("path", bi.Path),
			slog.Group("deps", deps...))
	}

	return l
}

// emit logs the message at the given level with the caller's callstack
// prepended to args. A nil *Logger drops debug and info messages and
// sends warnings and errors to slog's default logger.
func (l *Logger) emit(level slog.Level, msg string, args []any) {
	var sl *slog.Logger
	if l != nil {
		sl = l.Logger
	} else if level >= slog.LevelWarn {
		sl = slog.Default()
	} else {
		return
	}

	ctx := context.Background()
	if !sl.Enabled(ctx, level) {
		return
	}
	// Skip emit and the exported method that called it.
	args = append([]any{slog.Any("callstack", CaptureCallstack(2))}, args...)
	sl.Log(ctx, level, msg, args...)
}

// The following wrap the corresponding slog.Logger methods to add
// callstacks and to allow a nil *Logger. Other slog methods, e.g.
// WarnContext, are not wrapped.

func (l *Logger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args) }

// Debugf and friends log just a message, with printf-style formatting.

func (l *Logger) Debugf(msg string, args ...any) {
	l.emit(slog.LevelDebug, fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) Infof(msg string, args ...any) {
	l.emit(slog.LevelInfo, fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.emit(slog.LevelWarn, fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) Errorf(msg string, args ...any) {
	l.emit(slog.LevelError, fmt.Sprintf(msg, args...), nil)
}

// With returns a Logger that includes the given attributes in each
// record. It is safe to call on a nil *Logger, in which case nil is
// returned.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		LogDir:  l.LogDir,
		Start:   l.Start,
	}
}

// CatchAndReportCrash should be deferred by main(). If a panic is in
// flight it is logged and a crash report with the stack is written to
// stderr and to the log directory; the panic value is returned.
func (l *Logger) CatchAndReportCrash() any {
	err := recover()
	if err == nil {
		return nil
	}
	l.Errorf("Crashed: %v", err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Crashed: %v\nSys: %s/%s\n", err, runtime.GOOS, runtime.GOARCH)
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			fmt.Fprintf(&sb, "%s: %s\n", setting.Key, setting.Value)
		}
	}
	sb.Write(debug.Stack())
	report := sb.String()

	fmt.Fprintln(os.Stderr, report)
	if l != nil && l.LogDir != "" {
		fn := filepath.Join(l.LogDir, "crash-"+time.Now().Format("20060102-150405")+".txt")
		_ = os.WriteFile(fn, []byte(report), 0o600)
	}
	return err
}
