// Package logger is the process-wide structured logger used by githubdns.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	LevelTrace = slog.Level(-6)
	LevelFatal = slog.Level(10)
)

var LevelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

var (
	logger *slog.Logger
	level  = new(slog.LevelVar)
	source bool
)

func init() {
	if _, ok := os.LookupEnv("githubdnsDev"); ok {
		source = true
		level.Set(LevelTrace)
	}
	SetOutput(os.Stdout)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	// Format time.
	if a.Key == slog.TimeKey && len(groups) == 0 {
		t := a.Value.Time().Format("2006-01-02 15:04:05")
		return slog.Attr{Key: slog.TimeKey, Value: slog.AnyValue(t)}
	}

	// Format level label.
	if a.Key == slog.LevelKey {
		lvl := a.Value.Any().(slog.Level)
		levelLabel, exists := LevelNames[lvl]
		if !exists {
			levelLabel = lvl.String()
		}
		a.Value = slog.StringValue(levelLabel)
		return a
	}

	// Remove the directory from the source's filename.
	if a.Key == slog.SourceKey {
		if src, ok := a.Value.Any().(*slog.Source); ok {
			src.File = filepath.Base(src.File)
		}
	}
	return a
}

// SetOutput redirects log records to w.
func SetOutput(w io.Writer) {
	logger = slog.New(slog.NewTextHandler(w,
		&slog.HandlerOptions{AddSource: source, Level: level, ReplaceAttr: replaceAttr}))
}

// SetLevel changes the minimum level that is emitted.
func SetLevel(l slog.Level) {
	level.Set(l)
}

func log(ctx context.Context, lvl slog.Level, msg string, args ...any) {
	if !logger.Enabled(ctx, lvl) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	r.Add(args...)
	_ = logger.Handler().Handle(ctx, r)
}

func logf(ctx context.Context, lvl slog.Level, format string, args ...any) {
	if !logger.Enabled(ctx, lvl) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), lvl, fmt.Sprintf(format, args...), pcs[0])
	_ = logger.Handler().Handle(ctx, r)
}

func Error(msg string, args ...any) {
	log(context.Background(), slog.LevelError, msg, args...)
}

func Errorf(format string, args ...any) {
	logf(context.Background(), slog.LevelError, format, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelError, msg, args...)
}

func Info(msg string, args ...any) {
	log(context.Background(), slog.LevelInfo, msg, args...)
}

func Infof(format string, args ...any) {
	logf(context.Background(), slog.LevelInfo, format, args...)
}

func Warn(msg string, args ...any) {
	log(context.Background(), slog.LevelWarn, msg, args...)
}

func Warnf(format string, args ...any) {
	logf(context.Background(), slog.LevelWarn, format, args...)
}

func Debug(msg string, args ...any) {
	log(context.Background(), slog.LevelDebug, msg, args...)
}

func Debugf(format string, args ...any) {
	logf(context.Background(), slog.LevelDebug, format, args...)
}

func Trace(msg string, args ...any) {
	log(context.Background(), LevelTrace, msg, args...)
}

func Tracef(format string, args ...any) {
	logf(context.Background(), LevelTrace, format, args...)
}

func Fatal(msg string, args ...any) {
	log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	logf(context.Background(), LevelFatal, format, args...)
	os.Exit(1)
}
