// Package debug carries the zerolog hooks used by the CLI console writer.
package debug

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// CustomTimeHook stamps events with millisecond precision and no timezone.
type CustomTimeHook struct {
	WithColor bool
	Format    string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = "2006-01-02T15:04:05.000Z"
	}
	e.Str("time", time.Now().Format(format))
}

// CustomCallerHook annotates events with a short package:file:line caller.
type CustomCallerHook struct {
	WithColor bool
	Skip      int
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(c.Skip + 3)
	if !ok {
		return
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return
	}
	pkg := packageOfFunc(fn.Name())
	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

func packageOfFunc(name string) string {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}
	firstDot := strings.IndexByte(name[lastSlash:], '.') + lastSlash
	if firstDot < lastSlash {
		return name
	}
	return name[:firstDot]
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		file = path[idx+1:]
	}
	if colorize {
		file = color.New(color.Bold).Sprint(file)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", line)
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, file, sep, num)
	}
	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}
