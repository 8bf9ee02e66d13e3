// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// 🎨 Display configuration
const (
	rootIndent  = 4  // spaces to indent root entries
	rootWidth   = 40 // width for the root path
	statusWidth = 15 // width for status text
)

// 🎯 SearchHeader describes the search being logged
type SearchHeader struct {
	Protocol    string
	Date        string
	Destination string
}

// 🎯 Logger handles structured logging with console output.
// It implements search.Sink so engine events can be printed as they arrive.
type Logger struct {
	zlog     zerolog.Logger
	console  io.Writer
	mu       sync.Mutex
	current  *SearchHeader
	outcomes []search.CopyOutcome
}

// 🏭 New creates a new logger writing user facing lines to console and
// records to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatOutcome formats the result of one root for display
func (l *Logger) formatOutcome(o search.CopyOutcome) string {
	var symbol rune
	var symbolColor color.Attribute
	failed := len(o.FilesCopyFailed)
	switch {
	case o.FilesCopiedOk > 0 && failed > 0:
		symbol = '!'
		symbolColor = color.FgYellow
	case o.FilesCopiedOk > 0:
		symbol = '✓'
		symbolColor = color.FgGreen
	case failed > 0:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	status := fmt.Sprintf("%d/%d copied", o.FilesCopiedOk, o.FilesMatched)

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", rootIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", rootWidth, o.Root),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogOutcome logs the outcome of one root
func (l *Logger) LogOutcome(ctx context.Context, o search.CopyOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.outcomes = append(l.outcomes, o)

	fmt.Fprintln(l.console, l.formatOutcome(o))

	l.zlog.Info().
		Str("root", o.Root).
		Strs("paths", o.PathsTried).
		Int("matched", o.FilesMatched).
		Int("copied", o.FilesCopiedOk).
		Int("failed", len(o.FilesCopyFailed)).
		Int64("bytes", o.BytesCopied).
		Msg("root outcome")
}

// 📝 StartSearch prints the search header
func (l *Logger) StartSearch(ctx context.Context, h SearchHeader) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &h
	l.outcomes = nil

	fmt.Fprintf(l.console, "[copying to %s]\n",
		color.New(color.FgCyan).Sprint(h.Destination))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(h.Protocol),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(h.Date))

	l.zlog.Info().
		Str("protocol", h.Protocol).
		Str("date", h.Date).
		Str("destination", h.Destination).
		Msg("starting search")
}

// 📝 EndSearch ends the current search
func (l *Logger) EndSearch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	copied := 0
	for _, o := range l.outcomes {
		copied += o.FilesCopiedOk
	}

	l.zlog.Info().
		Str("protocol", l.current.Protocol).
		Int("roots", len(l.outcomes)).
		Int("copied", copied).
		Msg("search complete")

	l.current = nil
	l.outcomes = nil
}

// 📣 Emit prints engine Info events and records Progress events at debug level
func (l *Logger) Emit(e search.Event) {
	if e.Kind == search.EventProgress {
		l.zlog.Debug().Int("percent", e.Percent).Msg("progress")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.Faint).Sprint("›"), e.Message)
	l.zlog.Info().Str("event", e.Kind.String()).Msg(e.Message)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("protosearch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
