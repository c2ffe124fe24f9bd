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
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/decode"
	"github.com/walteh/retree/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 35 // Base width for filename
	kindWidth     = 8  // Width for text/binary
	outcomeWidth  = 15 // Width for outcome text
	renameMarker  = " → "
	repairedLabel = "repaired"
)

// 📦 RunOperation describes a run for its header line
type RunOperation struct {
	Source      string
	Destination string // empty in in-place mode
	Files       int
	Rules       int
	Workers     int
}

// 🎯 Logger writes human-readable run output and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger writing to console
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

// 📝 formatResult formats a file result for display
func (l *Logger) formatResult(r status.FileResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch r.Outcome {
	case status.OutcomeFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case status.OutcomeRenamed, status.OutcomeRenamedAndUpdated:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.OutcomeUpdated:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	name := r.Rel
	if r.TargetRel != "" && r.TargetRel != r.Rel {
		name = r.Rel + renameMarker + r.TargetRel
	}

	kindColor := color.FgCyan
	if r.Kind == decode.BinaryByExtension {
		kindColor = color.FgMagenta
	}

	outcome := r.Outcome.String()
	if r.Repaired {
		outcome += " (" + repairedLabel + ")"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, r.Kind.String())),
		fmt.Sprintf("%-*s", outcomeWidth, outcome))
}

// 📝 LogResult prints one file's outcome
func (l *Logger) LogResult(ctx context.Context, r status.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatResult(r))

	// failures are logged at error level by the tracker
	l.zlog.Debug().
		Str("file", r.Rel).
		Str("target", r.TargetRel).
		Str("kind", r.Kind.String()).
		Str("outcome", r.Outcome.String()).
		Bool("written", r.Written).
		Bool("repaired", r.Repaired).
		Int("replacements", r.Replacements).
		Msg("file processed")
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	mode := "in place"
	dest := op.Source
	if op.Destination != "" {
		mode = "copy"
		dest = op.Destination
	}

	fmt.Fprintf(l.console, "[refactoring %s]\n", color.New(color.FgCyan).Sprint(op.Source))
	fmt.Fprintf(l.console, "%s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(mode),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(dest),
		color.New(color.Faint).Sprintf("(%d files, %d rules, %d workers)", op.Files, op.Rules, op.Workers))

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Int("files", op.Files).
		Int("rules", op.Rules).
		Int("workers", op.Workers).
		Msg("starting run")
}

// 📊 LogSummary prints the end-of-run table and any failures
func (l *Logger) LogSummary(ctx context.Context, s *status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := pterm.TableData{
		{"files", "count"},
		{"discovered", fmt.Sprint(s.Discovered)},
		{"processed", fmt.Sprint(s.Processed)},
		{"updated", fmt.Sprint(s.Updated)},
		{"renamed", fmt.Sprint(s.Renamed)},
		{"renamed+updated", fmt.Sprint(s.RenamedAndUpdated)},
		{"unchanged", fmt.Sprint(s.Unchanged)},
		{"failed", fmt.Sprint(s.Failed)},
		{"repaired", fmt.Sprint(s.Repaired)},
		{"collisions", fmt.Sprint(s.Collisions)},
		{"pruned dirs", fmt.Sprint(len(s.PrunedDirs))},
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		l.zlog.Warn().Err(err).Msg("rendering summary table")
	} else {
		fmt.Fprintln(l.console)
		fmt.Fprintln(l.console, table)
	}

	for _, f := range s.Failures() {
		fmt.Fprintln(l.console, pterm.Error.Sprintf("%s: %v", f.Rel, f.Err))
	}

	switch {
	case s.Cancelled:
		fmt.Fprintln(l.console, pterm.Warning.Sprintf("cancelled after %d of %d files", s.Processed, s.Discovered))
	case s.Failed > 0:
		fmt.Fprintln(l.console, pterm.Warning.Sprintf("done with %d failed of %d files", s.Failed, s.Processed))
	default:
		fmt.Fprintln(l.console, pterm.Success.Sprintf("done, %d files processed", s.Processed))
	}

	l.zlog.Info().
		Int("discovered", s.Discovered).
		Int("processed", s.Processed).
		Int("updated", s.Updated).
		Int("renamed", s.Renamed).
		Int("renamed_and_updated", s.RenamedAndUpdated).
		Int("unchanged", s.Unchanged).
		Int("failed", s.Failed).
		Int("repaired", s.Repaired).
		Int("collisions", s.Collisions).
		Int("pruned_dirs", len(s.PrunedDirs)).
		Bool("cancelled", s.Cancelled).
		Msg("run complete")
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
	name := color.New(color.Bold, color.FgCyan).Sprint("retree")
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
