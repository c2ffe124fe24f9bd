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

// Package diff previews a refactor. It runs the engine into a scratch
// destination, which leaves the source untouched, and reports a unified diff
// for every file whose content would change.
package diff

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/decode"
	"github.com/walteh/retree/pkg/operation"
	"github.com/walteh/retree/pkg/rules"
	"github.com/walteh/retree/pkg/status"
	"github.com/walteh/retree/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const DefaultContext = 3

type Options struct {
	Source string
	Rules  *rules.RuleSet

	// Context is the number of unchanged lines around each hunk; negative
	// means DefaultContext
	Context int

	Workers          int
	Ignore           []string
	BinaryExtensions []string

	// ScratchDir is the parent of the temporary destination; empty means
	// os.TempDir
	ScratchDir string

	Logger *zerolog.Logger
}

// 📄 FileDiff is one file the refactor would change
type FileDiff struct {
	Rel       string
	TargetRel string
	Kind      decode.Kind
	Outcome   status.Outcome

	// Unified is the content diff; empty when only the path changes
	Unified string
}

// Renamed reports whether the path changes.
func (d FileDiff) Renamed() bool {
	return d.TargetRel != "" && d.TargetRel != d.Rel
}

type Report struct {
	Files   []FileDiff
	Summary *status.Summary
}

// 🔍 Run previews the refactor of opts.Source. The scratch tree is removed
// before Run returns.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zerolog.Ctx(ctx)
	}

	n := opts.Context
	if n < 0 {
		n = DefaultContext
	}

	scratch, err := os.MkdirTemp(opts.ScratchDir, "retree-diff-")
	if err != nil {
		return nil, errors.Errorf("creating scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn().Err(err).Str("dir", scratch).Msg("removing scratch directory")
		}
	}()

	eng, err := operation.New(operation.Options{
		Source:           opts.Source,
		Destination:      filepath.Join(scratch, "out"),
		Rules:            opts.Rules,
		Workers:          opts.Workers,
		Ignore:           opts.Ignore,
		BinaryExtensions: opts.BinaryExtensions,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	summary, err := eng.Run(ctx)
	if err != nil {
		return nil, errors.Errorf("running refactor into scratch directory: %w", err)
	}

	replacer := text.NewReplacer(opts.Rules)
	report := &Report{Summary: summary}
	for _, r := range summary.Changed() {
		fd := FileDiff{Rel: r.Rel, TargetRel: r.TargetRel, Kind: r.Kind, Outcome: r.Outcome}

		if r.Kind == decode.Textual && (r.Outcome == status.OutcomeUpdated || r.Outcome == status.OutcomeRenamedAndUpdated) {
			fd.Unified, err = unified(replacer, r, n)
			if err != nil {
				return nil, errors.Errorf("diffing %s: %w", r.Rel, err)
			}
		}
		report.Files = append(report.Files, fd)
	}

	logger.Debug().Int("files", len(report.Files)).Msg("computed diff")
	return report, nil
}

// unified diffs the source against its own rewrite. The scratch target is
// not read back: when two sources collide on one target it holds only the
// last writer.
func unified(replacer *text.Replacer, r status.FileResult, contextLines int) (string, error) {
	before, err := decode.Decode(r.Source)
	if err != nil {
		return "", err
	}
	after := replacer.ReplaceText(before.Content)

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before.Content),
		B:        difflib.SplitLines(after.ModifiedContent),
		FromFile: "a/" + filepath.ToSlash(r.Rel),
		ToFile:   "b/" + filepath.ToSlash(r.TargetRel),
		Context:  contextLines,
	})
}

// ColorMode selects when Write colors its output
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorOn, ColorOff:
		return m, nil
	}
	return "", errors.Errorf("%w: color must be auto, on or off, got %q", rules.ErrConfiguration, s)
}

// Enabled resolves auto against whether w is a terminal.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// 📝 Write prints every changed file, a header first and then its hunks.
func (r *Report) Write(w io.Writer, colorize bool) error {
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	bold := paint(color.Bold)
	added := paint(color.FgGreen)
	removed := paint(color.FgRed)
	hunk := paint(color.FgCyan)
	faint := paint(color.Faint)

	var failed []status.FileResult
	if r.Summary != nil {
		failed = r.Summary.Failures()
	}

	var b strings.Builder
	if len(r.Files) == 0 && len(failed) == 0 {
		b.WriteString(faint.Sprint("no changes") + "\n")
	}
	for _, f := range r.Files {
		name := f.Rel
		if f.Renamed() {
			name = f.Rel + " → " + f.TargetRel
		}
		fmt.Fprintf(&b, "\n%s\n", bold.Sprintf("File: %s", name))

		if f.Unified == "" {
			fmt.Fprintf(&b, "  %s\n", faint.Sprintf("renamed, %s content unchanged", f.Kind))
			continue
		}

		for _, line := range strings.SplitAfter(f.Unified, "\n") {
			if line == "" {
				continue
			}
			text := strings.TrimSuffix(line, "\n")
			switch {
			case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
				b.WriteString(bold.Sprint(text))
			case strings.HasPrefix(text, "@@"):
				b.WriteString(hunk.Sprint(text))
			case strings.HasPrefix(text, "+"):
				b.WriteString(added.Sprint(text))
			case strings.HasPrefix(text, "-"):
				b.WriteString(removed.Sprint(text))
			default:
				b.WriteString(text)
			}
			b.WriteByte('\n')
		}
	}

	if len(failed) > 0 {
		fmt.Fprintf(&b, "\n%s\n", removed.Sprintf("%d files could not be previewed", len(failed)))
		for _, f := range failed {
			fmt.Fprintf(&b, "  %s: %v\n", f.Rel, f.Err)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
