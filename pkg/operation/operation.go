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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/decode"
	"github.com/walteh/retree/pkg/log"
	"github.com/walteh/retree/pkg/rules"
	"github.com/walteh/retree/pkg/status"
	"github.com/walteh/retree/pkg/text"
	"github.com/walteh/retree/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 📺 Console receives human-facing run output. *log.Logger implements it.
type Console interface {
	status.Sink
	StartRun(ctx context.Context, op log.RunOperation)
	LogSummary(ctx context.Context, s *status.Summary)
}

var _ Console = (*log.Logger)(nil)

// Options configures an Engine
type Options struct {
	// Source is the root to refactor (required)
	Source string
	// Destination mirrors the rewritten tree elsewhere; empty means in place
	Destination string
	// Rules is the rule set applied to content and paths
	Rules *rules.RuleSet
	// AllowEmptyRules permits a run with zero rules
	AllowEmptyRules bool
	// Workers bounds the pool; 0 means GOMAXPROCS
	Workers int
	// Ignore holds extra doublestar globs over slash-separated relative paths
	Ignore []string
	// BinaryExtensions extends the built-in binary allow-list
	BinaryExtensions []string
	// StrictEncoding fails files that would need lossy UTF-8 repair
	StrictEncoding bool
	// FailOnCollision aborts when two files rewrite to one target
	FailOnCollision bool

	Logger  *zerolog.Logger
	Console Console
}

// 🏭 Engine is a configured, reusable refactor run
type Engine struct {
	source      string
	destination string

	rules   *rules.RuleSet
	walker  *walk.Walker
	rewrite *rewriter
	output  *status.Manager

	workers         int
	failOnCollision bool

	logger  *zerolog.Logger
	console Console
}

// New validates opts and builds an Engine. Every error wraps
// rules.ErrConfiguration.
func New(opts Options) (*Engine, error) {
	if err := opts.Rules.RequireRules(opts.AllowEmptyRules); err != nil {
		return nil, err
	}

	source, err := resolveSource(opts.Source)
	if err != nil {
		return nil, err
	}

	destination, err := resolveDestination(source, opts.Destination)
	if err != nil {
		return nil, err
	}

	walker, err := walk.New(walk.Options{Ignore: opts.Ignore})
	if err != nil {
		return nil, errors.Errorf("%w: %w", rules.ErrConfiguration, err)
	}

	outputRoot := source
	if destination != "" {
		outputRoot = destination
	}
	output := status.NewManager(outputRoot)

	rs := opts.Rules
	if rs == nil {
		rs = rules.MustNew()
	}

	return &Engine{
		source:      source,
		destination: destination,
		rules:       rs,
		walker:      walker,
		output:      output,
		rewrite: &rewriter{
			replacer:   text.NewReplacer(rs),
			classifier: decode.NewClassifier(opts.BinaryExtensions...),
			source:     status.NewManager(source),
			output:     output,
			inPlace:    destination == "",
			strict:     opts.StrictEncoding,
		},
		workers:         resolveWorkers(opts.Workers),
		failOnCollision: opts.FailOnCollision,
		logger:          opts.Logger,
		console:         opts.Console,
	}, nil
}

func resolveSource(src string) (string, error) {
	if src == "" {
		return "", errors.Errorf("%w: source directory is required", rules.ErrConfiguration)
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return "", errors.Errorf("%w: resolving source %q: %w", rules.ErrConfiguration, src, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Errorf("%w: source: %w", rules.ErrConfiguration, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%w: source %q is not a directory", rules.ErrConfiguration, abs)
	}
	return abs, nil
}

// resolveDestination returns "" for in-place mode. A destination that nests
// in the source, or contains it, is rejected: the run would read its own
// output or prune its own input.
func resolveDestination(source, dst string) (string, error) {
	if dst == "" {
		return "", nil
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", errors.Errorf("%w: resolving destination %q: %w", rules.ErrConfiguration, dst, err)
	}

	if abs == source {
		return "", nil
	}
	if within(source, abs) {
		return "", errors.Errorf("%w: destination %q is inside source %q", rules.ErrConfiguration, abs, source)
	}
	if within(abs, source) {
		return "", errors.Errorf("%w: source %q is inside destination %q", rules.ErrConfiguration, source, abs)
	}

	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return "", errors.Errorf("%w: destination %q is not a directory", rules.ErrConfiguration, abs)
	}
	return abs, nil
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Source returns the absolute source root.
func (e *Engine) Source() string { return e.source }

// Destination returns the absolute destination root, or "" in place.
func (e *Engine) Destination() string { return e.destination }

// InPlace reports whether the run rewrites the source tree itself.
func (e *Engine) InPlace() bool { return e.destination == "" }

// Workers returns the resolved pool size.
func (e *Engine) Workers() int { return e.workers }

// 🏃 Run walks, rewrites and prunes.
//
// The returned summary is non-nil whenever enumeration succeeded, including
// when the run was cancelled; in that case the error wraps ctx.Err(). Files
// that failed are reported in the summary and do not make Run fail.
func (e *Engine) Run(ctx context.Context) (*status.Summary, error) {
	logger := e.logger
	if logger == nil {
		logger = zerolog.Ctx(ctx)
	}
	ctx = logger.WithContext(ctx)

	files, err := e.walker.Files(ctx, e.source)
	if err != nil {
		return nil, errors.Errorf("enumerating files: %w", err)
	}

	tasks := make([]task, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(e.source, f)
		if err != nil {
			return nil, errors.Errorf("relativizing %s: %w", f, err)
		}
		tasks = append(tasks, task{source: f, rel: rel})
	}

	collisions := e.rewrite.collisions(tasks)
	for _, c := range collisions {
		c.log(logger)
	}
	if len(collisions) > 0 && e.failOnCollision {
		return nil, errors.Errorf("%w: %d target path collisions (first: %s)", rules.ErrConfiguration, len(collisions), collisions[0].target)
	}

	if e.console != nil {
		e.console.StartRun(ctx, log.RunOperation{
			Source:      e.source,
			Destination: e.destination,
			Files:       len(tasks),
			Rules:       e.rules.Len(),
			Workers:     e.workers,
		})
	}

	var sink status.Sink
	if e.console != nil {
		sink = e.console
	}
	tracker := status.NewTracker(logger, sink)
	tracker.StartOperation(ctx, len(tasks))

	e.execute(ctx, tasks, tracker)

	summary := tracker.Summary()
	summary.Collisions = len(collisions)

	if ctx.Err() != nil {
		summary.Cancelled = true
		logger.Warn().
			Int("processed", summary.Processed).
			Int("total", summary.Discovered).
			Msg("run cancelled, skipping prune")
		if e.console != nil {
			e.console.LogSummary(ctx, summary)
		}
		return summary, errors.Errorf("run cancelled: %w", ctx.Err())
	}

	summary.PrunedDirs, summary.PruneFailures = e.prune(ctx, e.output.BaseDir())

	if e.console != nil {
		e.console.LogSummary(ctx, summary)
	}
	return summary, nil
}
