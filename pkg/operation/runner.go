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
	"fmt"
	"runtime"

	"github.com/walteh/retree/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const (
	MinWorkers = 1
	MaxWorkers = 64
)

// resolveWorkers maps a requested pool size onto [MinWorkers, MaxWorkers];
// zero or less asks for GOMAXPROCS.
func resolveWorkers(n int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// ⚡ execute fans tasks out over a bounded pool and records every result
// exactly once. Cancellation is observed only between dispatches: once a
// task has started it runs to completion.
func (e *Engine) execute(ctx context.Context, tasks []task, tracker *status.Tracker) {
	var g errgroup.Group
	g.SetLimit(e.workers)

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			tracker.Record(ctx, e.safeProcess(ctx, t))
			return nil
		})
	}

	// workers never return errors
	_ = g.Wait()
}

// safeProcess turns a panic inside one file into that file's failure.
func (e *Engine) safeProcess(ctx context.Context, t task) (res status.FileResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(status.FileResult{Source: t.source, Rel: t.rel}, errors.Errorf("panic: %s", fmt.Sprint(r)))
		}
	}()
	return e.rewrite.process(ctx, t)
}
