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

package status

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// 📈 Sink receives every file result as it completes
type Sink interface {
	LogResult(ctx context.Context, r FileResult)
}

// 📈 Tracker counts progress and collects results for the summary. Record is
// safe for concurrent use.
type Tracker struct {
	logger    *zerolog.Logger
	formatter FileFormatter
	sink      Sink

	total     atomic.Int64
	processed atomic.Int64

	mu      sync.Mutex
	results []FileResult
}

// 🏭 NewTracker creates a tracker. sink may be nil.
func NewTracker(logger *zerolog.Logger, sink Sink) *Tracker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Tracker{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		sink:      sink,
	}
}

// StartOperation resets the tracker for total tasks.
func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	t.results = make([]FileResult, 0, total)
	t.mu.Unlock()

	t.total.Store(int64(total))
	t.processed.Store(0)
	t.logger.Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

// Record stores one result and advances progress by exactly one.
func (t *Tracker) Record(ctx context.Context, r FileResult) {
	t.mu.Lock()
	t.results = append(t.results, r)
	t.mu.Unlock()

	processed := int(t.processed.Add(1))
	total := int(t.total.Load())

	if r.Outcome == OutcomeFailed {
		t.logger.Error().Err(r.Err).Str("file", r.Source).Msg(t.formatter.FormatResult(r))
	} else {
		t.logger.Debug().Str("file", r.Source).Msg(t.formatter.FormatResult(r))
	}
	t.logger.Debug().
		Int("processed", processed).
		Int("total", total).
		Msg(t.formatter.FormatProgress(processed, total))

	if t.sink != nil {
		t.sink.LogResult(ctx, r)
	}
}

// Processed returns how many results were recorded so far.
func (t *Tracker) Processed() int {
	return int(t.processed.Load())
}

// Summary builds the summary from everything recorded so far.
func (t *Tracker) Summary() *Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := newSummary(t.results)
	s.Discovered = int(t.total.Load())
	return s
}
