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
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockSink is a mock implementation of the Sink interface
type MockSink struct {
	mock.Mock
}

func (m *MockSink) LogResult(ctx context.Context, r FileResult) {
	m.Called(ctx, r)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeUnchanged, Classify(false, false))
	assert.Equal(t, OutcomeUpdated, Classify(false, true))
	assert.Equal(t, OutcomeRenamed, Classify(true, false))
	assert.Equal(t, OutcomeRenamedAndUpdated, Classify(true, true))
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeUnchanged, "unchanged"},
		{OutcomeUpdated, "updated"},
		{OutcomeRenamed, "renamed"},
		{OutcomeRenamedAndUpdated, "renamed+updated"},
		{OutcomeFailed, "failed"},
		{Outcome(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.String())
		})
	}
}

func TestTracker_Record(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := context.Background()

	sink := &MockSink{}
	sink.On("LogResult", ctx, mock.AnythingOfType("status.FileResult")).Return().Times(4)

	tr := NewTracker(&logger, sink)
	tr.StartOperation(ctx, 4)

	tr.Record(ctx, FileResult{Rel: "b.txt", Outcome: OutcomeUpdated, Written: true})
	tr.Record(ctx, FileResult{Rel: "a.txt", Outcome: OutcomeRenamed, TargetRel: "z.txt", Written: true})
	tr.Record(ctx, FileResult{Rel: "c.txt", Outcome: OutcomeFailed, Err: errors.New("boom")})
	tr.Record(ctx, FileResult{Rel: "d.txt", Outcome: OutcomeUnchanged, Repaired: true})

	sink.AssertExpectations(t)

	s := tr.Summary()
	assert.Equal(t, 4, s.Discovered)
	assert.Equal(t, 4, s.Processed)
	assert.Equal(t, 1, s.Updated)
	assert.Equal(t, 1, s.Renamed)
	assert.Equal(t, 0, s.RenamedAndUpdated)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.Written)
	assert.Equal(t, 1, s.Repaired)

	require.Len(t, s.Results, 4)
	assert.Equal(t, "a.txt", s.Results[0].Rel, "results are sorted by path")

	failures := s.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "c.txt", failures[0].Rel)

	assert.Len(t, s.Changed(), 2)
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(nil, nil)

	const total = 200
	tr.StartOperation(ctx, total)

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Record(ctx, FileResult{Rel: fmt.Sprintf("f%03d", i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, total, tr.Processed(), "progress advances exactly once per record")
	assert.Equal(t, total, tr.Summary().Unchanged)
}

func TestDefaultFileFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()

	tests := []struct {
		name   string
		result FileResult
		want   string
	}{
		{
			name:   "renamed_and_updated",
			result: FileResult{Rel: "a", TargetRel: "b", Outcome: OutcomeRenamedAndUpdated},
			want:   "🚚 Renamed and updated a -> b",
		},
		{
			name:   "renamed",
			result: FileResult{Rel: "a", TargetRel: "b", Outcome: OutcomeRenamed},
			want:   "🚚 Renamed a -> b",
		},
		{
			name:   "updated",
			result: FileResult{Rel: "a", Outcome: OutcomeUpdated},
			want:   "📝 Updated a",
		},
		{
			name:   "failed",
			result: FileResult{Rel: "a", Outcome: OutcomeFailed},
			want:   "❌ Failed a",
		},
		{
			name:   "unchanged",
			result: FileResult{Rel: "a"},
			want:   "👍 Unchanged a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatResult(tt.result))
		})
	}
}

func TestDefaultFileFormatter_FormatProgress(t *testing.T) {
	f := NewDefaultFileFormatter()

	assert.Equal(t, "⏳ Progress: 1/4 (25%)", f.FormatProgress(1, 4))
	assert.Equal(t, "✅ Progress: 4/4 (100%)", f.FormatProgress(4, 4))
	assert.Equal(t, "✅ Progress: 0/0 (0%)", f.FormatProgress(0, 0))
}
