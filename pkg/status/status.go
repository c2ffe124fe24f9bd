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
	"sort"

	"github.com/walteh/retree/pkg/decode"
)

// 📊 Outcome classifies what happened to one file
type Outcome int

const (
	OutcomeUnchanged         Outcome = iota // Neither content nor relative path changed
	OutcomeUpdated                          // Content rewritten in place of the same relative path
	OutcomeRenamed                          // Relative path changed, content did not
	OutcomeRenamedAndUpdated                // Both changed
	OutcomeFailed                           // Processing failed; see FileResult.Err
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUpdated:
		return "updated"
	case OutcomeRenamed:
		return "renamed"
	case OutcomeRenamedAndUpdated:
		return "renamed+updated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify maps the two independent changes onto an Outcome.
func Classify(renamed, updated bool) Outcome {
	switch {
	case renamed && updated:
		return OutcomeRenamedAndUpdated
	case renamed:
		return OutcomeRenamed
	case updated:
		return OutcomeUpdated
	default:
		return OutcomeUnchanged
	}
}

// 📄 FileResult is the per-file result of a run
type FileResult struct {
	Source    string      // Absolute source path
	Target    string      // Absolute target path; empty when it could not be computed
	Rel       string      // Source path relative to the source root
	TargetRel string      // Rewritten relative path
	Kind      decode.Kind // Text or binary classification
	Outcome   Outcome
	Written   bool // Whether anything was written, copied or moved

	Replacements int  // Content matches replaced
	Repaired     bool // Content needed lossy UTF-8 repair
	DroppedBytes int  // Bytes removed by the repair

	Err error // Set only when Outcome is OutcomeFailed
}

// Summary is the end-of-run report. It is produced even when files failed.
type Summary struct {
	Discovered int
	Processed  int

	Unchanged         int
	Updated           int
	Renamed           int
	RenamedAndUpdated int
	Failed            int

	Written    int
	Repaired   int
	Collisions int

	PrunedDirs    []string
	PruneFailures int

	// Cancelled is set when the run stopped dispatching early.
	Cancelled bool

	Results []FileResult
}

// Failures returns the failed results in path order.
func (s *Summary) Failures() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			out = append(out, r)
		}
	}
	return out
}

// Changed returns results that were renamed or updated, in path order.
func (s *Summary) Changed() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		switch r.Outcome {
		case OutcomeUpdated, OutcomeRenamed, OutcomeRenamedAndUpdated:
			out = append(out, r)
		}
	}
	return out
}

func newSummary(results []FileResult) *Summary {
	sorted := make([]FileResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rel < sorted[j].Rel })

	s := &Summary{Processed: len(sorted), Results: sorted}
	for _, r := range sorted {
		switch r.Outcome {
		case OutcomeUnchanged:
			s.Unchanged++
		case OutcomeUpdated:
			s.Updated++
		case OutcomeRenamed:
			s.Renamed++
		case OutcomeRenamedAndUpdated:
			s.RenamedAndUpdated++
		case OutcomeFailed:
			s.Failed++
		}
		if r.Written {
			s.Written++
		}
		if r.Repaired {
			s.Repaired++
		}
	}
	return s
}
