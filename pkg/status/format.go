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
	"fmt"
)

// FileFormatter defines how file results and progress are phrased in logs
type FileFormatter interface {
	// FormatResult formats a per-file result message
	FormatResult(r FileResult) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatResult formats a file result with emojis
func (f *DefaultFileFormatter) FormatResult(r FileResult) string {
	switch r.Outcome {
	case OutcomeRenamedAndUpdated:
		return fmt.Sprintf("🚚 Renamed and updated %s -> %s", r.Rel, r.TargetRel)
	case OutcomeRenamed:
		return fmt.Sprintf("🚚 Renamed %s -> %s", r.Rel, r.TargetRel)
	case OutcomeUpdated:
		return fmt.Sprintf("📝 Updated %s", r.Rel)
	case OutcomeFailed:
		return fmt.Sprintf("❌ Failed %s", r.Rel)
	default:
		return fmt.Sprintf("👍 Unchanged %s", r.Rel)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}
