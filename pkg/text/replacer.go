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

package text

import (
	"strings"

	"github.com/walteh/retree/pkg/rules"
)

// ReplacementResult contains the results of applying a rule set to content
type ReplacementResult struct {
	// WasModified indicates if any substitution changed the text
	WasModified bool

	// ReplacementCount is the number of matches replaced across all rules
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent string

	// ModifiedContent is the content after replacements
	ModifiedContent string
}

// 🔄 Replacer applies a rule set to file content and relative paths
type Replacer struct {
	rules *rules.RuleSet
}

// NewReplacer creates a Replacer over rs. rs is only read.
func NewReplacer(rs *rules.RuleSet) *Replacer {
	return &Replacer{rules: rs}
}

// ReplaceText applies every rule in application order as a literal
// substitution. Later rules see the output of earlier ones.
func (r *Replacer) ReplaceText(content string) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := content
	r.rules.Each(func(rule rules.Rule) {
		count := strings.Count(current, rule.Search)
		if count == 0 {
			return
		}

		next := strings.ReplaceAll(current, rule.Search, rule.Replace)
		if next != current {
			result.WasModified = true
		}
		result.ReplacementCount += count
		current = next
	})

	result.ModifiedContent = current
	return result
}
