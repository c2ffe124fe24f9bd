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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retree/pkg/rules"
)

func TestReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []rules.Rule
		want         string
		wantCount    int
		wantModified bool
	}{
		{
			name:    "simple_replacement",
			content: "Hello World",
			rules: []rules.Rule{
				{Search: "World", Replace: "Universe"},
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "multiple_replacements",
			content: "Hello World World",
			rules: []rules.Rule{
				{Search: "World", Replace: "Universe"},
			},
			want:         "Hello Universe Universe",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "longer_rule_wins",
			content: "old_text",
			rules: []rules.Rule{
				{Search: "old", Replace: "X"},
				{Search: "old_text", Replace: "Y"},
			},
			want:         "Y",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "longer_rule_wins_mixed_content",
			content: "old_text and old",
			rules: []rules.Rule{
				{Search: "old", Replace: "X"},
				{Search: "old_text", Replace: "Y"},
			},
			want:         "Y and X",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "replace_with_empty",
			content: "keep-drop-keep",
			rules: []rules.Rule{
				{Search: "-drop", Replace: ""},
			},
			want:         "keep-keep",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "identity_rule_is_not_a_modification",
			content: "same",
			rules: []rules.Rule{
				{Search: "same", Replace: "same"},
			},
			want:         "same",
			wantCount:    1,
			wantModified: false,
		},
		{
			name:    "no_match",
			content: "Hello World",
			rules: []rules.Rule{
				{Search: "Goodbye", Replace: "Hi"},
			},
			want:         "Hello World",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:    "empty_content",
			content: "",
			rules: []rules.Rule{
				{Search: "World", Replace: "Universe"},
			},
			want: "",
		},
		{
			name:    "empty_rules",
			content: "Hello World",
			rules:   []rules.Rule{},
			want:    "Hello World",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := rules.New(tt.rules)
			require.NoError(t, err)

			result := NewReplacer(rs).ReplaceText(tt.content)
			require.NotNil(t, result)
			assert.Equal(t, tt.content, result.OriginalContent)
			assert.Equal(t, tt.want, result.ModifiedContent)
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestReplacer_ReplaceTextIsIdempotentOnCleanPass(t *testing.T) {
	rs := rules.MustNew(
		rules.Rule{Search: "OldClass", Replace: "NewClass"},
		rules.Rule{Search: "old_method", Replace: "new_method"},
	)
	r := NewReplacer(rs)

	first := r.ReplaceText("class OldClass; def old_method; end; end")
	require.True(t, first.WasModified)

	second := r.ReplaceText(first.ModifiedContent)
	assert.False(t, second.WasModified)
	assert.Equal(t, first.ModifiedContent, second.ModifiedContent)
}
