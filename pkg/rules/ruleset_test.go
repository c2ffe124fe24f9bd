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

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		rules     []Rule
		want      []string
		wantError string
	}{
		{
			name: "longest_search_first",
			rules: []Rule{
				{Search: "old", Replace: "X"},
				{Search: "old_text", Replace: "Y"},
				{Search: "ol", Replace: "Z"},
			},
			want: []string{"old_text", "old", "ol"},
		},
		{
			name: "ties_keep_insertion_order",
			rules: []Rule{
				{Search: "bbb", Replace: "1"},
				{Search: "aaa", Replace: "2"},
				{Search: "cccc", Replace: "3"},
				{Search: "ccc", Replace: "4"},
			},
			want: []string{"cccc", "bbb", "aaa", "ccc"},
		},
		{
			name:  "empty_input",
			rules: []Rule{},
			want:  []string{},
		},
		{
			name: "empty_search",
			rules: []Rule{
				{Search: "", Replace: "x"},
			},
			wantError: "search text is required",
		},
		{
			name: "duplicate_search",
			rules: []Rule{
				{Search: "a", Replace: "x"},
				{Search: "a", Replace: "y"},
			},
			wantError: "duplicate search text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := New(tt.rules)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				assert.True(t, errors.Is(err, ErrConfiguration), "should be a configuration error")
				return
			}

			require.NoError(t, err)
			got := []string{}
			for _, r := range rs.Rules() {
				got = append(got, r.Search)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMap(t *testing.T) {
	rs, err := FromMap(map[string]string{
		"beta":  "2",
		"alpha": "1",
		"ab":    "3",
	})
	require.NoError(t, err)

	got := rs.Rules()
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].Search, "equal lengths fall back to key order")
	assert.Equal(t, "beta", got[1].Search)
	assert.Equal(t, "ab", got[2].Search)
}

func TestRuleSet_RequireRules(t *testing.T) {
	empty := MustNew()

	err := empty.RequireRules(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	assert.NoError(t, empty.RequireRules(true), "zero rules are allowed when asked for")
	assert.NoError(t, MustNew(Rule{Search: "a", Replace: "b"}).RequireRules(false))

	var nilSet *RuleSet
	assert.Equal(t, 0, nilSet.Len())
	assert.Error(t, nilSet.RequireRules(false))
}

func TestRuleSet_RulesIsACopy(t *testing.T) {
	rs := MustNew(Rule{Search: "a", Replace: "b"})
	got := rs.Rules()
	got[0].Replace = "mutated"

	assert.Equal(t, "b", rs.Rules()[0].Replace, "callers must not be able to mutate the set")
}
