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

// Package rules holds the search -> replace rules for one run and the order
// every consumer applies them in.
package rules

import (
	"sort"

	"gitlab.com/tozd/go/errors"
)

// ErrConfiguration marks an unusable rule source or run configuration. It is
// fatal to a run and always surfaces before any file is touched.
var ErrConfiguration = errors.Base("configuration error")

// 🔄 Rule is a literal search string paired with its replacement
type Rule struct {
	Search  string `json:"search" yaml:"search"`
	Replace string `json:"replace" yaml:"replace"`
}

// 📚 RuleSet is an immutable, canonically ordered collection of rules.
//
// Rules are ordered by descending search length; ties keep the order they
// were given in. A RuleSet is safe for concurrent reads.
type RuleSet struct {
	rules []Rule
}

// 🏭 New builds a RuleSet from rules in insertion order.
//
// Every search string must be non-empty and unique. An empty input is valid
// here; whether a run may proceed with zero rules is the caller's decision
// (see RequireRules).
func New(in []Rule) (*RuleSet, error) {
	seen := make(map[string]int, len(in))
	ordered := make([]Rule, 0, len(in))
	for i, r := range in {
		if r.Search == "" {
			return nil, errors.Errorf("%w: rule %d: search text is required", ErrConfiguration, i)
		}
		if prev, ok := seen[r.Search]; ok {
			return nil, errors.Errorf("%w: rule %d: duplicate search text %q (first defined by rule %d)", ErrConfiguration, i, r.Search, prev)
		}
		seen[r.Search] = i
		ordered = append(ordered, r)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Search) > len(ordered[j].Search)
	})

	return &RuleSet{rules: ordered}, nil
}

// FromMap builds a RuleSet from a mapping. Maps carry no insertion order, so
// length ties are broken by key order.
func FromMap(m map[string]string) (*RuleSet, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	in := make([]Rule, 0, len(keys))
	for _, k := range keys {
		in = append(in, Rule{Search: k, Replace: m[k]})
	}
	return New(in)
}

// MustNew is New for fixtures and tests; it panics on error.
func MustNew(in ...Rule) *RuleSet {
	rs, err := New(in)
	if err != nil {
		panic(err)
	}
	return rs
}

// Rules returns a copy of the rules in application order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Each calls fn for every rule in application order without copying.
func (rs *RuleSet) Each(fn func(Rule)) {
	if rs == nil {
		return
	}
	for _, r := range rs.rules {
		fn(r)
	}
}

// 🔍 RequireRules fails with ErrConfiguration when the set is empty, unless
// allowEmpty is set. An empty run still walks, moves and prunes.
func (rs *RuleSet) RequireRules(allowEmpty bool) error {
	if rs.Len() == 0 && !allowEmpty {
		return errors.Errorf("%w: at least one rule is required (allow an empty rule set to run a no-op pass)", ErrConfiguration)
	}
	return nil
}
