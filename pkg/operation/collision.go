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
	"sort"

	"github.com/rs/zerolog"
)

// collision is a target path more than one task writes, or, in place, a
// target that lands on another file still waiting to be read.
type collision struct {
	target     string   // relative to the output root
	sources    []string // relative sources writing target
	overwrites string   // relative source clobbered in place; may be empty
}

func (c collision) log(logger *zerolog.Logger) {
	ev := logger.Warn().Str("target", c.target).Strs("sources", c.sources)
	if c.overwrites != "" {
		ev.Str("overwrites", c.overwrites).Msg("rewritten path lands on another source file")
		return
	}
	ev.Msg("multiple files rewrite to the same path, last write wins")
}

// 🔍 collisions computes every target before anything is written. Tasks
// whose path cannot be rewritten are left for process to fail.
func (rw *rewriter) collisions(tasks []task) []collision {
	writers := make(map[string][]string)
	sources := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		sources[t.rel] = true
	}

	type pending struct{ rel, target string }
	var renames []pending

	for _, t := range tasks {
		target, err := rw.targetRel(t.rel)
		if err != nil {
			continue
		}
		writers[target] = append(writers[target], t.rel)
		if target != t.rel {
			renames = append(renames, pending{rel: t.rel, target: target})
		}
	}

	var out []collision
	for target, srcs := range writers {
		if len(srcs) > 1 {
			sort.Strings(srcs)
			out = append(out, collision{target: target, sources: srcs})
		}
	}

	if rw.inPlace {
		for _, p := range renames {
			if !sources[p.target] || len(writers[p.target]) > 1 {
				continue
			}
			// the file at p.target is itself renamed away, but the order
			// between the two is not defined
			out = append(out, collision{target: p.target, sources: []string{p.rel}, overwrites: p.target})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].target < out[j].target })
	return out
}
