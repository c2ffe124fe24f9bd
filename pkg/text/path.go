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
	"path/filepath"
	"strings"

	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// ReplacePath rewrites a root-relative path rule by rule. Each rule is
// substituted literally across the whole slash-separated path, so a search
// may rename an intermediate directory or span several ("com/acme").
// Replacement text is inserted as is; a replacement containing "/"
// therefore introduces a new directory level.
//
// The result is an error when a segment becomes empty, "." or "..", since
// the target would then collapse into or escape the output root.
func (r *Replacer) ReplacePath(rel string) (string, error) {
	slashed := filepath.ToSlash(rel)
	joined := slashed

	r.rules.Each(func(rule rules.Rule) {
		joined = strings.ReplaceAll(joined, rule.Search, rule.Replace)
	})

	if joined == slashed {
		return rel, nil
	}

	for _, seg := range strings.Split(joined, "/") {
		switch seg {
		case "", ".", "..":
			return "", errors.Errorf("rewriting %q: produced invalid path %q", rel, joined)
		}
	}

	return filepath.FromSlash(joined), nil
}
