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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// 🧹 prune removes every empty directory under root, deepest first, so a
// parent emptied by its children's removal goes in the same pass. The root
// itself and ignored directories are never removed. Failures are logged and
// counted, never returned.
func (e *Engine) prune(ctx context.Context, root string) (pruned []string, failures int) {
	logger := zerolog.Ctx(ctx)

	// a destination that received no files was never created
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, 0
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("dir", path).Msg("listing directory for prune")
			failures++
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if e.walker.IsIgnoredDir(d.Name()) || e.walker.Ignored(rel) {
			return filepath.SkipDir
		}

		dirs = append(dirs, rel)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("dir", root).Msg("walking for prune")
		failures++
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})

	for _, rel := range dirs {
		entries, err := os.ReadDir(e.output.Abs(rel))
		if err != nil {
			logger.Warn().Err(err).Str("dir", rel).Msg("reading directory for prune")
			failures++
			continue
		}
		if len(entries) > 0 {
			continue
		}

		if err := e.output.RemoveDir(ctx, rel); err != nil {
			logger.Warn().Err(err).Str("dir", rel).Msg("could not remove empty directory")
			failures++
			continue
		}
		logger.Debug().Str("dir", rel).Msg("removed empty directory")
		pruned = append(pruned, rel)
	}

	return pruned, failures
}

func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator))
}
