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

// Package walk enumerates the files of a tree that a run should touch.
package walk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultIgnoredDirs are directory names excluded from traversal and pruning
// wherever they appear in a path.
var DefaultIgnoredDirs = []string{".git", "node_modules"}

// 🔧 Options configures a Walker
type Options struct {
	// IgnoredDirs replaces DefaultIgnoredDirs when non-nil.
	IgnoredDirs []string
	// Ignore holds extra doublestar globs matched against slash-separated
	// paths relative to the root.
	Ignore []string
}

// 🚶 Walker enumerates regular files under a root
type Walker struct {
	ignoredDirs map[string]struct{}
	ignore      []string
}

// 🏭 New creates a Walker, rejecting malformed globs up front
func New(opts Options) (*Walker, error) {
	dirs := opts.IgnoredDirs
	if dirs == nil {
		dirs = DefaultIgnoredDirs
	}

	w := &Walker{ignoredDirs: make(map[string]struct{}, len(dirs))}
	for _, d := range dirs {
		w.ignoredDirs[d] = struct{}{}
	}

	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
		w.ignore = append(w.ignore, pattern)
	}

	return w, nil
}

// IsIgnoredDir reports whether a directory name is one of the markers.
func (w *Walker) IsIgnoredDir(name string) bool {
	_, ok := w.ignoredDirs[name]
	return ok
}

// Ignored reports whether a root-relative path matches an extra glob. A glob
// matching a directory also excludes everything below it.
func (w *Walker) Ignored(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// Files returns the absolute paths of every non-directory entry under root,
// hidden entries included, in lexical order. The list is fully materialized
// so callers know the total up front.
//
// Symbolic links are listed like files unless they resolve to a directory.
func (w *Walker) Files(ctx context.Context, root string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}

		if d.IsDir() {
			if w.IsIgnoredDir(d.Name()) || w.Ignored(rel) {
				logger.Debug().Str("dir", rel).Msg("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if w.Ignored(rel) {
			logger.Debug().Str("file", rel).Msg("skipping ignored file")
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}
