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

// Package permissions normalizes file modes across a project tree:
// directories and executables become 0755, everything else 0644.
package permissions

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultExecutables are forced to 0755 when present, whatever their mode.
var DefaultExecutables = []string{"bin/bundle", "bin/rails", "bin/rake", "bin/spring"}

// DefaultSkipDirs are directory names left alone entirely.
var DefaultSkipDirs = []string{"node_modules"}

const (
	DirMode  os.FileMode = 0755
	ExecMode os.FileMode = 0755
	FileMode os.FileMode = 0644
)

type Options struct {
	// Executables are slash-separated paths relative to the root; nil means
	// DefaultExecutables
	Executables []string
	// SkipDirs are directory names to skip; nil means DefaultSkipDirs
	SkipDirs []string
}

// Result counts what Fix looked at and changed.
type Result struct {
	Dirs    int
	Files   int
	Changed int
}

// 🔧 Fix walks root and applies the normalized modes. The root itself and
// symbolic links are never changed.
func Fix(ctx context.Context, root string, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	executables := opts.Executables
	if executables == nil {
		executables = DefaultExecutables
	}
	skip := opts.SkipDirs
	if skip == nil {
		skip = DefaultSkipDirs
	}
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}
	forced := make(map[string]bool, len(executables))
	for _, e := range executables {
		forced[filepath.Clean(filepath.FromSlash(e))] = true
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, errors.Errorf("reading root: %w", err)
	} else if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}

	res := &Result{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == root || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() && skipSet[d.Name()] {
			return filepath.SkipDir
		}

		info, err := d.Info()
		if err != nil {
			return errors.Errorf("reading mode of %s: %w", path, err)
		}
		current := info.Mode().Perm()

		var want os.FileMode
		if d.IsDir() {
			res.Dirs++
			want = DirMode
		} else {
			res.Files++
			rel, _ := filepath.Rel(root, path)
			want = fileMode(current, forced[rel])
		}

		if current == want {
			return nil
		}
		if err := os.Chmod(path, want); err != nil {
			return errors.Errorf("changing mode of %s: %w", path, err)
		}
		res.Changed++
		logger.Debug().
			Str("path", path).
			Str("from", current.String()).
			Str("to", want.String()).
			Msg("fixed permissions")
		return nil
	})
	if err != nil {
		return res, errors.Errorf("fixing permissions under %s: %w", root, err)
	}

	logger.Info().
		Str("root", root).
		Int("dirs", res.Dirs).
		Int("files", res.Files).
		Int("changed", res.Changed).
		Msg("permissions fixed")
	return res, nil
}

// fileMode keeps a file executable when anyone could execute it.
func fileMode(current os.FileMode, forced bool) os.FileMode {
	if forced || current&0111 != 0 {
		return ExecMode
	}
	return FileMode
}
