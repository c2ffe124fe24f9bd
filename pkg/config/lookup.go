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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// HomeDirName is the per-user directory searched for rule files.
const HomeDirName = ".retree"

const remotePrefix = "github:"

// 🌐 RemoteRef names a rule file in a GitHub repository
type RemoteRef struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // branch, tag or commit; empty means the default branch
}

func (r RemoteRef) String() string {
	s := remotePrefix + r.Owner + "/" + r.Repo + "/" + r.Path
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// ParseRemoteRef parses github:<owner>/<repo>/<path>[@ref]. The bool is false
// when s is not a remote reference at all.
func ParseRemoteRef(s string) (RemoteRef, bool, error) {
	rest, ok := strings.CutPrefix(s, remotePrefix)
	if !ok {
		return RemoteRef{}, false, nil
	}

	var ref RemoteRef
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		ref.Ref = rest[at+1:]
		rest = rest[:at]
		if ref.Ref == "" {
			return RemoteRef{}, true, errors.Errorf("%w: %q: empty ref after @", rules.ErrConfiguration, s)
		}
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || strings.Trim(parts[2], "/") == "" {
		return RemoteRef{}, true, errors.Errorf("%w: %q: want github:<owner>/<repo>/<path>[@ref]", rules.ErrConfiguration, s)
	}
	ref.Owner, ref.Repo, ref.Path = parts[0], parts[1], strings.Trim(parts[2], "/")
	return ref, true, nil
}

// Fetcher downloads a remote rule file
type Fetcher interface {
	Fetch(ctx context.Context, ref RemoteRef) ([]byte, error)
}

type LoadOptions struct {
	// HomeDir overrides the user's home directory; empty means os.UserHomeDir
	HomeDir string
	// Fetcher serves github: references; nil rejects them
	Fetcher Fetcher
}

// 📥 Load reads rules from a github: reference or a named file.
func Load(ctx context.Context, arg string, opts LoadOptions) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	ref, remote, err := ParseRemoteRef(arg)
	if err != nil {
		return nil, err
	}
	if remote {
		if opts.Fetcher == nil {
			return nil, errors.Errorf("%w: no fetcher configured for %s", rules.ErrConfiguration, ref)
		}
		logger.Debug().Str("ref", ref.String()).Msg("fetching remote rule file")

		data, err := opts.Fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, errors.Errorf("%w: fetching %s: %w", rules.ErrConfiguration, ref, err)
		}
		cfg, err := Parse(ctx, ref.Path, data)
		if err != nil {
			return nil, err
		}
		cfg.Location = ref.String()
		return cfg, nil
	}

	path, err := Find(arg, opts.HomeDir)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("found rule file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading rule file: %w", rules.ErrConfiguration, err)
	}
	return Parse(ctx, path, data)
}

// Candidates lists where Find looks for name, in order: as given, as an
// absolute path, under ~/.retree, and under ~/.retree with .json appended
// when name has no extension.
func Candidates(name, home string) []string {
	if strings.HasPrefix(name, "~/") && home != "" {
		name = filepath.Join(home, name[2:])
	}

	out := []string{name}
	if abs, err := filepath.Abs(name); err == nil {
		out = append(out, abs)
	}
	if home != "" && !filepath.IsAbs(name) {
		out = append(out, filepath.Join(home, HomeDirName, name))
		if filepath.Ext(name) == "" {
			out = append(out, filepath.Join(home, HomeDirName, name+".json"))
		}
	}

	seen := make(map[string]bool, len(out))
	uniq := out[:0]
	for _, c := range out {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	return uniq
}

// Find returns the first candidate that is a regular file. Not finding one
// is a configuration error naming every path tried.
func Find(name, home string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.Errorf("%w: rule file name is empty", rules.ErrConfiguration)
	}
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	tried := Candidates(name, home)
	for _, c := range tried {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", errors.Errorf("%w: rule file %q not found, tried: %s", rules.ErrConfiguration, name, strings.Join(tried, ", "))
}
