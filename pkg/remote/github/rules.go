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

// Package github serves github: rule references from the GitHub contents API.
package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// TokenEnv names the optional environment variable holding a GitHub token.
const TokenEnv = "GITHUB_TOKEN"

var _ config.Fetcher = (*Fetcher)(nil)

// 🌐 Fetcher downloads rule files from GitHub repositories
type Fetcher struct {
	client *github.Client
}

// New creates a Fetcher using GITHUB_TOKEN when it is set, and anonymous
// access otherwise.
func New(ctx context.Context) *Fetcher {
	client := github.NewClient(nil)
	if token := os.Getenv(TokenEnv); token != "" {
		client = client.WithAuthToken(token)
		zerolog.Ctx(ctx).Debug().Msg("using GitHub token from environment")
	}
	return NewWithClient(client)
}

// NewWithClient wraps an existing client, e.g. one pointed at an enterprise
// server.
func NewWithClient(client *github.Client) *Fetcher {
	return &Fetcher{client: client}
}

// 📥 Fetch returns the decoded content of ref.Path at ref.Ref
func (f *Fetcher) Fetch(ctx context.Context, ref config.RemoteRef) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	var opts *github.RepositoryContentGetOptions
	if ref.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref.Ref}
	}

	file, dir, resp, err := f.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("%s not found: %w", ref, err)
		}
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if file == nil {
		return nil, errors.Errorf("%s is a directory with %d entries, not a file", ref, len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	logger.Debug().
		Str("ref", ref.String()).
		Str("sha", file.GetSHA()).
		Int("bytes", len(content)).
		Msg("fetched remote rule file")

	return []byte(content), nil
}
