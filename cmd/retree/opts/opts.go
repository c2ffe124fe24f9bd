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

package opts

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/config"
	"github.com/walteh/retree/pkg/log"
)

// RootOpts is shared by every command
type RootOpts struct {
	Logger  *zerolog.Logger
	Console *log.Logger

	Stdin  io.Reader
	Stdout io.Writer

	// HomeDir is searched for ~/.retree rule files; empty means the user's
	HomeDir string
	// Fetcher serves github: rule references
	Fetcher config.Fetcher
	// IsTerminal reports whether Stdin is interactive
	IsTerminal func() bool
}
