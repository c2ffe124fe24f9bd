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
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 📝 Parser reads one rule file format
type Parser interface {
	// Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

// 🗺️ parsers is a list of available parsers
var parsers []Parser

// Register adds a parser to the registry
func Register(p Parser) {
	parsers = append(parsers, p)
}

// GetParser returns the first registered parser for filename, or nil.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ⚙️ Config is everything a rule source can set
type Config struct {
	Rules            *rules.RuleSet
	Ignore           []string
	BinaryExtensions []string
	Workers          int

	// Location is where the rules came from
	Location string
}

// Parse picks a parser by filename and parses data. A name without an
// extension is read as JSON.
func Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	p := GetParser(filename)
	if p == nil && filepath.Ext(filename) == "" {
		p = &JSONParser{}
	}
	if p == nil {
		return nil, errors.Errorf("%w: unsupported rule file %q (want .json, .yaml, .yml or .hcl)", rules.ErrConfiguration, filename)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("%w: parsing %s: %w", rules.ErrConfiguration, filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("%w: validating %s: %w", rules.ErrConfiguration, filename, err)
	}
	cfg.Location = filename

	zerolog.Ctx(ctx).Debug().
		Str("file", filename).
		Int("rules", cfg.Rules.Len()).
		Msg("parsed rule file")
	return cfg, nil
}

// Validate fills defaults and rejects settings no run can use.
func (cfg *Config) Validate() error {
	if cfg.Rules == nil {
		cfg.Rules = rules.MustNew()
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	for _, ext := range cfg.BinaryExtensions {
		if strings.TrimSpace(ext) == "" {
			return errors.Errorf("binary extension must not be empty")
		}
	}
	return nil
}
