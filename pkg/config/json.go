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
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// JSONParser reads the flat and the structured JSON forms
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

func (p *JSONParser) CanParse(filename string) bool {
	return hasExt(filename, ".json")
}

type member struct {
	key string
	raw json.RawMessage
}

// Parse keeps key order, which encoding/json maps would lose. An object whose
// values are all strings is the flat form; anything else must be the
// structured form.
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	flat := true
	for _, m := range members {
		if !isStringOrNull(m.raw) {
			flat = false
			break
		}
	}

	if flat {
		rs, err := rulesFromMembers(members)
		if err != nil {
			return nil, err
		}
		return &Config{Rules: rs}, nil
	}

	cfg := &Config{}
	for _, m := range members {
		switch m.key {
		case "rules":
			inner, err := decodeObject(m.raw)
			if err != nil {
				return nil, errors.Errorf("rules: %w", err)
			}
			if cfg.Rules, err = rulesFromMembers(inner); err != nil {
				return nil, err
			}
		case "ignore":
			if err := json.Unmarshal(m.raw, &cfg.Ignore); err != nil {
				return nil, errors.Errorf("ignore: %w", err)
			}
		case "binary_extensions":
			if err := json.Unmarshal(m.raw, &cfg.BinaryExtensions); err != nil {
				return nil, errors.Errorf("binary_extensions: %w", err)
			}
		case "workers":
			if err := json.Unmarshal(m.raw, &cfg.Workers); err != nil {
				return nil, errors.Errorf("workers: %w", err)
			}
		default:
			return nil, errors.Errorf("unknown field %q", m.key)
		}
	}
	return cfg, nil
}

// decodeObject reads a single JSON object as ordered members.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.Errorf("parsing JSON: expected an object")
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Errorf("parsing JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("parsing JSON: expected a key")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Errorf("parsing JSON value for %q: %w", key, err)
		}
		members = append(members, member{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Errorf("parsing JSON: unexpected data after the object")
	}
	return members, nil
}

func isStringOrNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '"' || bytes.Equal(trimmed, []byte("null")))
}

func rulesFromMembers(members []member) (*rules.RuleSet, error) {
	in := make([]rules.Rule, 0, len(members))
	for _, m := range members {
		if !isStringOrNull(m.raw) {
			return nil, errors.Errorf("replacement for %q must be a string", m.key)
		}
		var replace *string
		if err := json.Unmarshal(m.raw, &replace); err != nil {
			return nil, errors.Errorf("replacement for %q: %w", m.key, err)
		}
		r := rules.Rule{Search: m.key}
		if replace != nil {
			r.Replace = *replace
		}
		in = append(in, r)
	}
	return rules.New(in)
}
