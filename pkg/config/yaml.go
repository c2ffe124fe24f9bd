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
	"io"

	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// YAMLParser reads structured YAML rule files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return hasExt(filename, ".yaml", ".yml")
}

type yamlConfig struct {
	Rules            yaml.Node `yaml:"rules"`
	Ignore           []string  `yaml:"ignore"`
	BinaryExtensions []string  `yaml:"binary_extensions"`
	Workers          int       `yaml:"workers"`
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var raw yamlConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	rs, err := rulesFromNode(&raw.Rules)
	if err != nil {
		return nil, err
	}

	return &Config{
		Rules:            rs,
		Ignore:           raw.Ignore,
		BinaryExtensions: raw.BinaryExtensions,
		Workers:          raw.Workers,
	}, nil
}

// rulesFromNode reads a mapping node in document order. A null value is an
// empty replacement.
func rulesFromNode(node *yaml.Node) (*rules.RuleSet, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return rules.MustNew(), nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: rules must be a mapping of search to replacement", node.Line)
	}

	in := make([]rules.Rule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, errors.Errorf("line %d: search text must be a scalar", key.Line)
		}

		r := rules.Rule{Search: key.Value}
		switch {
		case value.Kind == yaml.ScalarNode && value.Tag == "!!null":
		case value.Kind == yaml.ScalarNode:
			r.Replace = value.Value
		default:
			return nil, errors.Errorf("line %d: replacement for %q must be a scalar", value.Line, key.Value)
		}
		in = append(in, r)
	}
	return rules.New(in)
}
