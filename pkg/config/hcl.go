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
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/retree/pkg/rules"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// HCLParser reads rule blocks; expressions may reference env.NAME
type HCLParser struct {
	// Environ supplies KEY=value pairs for env; nil means os.Environ
	Environ func() []string
}

func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

type hclRule struct {
	Search  string `hcl:"search,label"`
	Replace string `hcl:"replace"`
}

type hclConfig struct {
	Rules            []hclRule `hcl:"rule,block"`
	Ignore           []string  `hcl:"ignore,optional"`
	BinaryExtensions []string  `hcl:"binary_extensions,optional"`
	Workers          int       `hcl:"workers,optional"`
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rules.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	environ := p.Environ
	if environ == nil {
		environ = os.Environ
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(environ()),
		},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	in := make([]rules.Rule, 0, len(raw.Rules))
	for _, r := range raw.Rules {
		in = append(in, rules.Rule{Search: r.Search, Replace: r.Replace})
	}
	rs, err := rules.New(in)
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

func envObject(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !utf8.ValidString(v) {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}
