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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

const (
	SearchPrompt  = "Term to search (or press Enter to finish): "
	ReplacePrompt = "Term to replace: "
)

// ⌨️ Interactive reads search/replace pairs from in, prompting on out, until
// an empty search line or end of input. Entering a search twice keeps the
// latest replacement at the first position.
func Interactive(in io.Reader, out io.Writer) (*rules.RuleSet, error) {
	scanner := bufio.NewScanner(in)
	prompt := color.New(color.FgCyan)

	var order []string
	replacements := map[string]string{}

	readLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSuffix(scanner.Text(), "\r"), true
	}

	for {
		fmt.Fprint(out, prompt.Sprint(SearchPrompt))
		search, ok := readLine()
		if !ok || search == "" {
			break
		}

		fmt.Fprint(out, prompt.Sprint(ReplacePrompt))
		replace, ok := readLine()
		if !ok {
			return nil, errors.Errorf("%w: input ended before a replacement for %q", rules.ErrConfiguration, search)
		}

		if _, dup := replacements[search]; !dup {
			order = append(order, search)
		}
		replacements[search] = replace
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("%w: reading rules: %w", rules.ErrConfiguration, err)
	}

	collected := make([]rules.Rule, 0, len(order))
	for _, s := range order {
		collected = append(collected, rules.Rule{Search: s, Replace: replacements[s]})
	}
	return rules.New(collected)
}
