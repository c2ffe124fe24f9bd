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

package config_test

import (
	"context"
	"fmt"

	"github.com/walteh/retree/pkg/config"
	"github.com/walteh/retree/pkg/rules"
)

func ExampleParse() {
	cfg, err := config.Parse(context.Background(), "rules.json", []byte(`{"old": "X", "old_text": "Y"}`))
	if err != nil {
		panic(err)
	}

	cfg.Rules.Each(func(r rules.Rule) {
		fmt.Printf("%s -> %s\n", r.Search, r.Replace)
	})
	// Output:
	// old_text -> Y
	// old -> X
}
