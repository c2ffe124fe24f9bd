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

package decode

import (
	"os"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 📄 Text is the decoded payload of a textual file
type Text struct {
	Content string

	// Repaired is set when the bytes were not valid UTF-8 and invalid
	// sequences were dropped.
	Repaired bool

	// DroppedBytes is how many input bytes the repair removed.
	DroppedBytes int
}

// Decode reads path and returns its content as valid UTF-8.
//
// A strict UTF-8 decode is tried first. When it fails the bytes are
// reinterpreted as UTF-8 and every invalid sequence is replaced with the
// empty string. This always succeeds for readable files, but the repair is
// lossy: malformed bytes are silently gone from the result, which can damage
// text formats that embed non-UTF-8 data. Callers should surface Repaired.
func Decode(path string) (*Text, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return DecodeBytes(raw), nil
}

// DecodeBytes is Decode over bytes already in memory.
func DecodeBytes(raw []byte) *Text {
	if utf8.Valid(raw) {
		return &Text{Content: string(raw)}
	}

	repaired := strings.ToValidUTF8(string(raw), "")
	return &Text{
		Content:      repaired,
		Repaired:     true,
		DroppedBytes: len(raw) - len(repaired),
	}
}
