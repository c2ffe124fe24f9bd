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

// Package decode classifies files as textual or binary and turns textual
// file bytes into valid UTF-8.
package decode

import (
	"path/filepath"
	"strings"
)

// Kind is the content class of a file.
type Kind int

const (
	Textual           Kind = iota // content is decoded and rewritten
	BinaryByExtension             // only the path is rewritten
)

func (k Kind) String() string {
	switch k {
	case Textual:
		return "text"
	case BinaryByExtension:
		return "binary"
	default:
		return "unknown"
	}
}

// DefaultBinaryExtensions is the fixed allow-list of extensions whose content
// is never inspected.
var DefaultBinaryExtensions = []string{
	// images
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".icns", ".webp", ".tif", ".tiff", ".psd",
	// archives
	".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".zst", ".7z", ".rar", ".jar", ".war", ".gem",
	// executables and libraries
	".exe", ".dll", ".so", ".dylib", ".a", ".o", ".lib", ".bin", ".class", ".pyc", ".wasm",
	// fonts
	".ttf", ".otf", ".woff", ".woff2", ".eot",
	// media
	".mp3", ".mp4", ".mov", ".avi", ".wav", ".flac", ".ogg", ".webm",
	// documents and databases
	".pdf", ".sqlite", ".sqlite3", ".db",
}

// 🔍 Classifier decides a file's Kind from its extension
type Classifier struct {
	binary map[string]struct{}
}

// NewClassifier returns a Classifier over the default allow-list plus extra.
// Extensions match case-insensitively; a missing leading dot is added.
func NewClassifier(extra ...string) *Classifier {
	c := &Classifier{binary: make(map[string]struct{}, len(DefaultBinaryExtensions)+len(extra))}
	for _, ext := range DefaultBinaryExtensions {
		c.add(ext)
	}
	for _, ext := range extra {
		c.add(ext)
	}
	return c
}

func (c *Classifier) add(ext string) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.binary[ext] = struct{}{}
}

// Classify is a pure function of the path's extension.
func (c *Classifier) Classify(path string) Kind {
	if _, ok := c.binary[strings.ToLower(filepath.Ext(path))]; ok {
		return BinaryByExtension
	}
	return Textual
}
