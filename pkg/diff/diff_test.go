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

package diff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retree/pkg/decode"
	"github.com/walteh/retree/pkg/rules"
	"github.com/walteh/retree/pkg/status"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	scratch := t.TempDir()
	files := map[string]string{
		"old.go":       "package old\n",
		"README.md":    "same\n",
		"logo_old.png": "\x89PNG old",
	}
	writeFiles(t, src, files)

	report, err := Run(testContext(t), Options{
		Source:     src,
		Rules:      rules.MustNew(rules.Rule{Search: "old", Replace: "new"}),
		Context:    -1,
		ScratchDir: scratch,
	})
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "logo_old.png", report.Files[0].Rel)
	assert.Equal(t, "logo_new.png", report.Files[0].TargetRel)
	assert.Empty(t, report.Files[0].Unified, "binary files only report the rename")

	goFile := report.Files[1]
	assert.Equal(t, status.OutcomeRenamedAndUpdated, goFile.Outcome)
	assert.True(t, goFile.Renamed())
	assert.Contains(t, goFile.Unified, "--- a/old.go\n+++ b/new.go\n")
	assert.Contains(t, goFile.Unified, "-package old\n+package new\n")

	for rel, content := range files {
		got, err := os.ReadFile(filepath.Join(src, rel))
		require.NoError(t, err)
		assert.Equal(t, content, string(got), "source %s is untouched", rel)
	}
	_, err = os.Stat(filepath.Join(src, "new.go"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch tree is removed")
}


func TestRun_CollidingSourcesDiffTheirOwnContent(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"a_old.txt": "one old\n",
		"a_new.txt": "two old\n",
	})

	report, err := Run(testContext(t), Options{
		Source:     src,
		Rules:      rules.MustNew(rules.Rule{Search: "old", Replace: "new"}),
		Context:    0,
		Workers:    1,
		ScratchDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Collisions)

	byRel := map[string]FileDiff{}
	for _, f := range report.Files {
		byRel[f.Rel] = f
	}
	require.Len(t, byRel, 2)

	assert.Contains(t, byRel["a_old.txt"].Unified, "-one old\n+one new\n")
	assert.Contains(t, byRel["a_new.txt"].Unified, "-two old\n+two new\n")
}
func TestRun_ContextLines(t *testing.T) {
	src := t.TempDir()
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, fmt.Sprintf("l%d", i))
	}
	writeFiles(t, src, map[string]string{"f.txt": strings.Join(lines, "\n") + "\n"})

	report, err := Run(testContext(t), Options{
		Source:     src,
		Rules:      rules.MustNew(rules.Rule{Search: "l5", Replace: "n5"}),
		Context:    1,
		ScratchDir: t.TempDir(),
	})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)

	assert.Contains(t, report.Files[0].Unified, "@@ -4,3 +4,3 @@\n l4\n-l5\n+n5\n l6\n")
	assert.NotContains(t, report.Files[0].Unified, "l3")
}

func TestRun_RejectsBadSource(t *testing.T) {
	_, err := Run(testContext(t), Options{
		Source:     filepath.Join(t.TempDir(), "missing"),
		Rules:      rules.MustNew(rules.Rule{Search: "a", Replace: "b"}),
		ScratchDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrConfiguration)
}

func TestReport_Write(t *testing.T) {
	report := &Report{
		Summary: &status.Summary{},
		Files: []FileDiff{
			{Rel: "logo_old.png", TargetRel: "logo_new.png", Kind: decode.BinaryByExtension, Outcome: status.OutcomeRenamed},
			{
				Rel:       "a.txt",
				TargetRel: "a.txt",
				Outcome:   status.OutcomeUpdated,
				Unified:   "--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-old\n+new\n",
			},
		},
	}

	var plain bytes.Buffer
	require.NoError(t, report.Write(&plain, false))
	assert.Equal(t, ""+
		"\nFile: logo_old.png → logo_new.png\n"+
		"  renamed, binary content unchanged\n"+
		"\nFile: a.txt\n"+
		"--- a/a.txt\n"+
		"+++ b/a.txt\n"+
		"@@ -1 +1 @@\n"+
		"-old\n"+
		"+new\n", plain.String())

	var colored bytes.Buffer
	require.NoError(t, report.Write(&colored, true))
	assert.Contains(t, colored.String(), "\x1b[32m+new\x1b[0m")
	assert.Contains(t, colored.String(), "\x1b[31m-old\x1b[0m")
}

func TestReport_WriteNoChanges(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&Report{Summary: &status.Summary{}}).Write(&out, false))
	assert.Equal(t, "no changes\n", out.String())
}

func TestColorMode(t *testing.T) {
	for _, s := range []string{"auto", "ON", "off"} {
		_, err := ParseColorMode(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseColorMode("sometimes")
	assert.ErrorIs(t, err, rules.ErrConfiguration)

	var buf bytes.Buffer
	assert.False(t, ColorAuto.Enabled(&buf), "a buffer is not a terminal")
	assert.True(t, ColorOn.Enabled(&buf))
	assert.False(t, ColorOff.Enabled(os.Stdout))
}
