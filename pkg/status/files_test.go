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

package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestManager_WriteFileAtomic(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	mgr := NewManager(dir)

	require.NoError(t, mgr.WriteFileAtomic(ctx, filepath.Join("a", "b", "c.txt"), []byte("hello"), 0640))

	got, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	info, err := os.Stat(filepath.Join(dir, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "requested mode should be applied")

	entries, err := os.ReadDir(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")

	require.NoError(t, mgr.WriteFileAtomic(ctx, filepath.Join("a", "b", "c.txt"), []byte("again"), 0644))
	got, err = mgr.ReadFile(ctx, filepath.Join("a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "again", string(got), "existing files are replaced")
}

func TestManager_WriteFileAtomicBlockedParent(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0644))

	err := NewManager(dir).WriteFileAtomic(ctx, filepath.Join("blocker", "file.txt"), []byte("y"), 0644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating parent directories")
}

func TestManager_CopyFile(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := filepath.Join(srcDir, "run.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\necho hi\n"), 0755))

	mgr := NewManager(dstDir)
	require.NoError(t, mgr.CopyFile(ctx, src, filepath.Join("bin", "run.sh")))

	got, err := os.ReadFile(filepath.Join(dstDir, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", string(got))

	info, err := os.Stat(filepath.Join(dstDir, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), "mode should be preserved")

	_, err = os.Stat(src)
	assert.NoError(t, err, "copy must leave the source in place")

	err = mgr.CopyFile(ctx, filepath.Join(srcDir, "missing"), "x")
	require.Error(t, err)
}

func TestManager_MoveFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	mgr := NewManager(dir)

	src := filepath.Join(dir, "old.bin")
	require.NoError(t, os.WriteFile(src, []byte{0x00, 0xff, 0x10}, 0644))

	require.NoError(t, mgr.MoveFile(ctx, src, filepath.Join("nested", "new.bin")))

	assert.NoFileExists(t, src, "source should be gone after a move")

	got, err := mgr.ReadFile(ctx, filepath.Join("nested", "new.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, got)
}

func TestManager_DeleteAndRemoveDir(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	mgr := NewManager(dir)

	require.NoError(t, mgr.WriteFileAtomic(ctx, filepath.Join("d", "f.txt"), []byte("x"), 0644))

	err := mgr.RemoveDir(ctx, "d")
	require.Error(t, err, "non-empty directories are never removed")

	require.NoError(t, mgr.DeleteFile(ctx, filepath.Join("d", "f.txt")))
	require.NoError(t, mgr.RemoveDir(ctx, "d"))

	assert.NoDirExists(t, mgr.Abs("d"))

	err = mgr.DeleteFile(ctx, "nope.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleting file")
}

func TestManager_Abs(t *testing.T) {
	mgr := NewManager("/root/dir/")
	assert.Equal(t, filepath.Clean("/root/dir"), mgr.BaseDir())
	assert.Equal(t, filepath.Join("/root/dir", "a", "b.txt"), mgr.Abs(filepath.Join("a", "b.txt")))
}
