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
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileManager handles the file system operations of one root
type FileManager interface {
	Abs(rel string) string
	ReadFile(ctx context.Context, rel string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, rel string, content []byte, perm os.FileMode) error
	CopyFile(ctx context.Context, src, rel string) error
	MoveFile(ctx context.Context, src, rel string) error
	DeleteFile(ctx context.Context, rel string) error
	RemoveDir(ctx context.Context, rel string) error
}

var _ FileManager = (*Manager)(nil)

// 🔧 Manager implements FileManager rooted at baseDir. Relative paths are
// resolved against baseDir; source paths passed to CopyFile and MoveFile are
// absolute.
type Manager struct {
	baseDir string
}

// 🏭 NewManager creates a new file manager rooted at baseDir
func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: filepath.Clean(baseDir)}
}

// BaseDir returns the root this manager writes under.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 Abs returns the absolute path for a given relative path
func (m *Manager) Abs(rel string) string {
	return filepath.Join(m.baseDir, rel)
}

func (m *Manager) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	content, err := os.ReadFile(m.Abs(rel))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic writes content to a temp file beside the target and renames
// it into place, creating parent directories as needed.
func (m *Manager) WriteFileAtomic(ctx context.Context, rel string, content []byte, perm os.FileMode) error {
	absPath := m.Abs(rel)
	err := writeAtomic(absPath, perm, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Trace().Str("path", absPath).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// CopyFile copies src to rel byte for byte, keeping src's mode.
func (m *Manager) CopyFile(ctx context.Context, src, rel string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("reading source file mode: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	return writeAtomic(m.Abs(rel), info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, srcFile)
		return err
	})
}

// writeAtomic fills a temp file in the target directory and renames it over
// absPath. The temp file never outlives a failure.
func writeAtomic(absPath string, perm os.FileMode, fill func(io.Writer) error) error {
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(absPath)+".retree-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// MoveFile renames src to rel, falling back to copy and delete when the two
// live on different devices.
func (m *Manager) MoveFile(ctx context.Context, src, rel string) error {
	absPath := m.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	err := os.Rename(src, absPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.Errorf("moving file: %w", err)
	}

	if err := m.CopyFile(ctx, src, rel); err != nil {
		return errors.Errorf("moving file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing moved source: %w", err)
	}
	return nil
}

func (m *Manager) DeleteFile(ctx context.Context, rel string) error {
	if err := os.Remove(m.Abs(rel)); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	return nil
}

// RemoveDir removes an empty directory. It never removes contents.
func (m *Manager) RemoveDir(ctx context.Context, rel string) error {
	if err := os.Remove(m.Abs(rel)); err != nil {
		return errors.Errorf("removing directory: %w", err)
	}
	return nil
}
