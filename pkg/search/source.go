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

package search

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📂 Source opens a directory for traversal.
// An error means the directory is absent or unusable; the engine treats both
// the same way.
type Source interface {
	Open(dir string) (fs.FS, error)
}

// OSSource reads directories from the local filesystem
type OSSource struct{}

func (OSSource) Open(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}
	return diskFS(dir), nil
}

// diskFS is a directory on disk. Unlike os.DirFS it does not reject names
// that fail fs.ValidPath, so files named in a legacy (non UTF-8) encoding
// can still be opened. Names only ever come from its own ReadDir results.
type diskFS string

func (d diskFS) Open(name string) (fs.File, error) {
	return os.Open(d.join(name))
}

func (d diskFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(d.join(name))
}

func (d diskFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(d.join(name))
}

func (d diskFS) join(name string) string {
	if name == "." || name == "" {
		return string(d)
	}
	return filepath.Join(string(d), filepath.FromSlash(name))
}

// SubSource serves directories out of an existing fs.FS, such as an
// fstest.MapFS. Paths are interpreted slash-separated with any leading
// separator removed.
type SubSource struct {
	FS fs.FS
}

func (s SubSource) Open(dir string) (fs.FS, error) {
	name := strings.TrimPrefix(path.Clean(filepath.ToSlash(dir)), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(s.FS, name)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", name)
	}

	sub, err := fs.Sub(s.FS, name)
	if err != nil {
		return nil, errors.Errorf("sub %s: %w", name, err)
	}
	return sub, nil
}
