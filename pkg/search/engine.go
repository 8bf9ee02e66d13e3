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
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/pkg/roots"
)

// 🔍 Engine walks one storage root for one date and copies every file whose
// name contains the protocol token.
type Engine struct {
	source Source
}

// 🏭 NewEngine creates an engine reading through src; nil means the local disk
func NewEngine(src Source) *Engine {
	if src == nil {
		src = OSSource{}
	}
	return &Engine{source: src}
}

// 🎯 SearchAndCopy runs one invocation against root.
// Missing directories are not errors: a missing legacy sub-root moves on to
// the next one, a missing timed directory ends the invocation right away.
// Copy failures are recorded per file and never stop the walk.
func (e *Engine) SearchAndCopy(ctx context.Context, req Request, root roots.StorageRoot, sink Sink) CopyOutcome {
	if sink == nil {
		sink = Discard
	}
	logger := zerolog.Ctx(ctx).With().
		Str("root", root.BasePath).
		Str("layout", root.Layout.String()).
		Logger()

	out := CopyOutcome{Root: root.BasePath}
	paths := root.Paths(req.Year, req.Month, req.Day)

	sink.Emit(Progress(0))

	for i, dir := range paths {
		out.PathsTried = append(out.PathsTried, dir)

		if root.Layout == roots.LayoutTimed {
			sink.Emit(Infof("Procurando em: %s (e subpastas de horário)...", dir))
		} else {
			sink.Emit(Infof("Procurando em: %s...", dir))
		}

		fsys, err := e.source.Open(dir)
		if err != nil {
			logger.Debug().Err(err).Str("path", dir).Msg("search path not available")
			if root.Layout == roots.LayoutTimed {
				return out
			}
			sink.Emit(Progress((i + 1) * 100 / len(paths)))
			continue
		}

		e.walk(ctx, fsys, dir, req, sink, &out)

		sink.Emit(Progress((i + 1) * 100 / len(paths)))
	}

	if out.FilesCopiedOk == 0 {
		sink.Emit(Infof("Protocolo NÃO encontrado nesta raiz: %s.", root.BasePath))
	}

	logger.Debug().
		Int("matched", out.FilesMatched).
		Int("copied", out.FilesCopiedOk).
		Int("failed", len(out.FilesCopyFailed)).
		Int64("bytes", out.BytesCopied).
		Msg("root searched")

	return out
}

func (e *Engine) walk(ctx context.Context, fsys fs.FS, dir string, req Request, sink Sink, out *CopyOutcome) {
	logger := zerolog.Ctx(ctx)

	err := doublestar.GlobWalk(fsys, "**", func(p string, d fs.DirEntry) error {
		if !isRegular(fsys, p, d) {
			return nil
		}
		if !strings.Contains(d.Name(), req.ProtocolToken) {
			return nil
		}

		out.FilesMatched++

		n, err := copyFile(fsys, p, req.DestinationDir)
		if err != nil {
			logger.Warn().Err(err).Str("file", p).Msg("copy failed")
			out.FilesCopyFailed = append(out.FilesCopyFailed, CopyFailure{Filename: d.Name(), Error: err.Error()})
			sink.Emit(Infof("Erro ao copiar '%s': %v", d.Name(), err))
			return nil
		}

		out.FilesCopiedOk++
		out.BytesCopied += n
		sink.Emit(Infof("Arquivo '%s' copiado para '%s'", d.Name(), req.DestinationDir))
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", dir).Msg("walking search path")
		sink.Emit(Infof("Erro ao percorrer '%s': %v", dir, err))
	}
}

// isRegular filters out directories, including symlinks that point at one
func isRegular(fsys fs.FS, p string, d fs.DirEntry) bool {
	if d.IsDir() {
		return false
	}
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := fs.Stat(fsys, p)
		if err == nil && info.IsDir() {
			return false
		}
	}
	return true
}

// sameFile reports whether target already exists and is the file src is
// reading from.
func sameFile(src fs.File, target string) (bool, error) {
	tinfo, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("stat destination: %w", err)
	}
	sinfo, err := src.Stat()
	if err != nil {
		return false, errors.Errorf("stat source: %w", err)
	}
	return os.SameFile(sinfo, tinfo), nil
}

// copyFile copies p into destDir under its base name, overwriting any
// existing file, and returns the number of bytes written.
func copyFile(fsys fs.FS, p, destDir string) (int64, error) {
	src, err := fsys.Open(p)
	if err != nil {
		return 0, errors.Errorf("opening source: %w", err)
	}
	defer src.Close()

	mode := fs.FileMode(0o644)
	if info, err := src.Stat(); err == nil && info.Mode().Perm() != 0 {
		mode = info.Mode().Perm()
	}

	target := filepath.Join(destDir, path.Base(p))
	if same, err := sameFile(src, target); err != nil {
		return 0, err
	} else if same {
		return 0, errors.Errorf("%w: %s", ErrSameFile, target)
	}

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, errors.Errorf("creating destination: %w", err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return n, errors.Errorf("copying data: %w", err)
	}
	if err := dst.Close(); err != nil {
		return n, errors.Errorf("closing destination: %w", err)
	}
	return n, nil
}
