package artifact

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/metalagman/slipway/internal/manifest"
	"github.com/rs/zerolog/log"
)

// skipDirs are source tree directories that never belong in a bundle.
var skipDirs = map[string]struct{}{
	".git":          {},
	".venv":         {},
	"__pycache__":   {},
	".pytest_cache": {},
	".mypy_cache":   {},
	".ruff_cache":   {},
}

// Package validates the inputs and produces an immutable Descriptor. The
// manifest is written to requirements.txt under the source root as a side
// effect so the pins ship inside the bundle. All validation failures are
// surfaced here, before any remote call is attempted.
func Package(sourceRoot, entrypoint string, m manifest.Manifest, selfName string) (Descriptor, error) {
	module, object, err := ParseEntrypoint(entrypoint)
	if err != nil {
		return Descriptor{}, err
	}
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return Descriptor{}, fmt.Errorf("source root %s: %w", sourceRoot, err)
	}
	if !info.IsDir() {
		return Descriptor{}, fmt.Errorf("source root %s is not a directory", sourceRoot)
	}
	if err := m.Validate(selfName); err != nil {
		return Descriptor{}, err
	}

	manifestPath := filepath.Join(sourceRoot, ManifestFileName)
	if err := m.WriteFile(manifestPath); err != nil {
		return Descriptor{}, err
	}
	log.Debug().Str("path", manifestPath).Int("packages", len(m.Entries)).Msg("manifest written")

	return Descriptor{
		SourceRoot:   sourceRoot,
		Module:       module,
		Object:       object,
		ManifestPath: manifestPath,
	}, nil
}

// Bundle writes a tar.gz of the descriptor's source tree to w. Paths inside
// the archive are relative to the source root.
func Bundle(d Descriptor, w io.Writer) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	root := filepath.Clean(d.SourceRoot)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if entry.IsDir() {
			if _, skip := skipDirs[entry.Name()]; skip {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		if cErr := f.Close(); err == nil {
			err = cErr
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("bundle %s: %w", d.SourceRoot, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("finish bundle: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finish bundle: %w", err)
	}
	return nil
}

// SelfName guesses the project's own package name from the source root
// directory, used to keep the project out of its own manifest. The root is
// resolved to an absolute path first so relative roots like "." still name
// the directory rather than the path punctuation.
func SelfName(sourceRoot string) string {
	abs, err := filepath.Abs(sourceRoot)
	if err != nil {
		abs = filepath.Clean(sourceRoot)
	}
	return strings.ToLower(filepath.Base(abs))
}
