package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LocalStore writes assets as individual files into a single directory.
type LocalStore struct {
	fs   afero.Fs
	dir  string
	name Namer
	log  *zap.Logger
}

// NewLocalStore creates the upload directory if it does not exist and
// returns a store writing into it.
func NewLocalStore(fs afero.Fs, dir string, name Namer, log *zap.Logger) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}

	log.Info("upload directory ready", zap.String("dir", dir))

	return &LocalStore{
		fs:   fs,
		dir:  dir,
		name: name,
		log:  log,
	}, nil
}

// Save copies r into a new file and returns its name relative to the upload directory.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.name(originalName)
	path := filepath.Join(s.dir, name)

	// O_EXCL: a name collision fails the upload instead of overwriting another user's picture
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.log.Error("failed to create asset file", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Error("failed to write asset file", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	s.log.Info("asset stored",
		zap.String("name", name),
		zap.String("original_name", originalName),
		zap.Int64("bytes", written),
	)
	return name, nil
}

// Location returns the upload directory.
func (s *LocalStore) Location() string {
	return s.dir
}
