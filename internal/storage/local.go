package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"jobboard/internal/logging"
)

// LocalStore writes images to a directory served statically under urlPath
type LocalStore struct {
	dir     string
	urlPath string
	logger  logging.Logger
}

func NewLocalStore(dir, urlPath string, logger logging.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		urlPath: "/" + strings.Trim(urlPath, "/"),
		logger:  logger.WithField("component", "storage.local"),
	}, nil
}

// Dir is the directory images are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error) {
	name := UniqueFileName(originalName)
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	s.logger.Debug("image saved", map[string]interface{}{"file": name})
	return path.Join(s.urlPath, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, imagePath string) error {
	if imagePath == "" {
		return nil
	}

	// only the base name is trusted, so a stored path cannot escape dir
	name := path.Base(strings.ReplaceAll(imagePath, `\`, "/"))
	if name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	if err == nil {
		s.logger.Debug("image deleted", map[string]interface{}{"file": name})
	}
	return nil
}
