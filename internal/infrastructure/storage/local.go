// Package storage provides the blob store backends for listing images: a
// local-disk store served statically by the HTTP layer, and an S3-compatible
// object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carhub/listings-api/internal/api/metrics"
)

// LocalStore writes image blobs to a directory on disk. Locators are serving
// paths of the form <publicPrefix>/<unique-name>, matching the static route
// registered by the router.
type LocalStore struct {
	dir          string
	publicPrefix string
	logger       zerolog.Logger
}

func NewLocalStore(dir, publicPrefix string, logger zerolog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		logger:       logger,
	}, nil
}

func (s *LocalStore) Store(_ context.Context, content io.Reader, originalName string) (string, error) {
	name := uniqueName(originalName)

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write blob file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close blob file: %w", err)
	}

	metrics.ImagesStoredTotal.WithLabelValues("local").Inc()
	return path.Join(s.publicPrefix, name), nil
}

// Delete removes the file behind a locator previously returned by Store.
// A locator whose file is already gone is treated as deleted.
func (s *LocalStore) Delete(_ context.Context, locator string) error {
	name := path.Base(strings.TrimPrefix(locator, s.publicPrefix))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("malformed locator %q", locator)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("locator", locator).Msg("blob already removed")
			return nil
		}
		return fmt.Errorf("remove blob file: %w", err)
	}
	return nil
}

// uniqueName builds a collision-free file name: a fresh UUID prefix plus the
// sanitized original name, so concurrent uploads of "car.jpg" never clash.
func uniqueName(originalName string) string {
	base := sanitizeName(filepath.Base(originalName))
	if base == "" {
		base = "image"
	}
	return uuid.New().String() + "-" + base
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
