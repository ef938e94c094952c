// Package storage persists uploaded photos under the static upload
// directory and hands back the public path they are served from.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix uploads are served under.
const PublicPrefix = "/uploads/"

// MaxDimension bounds the longest side of a stored image.
const MaxDimension = 1600

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("file too large")
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// DiskStore writes images into Dir with a random name that keeps the
// original extension. Images are decoded, rotated according to their EXIF
// orientation and shrunk to fit MaxDimension before being re-encoded, so
// whatever metadata the client embedded is dropped.
type DiskStore struct {
	Dir      string
	MaxBytes int64
	newName  func() string
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, MaxBytes: maxBytes, newName: uuid.NewString}, nil
}

// Put stores the image read from r and returns "/uploads/<name>".
// filename is only used for its extension.
func (s *DiskStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	var buf bytes.Buffer
	limit := s.MaxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n > limit {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Decode(&buf, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)

	name := s.newName() + ext
	if err := imaging.Save(img, filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return PublicPrefix + name, nil
}

// Remove deletes a file previously returned by Put. Paths outside
// PublicPrefix are rejected; a file that is already gone is not an error.
func (s *DiskStore) Remove(_ context.Context, path string) error {
	name, ok := strings.CutPrefix(path, PublicPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("remove upload: invalid path %q", path)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
