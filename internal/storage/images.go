// Package storage persists uploaded image files under a configured base
// directory, one subdirectory per entity type.
package storage

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "recipebox/internal/errors"
)

// ImageStore saves and removes image files. Returned paths are relative to
// the base directory so records stay valid if the directory moves.
type ImageStore struct {
	baseDir string
}

// NewImageStore creates an image store rooted at baseDir.
func NewImageStore(baseDir string) *ImageStore {
	return &ImageStore{baseDir: baseDir}
}

// Save validates that r holds a decodable image and writes it to
// <baseDir>/<entity>/<uuid><ext>, returning the path relative to baseDir.
// Nothing is written when validation fails.
func (s *ImageStore) Save(entity, originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", apperrors.ErrInvalidImage
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	relPath := filepath.Join(entity, name)

	dir := filepath.Join(s.baseDir, entity)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.baseDir, relPath), data, 0o644); err != nil {
		return "", err
	}
	return relPath, nil
}

// Remove deletes a previously saved file. Removal is best-effort: a failed
// unlink is logged and swallowed so record mutations never fail on file
// cleanup.
func (s *ImageStore) Remove(relPath string) {
	if relPath == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.baseDir, relPath)); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", relPath).Warn("failed to remove image file")
	}
}
