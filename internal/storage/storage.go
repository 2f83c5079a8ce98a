package storage

import (
	"context"
	"io"

	"github.com/google/uuid"

	"jobboard/pkg/utils"
)

// Store persists job images. Save returns the reference kept in Job.ImagePath.
type Store interface {
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error)
	// Delete removes the image behind a stored reference. A missing image is not an error.
	Delete(ctx context.Context, imagePath string) error
}

// UniqueFileName prefixes the sanitized client name with a random uuid
func UniqueFileName(originalName string) string {
	return uuid.New().String() + "_" + utils.SanitizeFileName(originalName)
}
