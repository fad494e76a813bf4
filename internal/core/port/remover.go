package port

import (
	"context"
	"unmark/internal/core/domain"
)

type WatermarkRemover interface {
	// Remove sends a single image to the removal service and returns the cleaned image bytes.
	Remove(ctx context.Context, upload domain.Upload) ([]byte, error)
}

type Inpainter interface {
	// Inpaint sends the full image and a mask marking the pixels to replace, and returns the result image bytes.
	Inpaint(ctx context.Context, image, mask []byte) ([]byte, error)
}

type ResultStore interface {
	// Save keeps a copy of data and returns a handle that must later be released.
	Save(data []byte, extension string) (string, error)
	// Load returns the data kept under a handle returned by Save.
	Load(path string) ([]byte, error)
	// Release frees a handle returned by Save.
	Release(path string)
}
