package domain

import "errors"

var (
	ErrMissingImage  = errors.New("missing image")
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
	ErrBusy          = errors.New("a request is already running")
	ErrNoUploads     = errors.New("no uploads selected")
	ErrUnknownUpload = errors.New("unknown upload")
)

const (
	DefaultMaxSizeMB = 10
	MB               = 1024 * 1024
)
