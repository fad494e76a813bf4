package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError rejects an upload before any request is made. Its message is shown to the user as is.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateUpload checks the MIME type and the size ceiling of an upload.
func ValidateUpload(u Upload, maxSizeMB int) error {
	if !strings.HasPrefix(u.MIME, "image/") {
		return &ValidationError{Err: ErrInvalidImage, Message: "Please select a valid image."}
	}

	if u.Size > int64(maxSizeMB)*MB {
		return &ValidationError{
			Err:     ErrImageTooLarge,
			Message: fmt.Sprintf("Image too large. Max allowed size is %dMB.", maxSizeMB),
		}
	}

	return nil
}

// ServiceError is a failed response from the remote service.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

const genericFailure = "Processing failed."

// UserMessage returns the text to surface for err: the service message verbatim when there is one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	if err.Error() == "" {
		return genericFailure
	}

	return err.Error()
}
