package command

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"
	"unmark/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestClean_Respond(t *testing.T) {
	photo := pngBytes(t)

	tests := []struct {
		name        string
		message     *domain.Message
		authorized  bool
		withinLimit bool
		fetched     []byte
		fetchErr    error
		removed     []byte
		removeErr   error
		maxSizeMB   int
		wantErr     bool
		wantReply   string
		wantImage   []byte
		wantRemove  bool
		wantCounted int
	}{
		{
			name:        "cleans photo",
			message:     &domain.Message{ID: 1, ChatID: 2, ImageURL: "https://files/photos/a.png", ImageSize: 100},
			authorized:  true,
			withinLimit: true,
			fetched:     photo,
			removed:     []byte("cleaned"),
			maxSizeMB:   10,
			wantImage:   []byte("cleaned"),
			wantRemove:  true,
			wantCounted: 1,
		},
		{
			name:        "unauthorized chat is ignored",
			message:     &domain.Message{ImageURL: "https://files/a.png"},
			authorized:  false,
			withinLimit: true,
			maxSizeMB:   10,
		},
		{
			name:        "limit reached",
			message:     &domain.Message{ImageURL: "https://files/a.png"},
			authorized:  true,
			withinLimit: false,
			maxSizeMB:   10,
		},
		{
			name:        "missing photo",
			message:     &domain.Message{},
			authorized:  true,
			withinLimit: true,
			maxSizeMB:   10,
			wantReply:   "send or reply to a photo: missing image",
		},
		{
			name:        "announced size too large",
			message:     &domain.Message{ImageURL: "https://files/a.png", ImageSize: 15 * domain.MB},
			authorized:  true,
			withinLimit: true,
			maxSizeMB:   10,
			wantReply:   "Image too large. Max allowed size is 10MB.",
		},
		{
			name:        "download fails",
			message:     &domain.Message{ImageURL: "https://files/a.png"},
			authorized:  true,
			withinLimit: true,
			fetchErr:    errors.New("connection reset"),
			maxSizeMB:   10,
			wantErr:     true,
			wantReply:   "failed to download image: connection reset",
		},
		{
			name:        "not an image",
			message:     &domain.Message{ImageURL: "https://files/a.txt"},
			authorized:  true,
			withinLimit: true,
			fetched:     []byte("plain text, not a picture"),
			maxSizeMB:   10,
			wantReply:   "Please select a valid image.",
		},
		{
			name:        "service error is shown verbatim",
			message:     &domain.Message{ImageURL: "https://files/a.png"},
			authorized:  true,
			withinLimit: true,
			fetched:     photo,
			removeErr:   &domain.ServiceError{Status: 422, Message: "bad image"},
			maxSizeMB:   10,
			wantErr:     true,
			wantReply:   "bad image",
			wantRemove:  true,
			wantCounted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remover := &MockRemover{response: tt.removed, err: tt.removeErr}
			fetcher := &MockFetcher{data: tt.fetched, err: tt.fetchErr}
			imageSender := &MockImageSender{}
			textSender := &MockTextSender{}
			tracker := &MockTracker{allow: tt.withinLimit}

			cmd := NewClean(remover, fetcher, imageSender, textSender, &MockAuthorizer{allow: tt.authorized},
				tracker, tt.maxSizeMB, "/clean")

			err := cmd.Respond(t.Context(), time.Second, tt.message)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantReply, textSender.Message)
			assert.Equal(t, tt.wantImage, imageSender.Image)
			assert.Equal(t, tt.wantRemove, remover.Called)
			assert.Equal(t, tt.wantCounted, tracker.requests)
		})
	}
}

func TestClean_Respond_ForwardsUpload(t *testing.T) {
	photo := pngBytes(t)
	remover := &MockRemover{response: []byte("ok")}

	cmd := NewClean(remover, &MockFetcher{data: photo}, &MockImageSender{}, &MockTextSender{},
		&MockAuthorizer{allow: true}, &MockTracker{allow: true}, 10, "/clean")

	err := cmd.Respond(t.Context(), time.Second,
		&domain.Message{ImageURL: "https://api.telegram.org/file/bot123/photos/file_7.png"})
	require.NoError(t, err)

	assert.Equal(t, "file_7.png", remover.Upload.Name)
	assert.Equal(t, "image/png", remover.Upload.MIME)
	assert.Equal(t, int64(len(photo)), remover.Upload.Size)
	assert.Equal(t, photo, remover.Upload.Data)
}

func TestClean_GetCommand(t *testing.T) {
	cmd := NewClean(nil, nil, nil, nil, nil, nil, 10, "/clean")
	assert.Equal(t, "/clean", cmd.GetCommand())
}
