package command

import (
	"strings"
	"testing"
	"time"
	"unmark/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatus_Respond_SendsStatus(t *testing.T) {
	mockSender := new(MockSender)
	statusCmd := NewStatus(mockSender, "https://remover.example", 10, "/status")

	msg := &domain.Message{ID: 123, ChatID: 456}

	mockSender.
		On(
			"SendMessageReply",
			mock.Anything,
			msg,
			mock.MatchedBy(func(text string) bool {
				return strings.Contains(text, "service: https://remover.example") &&
					strings.Contains(text, "max upload: 10MB") &&
					strings.Contains(text, "allocated mem:") &&
					strings.Contains(text, "goroutines:") &&
					strings.Contains(text, "heap:") &&
					strings.Contains(text, "compiled with")
			}),
		).
		Return(1, nil)

	err := statusCmd.Respond(t.Context(), time.Second, msg)
	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestStatus_Respond_SendFails(t *testing.T) {
	mockSender := new(MockSender)
	statusCmd := NewStatus(mockSender, "x", 10, "/status")
	mockSender.On("SendMessageReply", mock.Anything, mock.Anything, mock.Anything).Return(0, assert.AnError)

	err := statusCmd.Respond(t.Context(), time.Second, &domain.Message{})
	require.ErrorIs(t, err, assert.AnError)
}
