package port

import (
	"context"
	"unmark/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to a specified message with the given text and returns the sent message ID and
	// an error if any.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error)
	// SendChatAction sends a specified chat action (e.g., typing, sending photo) to indicate activity in a given chat.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
	// NotifyAndReturnError replies with the user-facing text of err and returns err.
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}

type ImageSender interface {
	// SendImageFileReply sends an image as a file in response to the provided message within the specified context.
	SendImageFileReply(ctx context.Context, message *domain.Message, file []byte) error
}

type FileFetcher interface {
	// Fetch downloads the file behind a URL handed out by the chat platform.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
