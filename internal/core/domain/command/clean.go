package command

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"
	"unmark/internal/core/domain"
	"unmark/internal/core/port"
	"unmark/internal/core/service"

	"github.com/rs/zerolog/log"
)

// Clean removes the watermark from the photo attached to, or replied to by, the command message.
type Clean struct {
	remover     port.WatermarkRemover
	fetcher     port.FileFetcher
	imageSender port.ImageSender
	textSender  port.TextSender
	authorizer  service.Authorizer
	tracker     service.Tracker
	maxSizeMB   int
	command     string
}

func NewClean(remover port.WatermarkRemover,
	fetcher port.FileFetcher,
	imageSender port.ImageSender,
	textSender port.TextSender,
	authorizer service.Authorizer,
	tracker service.Tracker,
	maxSizeMB int,
	command string) *Clean {
	return &Clean{
		remover:     remover,
		fetcher:     fetcher,
		imageSender: imageSender,
		textSender:  textSender,
		authorizer:  authorizer,
		tracker:     tracker,
		maxSizeMB:   maxSizeMB,
		command:     command,
	}
}

func (c *Clean) GetCommand() string {
	return c.command
}

func (c *Clean) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("imageURL", message.ImageURL).
		Str("command", c.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !c.authorizer.IsAuthorized(ctx, message) || !c.tracker.CheckLimit(ctx, message) {
		return nil
	}

	if message.ImageURL == "" {
		_ = c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("send or reply to a photo: %w", domain.ErrMissingImage),
			message)
		return nil
	}

	// Telegram reports the size up front, so oversized photos are rejected before downloading them.
	if err := domain.ValidateUpload(domain.Upload{MIME: "image/", Size: message.ImageSize}, c.maxSizeMB); err != nil {
		_ = c.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	go c.textSender.SendChatAction(ctx, message.ChatID, domain.SendingPhoto)

	data, err := c.fetcher.Fetch(ctx, message.ImageURL)
	if err != nil {
		return c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to download image: %w", err), message)
	}

	upload := domain.Upload{
		Name: path.Base(message.ImageURL),
		MIME: http.DetectContentType(data),
		Size: int64(len(data)),
		Data: data,
	}

	if err := domain.ValidateUpload(upload, c.maxSizeMB); err != nil {
		l.Info().Err(err).Str("mime", upload.MIME).Msg("rejected upload")
		_ = c.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	c.tracker.AddRequest(message.ChatID)

	cleaned, err := c.remover.Remove(ctx, upload)
	if err != nil {
		l.Error().Err(err).Msg("removal failed")
		return c.textSender.NotifyAndReturnError(ctx, err, message)
	}

	err = c.imageSender.SendImageFileReply(ctx, message, cleaned)
	if err != nil {
		return c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send cleaned image: %w", err), message)
	}

	return nil
}
