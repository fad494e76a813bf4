package handler

import (
	"context"
	"strings"
	"time"
	"unmark/internal/core/domain"
	"unmark/internal/core/domain/command"
	"unmark/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// FileResolver turns a Telegram file ID into a download link. *bot.Bot implements it.
type FileResolver interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Command struct {
	commandRegistry port.CommandRegistry
	timeout         time.Duration
	maxBytes        int64
}

func NewCommand(commandRegistry port.CommandRegistry, timeout time.Duration, maxSizeMB int) *Command {
	return &Command{commandRegistry: commandRegistry, timeout: timeout, maxBytes: int64(maxSizeMB) * domain.MB}
}

// Handle is registered for text and photo caption messages starting with a slash.
func (c *Command) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handle(ctx, b, update)
}

func (c *Command) handle(ctx context.Context, files FileResolver, update *models.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := command.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	var replyToMessageID int
	if msg.ReplyToMessage != nil {
		replyToMessageID = msg.ReplyToMessage.ID
	}

	go func() {
		message := &domain.Message{
			ID:               msg.ID,
			ChatID:           msg.Chat.ID,
			Username:         getUserNameFromMessage(msg.From),
			ReplyToMessageID: &replyToMessageID,
			Text:             text,
		}

		if fileID, size := c.findImage(msg); fileID != "" {
			message.ImageURL = resolveURL(ctx, files, fileID)
			message.ImageSize = size
		}

		err := commandHandler.Respond(ctx, c.timeout, message)
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

// findImage picks the image of the message itself, or of the message it replies to.
func (c *Command) findImage(msg *models.Message) (string, int64) {
	if fileID, size := c.imageOf(msg); fileID != "" {
		return fileID, size
	}

	if msg.ReplyToMessage != nil {
		return c.imageOf(msg.ReplyToMessage)
	}

	return "", 0
}

func (c *Command) imageOf(msg *models.Message) (string, int64) {
	if len(msg.Photo) > 0 {
		photo := findLargestImage(msg.Photo, c.maxBytes)
		return photo.FileID, int64(photo.FileSize)
	}

	// images sent as files keep their original quality
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, int64(msg.Document.FileSize)
	}

	return "", 0
}

func resolveURL(ctx context.Context, files FileResolver, fileID string) string {
	f, err := files.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		log.Error().Err(err).Msg("error getting file from telegram api")
		return ""
	}

	return files.FileDownloadLink(f)
}

// findLargestImage returns the biggest rendition within maxBytes. Telegram lists renditions from small to large;
// when none fits, the largest is returned and rejected by validation later.
func findLargestImage(photos []models.PhotoSize, maxBytes int64) models.PhotoSize {
	for i := len(photos) - 1; i >= 0; i-- {
		if int64(photos[i].FileSize) <= maxBytes {
			return photos[i]
		}
	}

	return photos[len(photos)-1]
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
