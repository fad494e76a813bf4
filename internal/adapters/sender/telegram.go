package sender

import (
	"bytes"
	"context"
	"fmt"
	"time"
	"unmark/internal/core/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// TelegramBot is the subset of *bot.Bot the sender relies on.
type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

type Telegram struct {
	bot TelegramBot
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot}
}

const TelegramMessageLimit = 4096

func replyTo(message *domain.Message) *models.ReplyParameters {
	return &models.ReplyParameters{
		MessageID: message.ID,
		ChatID:    message.ChatID,
	}
}

// SendMessageReply sends text as a reply, split into chunks of at most TelegramMessageLimit bytes. It returns the ID
// of the first message sent.
func (s *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	firstID := 0
	for i, chunk := range chunkText(text, TelegramMessageLimit) {
		sent, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          message.ChatID,
			Text:            chunk,
			ReplyParameters: replyTo(message),
		})
		if err != nil {
			return firstID, fmt.Errorf("failed to send message: %w", err)
		}

		if i == 0 && sent != nil {
			firstID = sent.ID
		}
	}

	return firstID, nil
}

// chunkText splits text on rune boundaries into pieces no longer than limit bytes.
func chunkText(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	start, size := 0, 0
	for i, r := range text {
		n := len(string(r))
		if size+n > limit {
			chunks = append(chunks, text[start:i])
			start, size = i, 0
		}
		size += n
	}

	return append(chunks, text[start:])
}

// SendImageFileReply sends the cleaned image as a document so Telegram does not recompress it.
func (s *Telegram) SendImageFileReply(ctx context.Context, message *domain.Message, file []byte) error {
	_, err := s.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: message.ChatID,
		Document: &models.InputFileUpload{
			Filename: fmt.Sprintf("cleaned_%d.png", message.ID),
			Data:     bytes.NewReader(file),
		},
		ReplyParameters: replyTo(message),
	})
	if err != nil {
		log.Error().Err(err).Int("messageId", message.ID).Msg("failed to send image response")
		return fmt.Errorf("failed to send document: %w", err)
	}

	return nil
}

// NotifyAndReturnError replies with the user-facing text of err. It returns err, or the send error if the reply
// could not be delivered.
func (s *Telegram) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	_, sendErr := s.SendMessageReply(ctx, message, domain.UserMessage(err))
	if sendErr != nil {
		log.Error().Err(sendErr).AnErr("cause", err).Msg("failed to notify user about error")
		return sendErr
	}

	return err
}

const ChatActionRepeatSeconds = 5

var chatActionInterval = ChatActionRepeatSeconds * time.Second

// SendChatAction repeats the chat action until ctx is done or sending fails.
func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	chatAction := models.ChatActionTyping
	if action == domain.SendingPhoto {
		chatAction = models.ChatActionUploadDocument
	}

	log.Debug().Int64("chatId", chatID).Msg("starting action routine")

	ticker := time.NewTicker(chatActionInterval)
	defer ticker.Stop()

	for {
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			log.Debug().Err(err).Int64("chatId", chatID).Msg("stopping action routine")
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatId", chatID).Msg("done, stopping action routine")
			return
		case <-ticker.C:
		}
	}
}
