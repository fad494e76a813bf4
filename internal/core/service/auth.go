package service

import (
	"context"
	"errors"
	"fmt"
	"unmark/internal/core/domain"
	"unmark/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, message *domain.Message) bool
}

// ChatAuthorizer restricts the bot to an allowlist of chats. An empty allowlist lets every chat through.
type ChatAuthorizer struct {
	allowlist []int64
	admin     string
	sender    port.TextSender
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	var list []int64

	err := viper.UnmarshalKey("telegram.allowed_chat_ids", &list)
	if err != nil {
		return nil, errors.New("failed to load allowed chat IDs")
	}

	return &ChatAuthorizer{
		allowlist: list,
		admin:     viper.GetString("telegram.admin_username"),
		sender:    sender,
	}, nil
}

const forbidden = "You are not allowed to use this bot. Please contact @%s with this ID to get access: %d"

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, message *domain.Message) bool {
	if len(a.allowlist) == 0 {
		return true
	}

	for _, id := range a.allowlist {
		if id == message.ChatID {
			return true
		}
	}

	log.Info().Int64("chatId", message.ChatID).Msg("rejected unauthorized chat")

	_, err := a.sender.SendMessageReply(ctx, message, fmt.Sprintf(forbidden, a.admin, message.ChatID))
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
