package command

import (
	"context"
	"strings"
	"time"
	"unmark/internal/core/domain"
	"unmark/internal/core/port"
)

type Help struct {
	registry port.CommandRegistry
	sender   port.TextSender
	command  string
}

func NewHelp(registry port.CommandRegistry, sender port.TextSender, command string) *Help {
	return &Help{registry: registry, sender: sender, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

const helpText = "Send a photo with the caption /clean, or reply /clean to a photo, to remove its watermark.\n" +
	"Commands: "

func (h *Help) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	_, err := h.sender.SendMessageReply(ctx, message, helpText+strings.Join(h.registry.ListCommands(), ", "))
	return err
}
