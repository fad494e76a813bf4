package command

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"time"
	"unmark/internal/core/domain"
	"unmark/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Status reports the service endpoint and runtime figures of the running bot.
type Status struct {
	textSender port.TextSender
	endpoint   string
	maxSizeMB  int
	command    string
}

func NewStatus(sender port.TextSender, endpoint string, maxSizeMB int, command string) *Status {
	return &Status{textSender: sender, endpoint: endpoint, maxSizeMB: maxSizeMB, command: command}
}

func (s *Status) GetCommand() string {
	return s.command
}

const kb = 1024
const statusTemplate = `service: %s
max upload: %dMB
allocated mem: %d KB
goroutines: %d
heap: %d KB
compiled with %s for %s-%s
`
const metricCount = 2

func (s *Status) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	data := make([]metrics.Sample, metricCount)
	data[0] = metrics.Sample{Name: "/memory/classes/heap/objects:bytes"}
	data[1] = metrics.Sample{Name: "/memory/classes/total:bytes"}

	metrics.Read(data)

	var goos, goarch string
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	_, err := s.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf(
			statusTemplate,
			s.endpoint,
			s.maxSizeMB,
			data[1].Value.Uint64()/kb,
			runtime.NumGoroutine(),
			data[0].Value.Uint64()/kb,
			runtime.Version(), goos, goarch,
		))
	if err != nil {
		return err
	}

	return nil
}
