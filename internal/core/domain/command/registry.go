package command

import (
	"errors"
	"sort"
	"strings"
	"unmark/internal/core/port"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoCommands     = errors.New("no commands registered")
	ErrUnknownCommand = errors.New("unknown command")
)

// Registry maps slash commands such as /clean to their handlers. The zero value is ready to use.
type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	name := ParseCommand(handler.GetCommand())
	log.Info().Str("command", name).Msg("registered bot command")
	r.commands[name] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	if len(r.commands) == 0 {
		return nil, ErrNoCommands
	}

	handler, ok := r.commands[command]
	if !ok {
		log.Debug().Str("command", command).Msg("unknown bot command")
		return nil, ErrUnknownCommand
	}

	return handler, nil
}

// ListCommands returns the registered commands in lexical order.
func (r *Registry) ListCommands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ParseCommand returns the lower-cased command word, without a trailing @botname.
func ParseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}
