package command

import (
	"context"
	"testing"
	"time"
	"unmark/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
}

func (s *stubCommand) Respond(_ context.Context, _ time.Duration, _ *domain.Message) error {
	return nil
}

func (s *stubCommand) GetCommand() string {
	return s.name
}

func botRegistry() *Registry {
	r := &Registry{}
	for _, name := range []string{"/status", "/clean", "/usage", "/help"} {
		r.Register(&stubCommand{name: name})
	}
	return r
}

func TestRegistry_EmptyRejectsLookups(t *testing.T) {
	var r Registry

	_, err := r.Get("/clean")
	require.ErrorIs(t, err, ErrNoCommands)
	assert.Empty(t, r.ListCommands())
}

func TestRegistry_Get(t *testing.T) {
	r := botRegistry()

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{name: "plain command", text: "/clean", want: "/clean"},
		{name: "addressed to the bot in a group", text: "/clean@unmark_bot", want: "/clean"},
		{name: "upper case with trailing words", text: " /USAGE  please ", want: "/usage"},
		{name: "photo caption", text: "/clean\nremove the logo", want: "/clean"},
		{name: "unknown command", text: "/inpaint", wantErr: ErrUnknownCommand},
		{name: "plain text is no command", text: "hello", wantErr: ErrUnknownCommand},
		{name: "empty text", text: "", wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := r.Get(ParseCommand(tt.text))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cmd)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.GetCommand())
		})
	}
}

func TestRegistry_RegisterNormalizesNames(t *testing.T) {
	r := &Registry{}
	r.Register(&stubCommand{name: "/Clean@unmark_bot"})

	cmd, err := r.Get("/clean")
	require.NoError(t, err)
	assert.Equal(t, "/Clean@unmark_bot", cmd.GetCommand())
	assert.Equal(t, []string{"/clean"}, r.ListCommands())
}

func TestRegistry_ReRegisterReplacesHandler(t *testing.T) {
	r := botRegistry()
	replacement := &stubCommand{name: "/clean"}
	r.Register(replacement)

	cmd, err := r.Get("/clean")
	require.NoError(t, err)
	assert.Same(t, replacement, cmd)
	assert.Len(t, r.ListCommands(), 4)
}

func TestRegistry_ListCommandsIsSorted(t *testing.T) {
	assert.Equal(t, []string{"/clean", "/help", "/status", "/usage"}, botRegistry().ListCommands())
}

func TestParseCommand(t *testing.T) {
	tests := map[string]string{
		"/clean":                  "/clean",
		"/clean@unmark_bot":       "/clean",
		"/CLEAN@Unmark_Bot extra": "/clean",
		"\t/status\n":             "/status",
		"/help   me":              "/help",
		"   ":                     "",
		"":                        "",
	}

	for text, want := range tests {
		assert.Equal(t, want, ParseCommand(text), "text %q", text)
	}
}
