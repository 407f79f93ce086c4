package metrics

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFailedUnits(t *testing.T) {
	out := "foo.service loaded failed failed Foo daemon\n" +
		"bar.timer   loaded failed failed Bar timer\n" +
		"\n"

	assert.Equal(t, []string{"foo.service", "bar.timer"}, ParseFailedUnits(out))
	assert.Empty(t, ParseFailedUnits(""))
}

func TestFailedUnits_Render(t *testing.T) {
	assert.Equal(t,
		"\x1b[31mfoo.service\x1b[0m\n\x1b[31mbar.timer\x1b[0m\n",
		FailedUnits{"foo.service", "bar.timer"}.Render(ansi))
	assert.Equal(t, "", FailedUnits(nil).Render(ansi))
}

type recordedCall struct {
	name string
	args []string
}

func TestSystemdCollector_Collect(t *testing.T) {
	tests := []struct {
		name      string
		user      bool
		wantCalls []string
		wantUnits FailedUnits
	}{
		{
			name:      "system only",
			user:      false,
			wantCalls: []string{"--no-legend --plain --failed"},
			wantUnits: FailedUnits{"sys.service"},
		},
		{
			name: "system and user",
			user: true,
			wantCalls: []string{
				"--no-legend --plain --failed",
				"--user --no-legend --plain --failed",
			},
			wantUnits: FailedUnits{"sys.service", "usr.service"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []recordedCall
			c := &SystemdCollector{
				User: tt.user,
				Run: func(_ context.Context, name string, args ...string) (string, error) {
					calls = append(calls, recordedCall{name: name, args: args})
					if len(args) > 0 && args[0] == "--user" {
						return "usr.service loaded failed failed User\n", nil
					}
					return "sys.service loaded failed failed System\n", nil
				},
			}

			data, err := c.Collect(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnits, data)

			require.Len(t, calls, len(tt.wantCalls))
			for i, call := range calls {
				assert.Equal(t, "systemctl", call.name)
				assert.Equal(t, tt.wantCalls[i], strings.Join(call.args, " "))
			}
		})
	}
}

func TestSystemdCollector_NothingFailed(t *testing.T) {
	c := &SystemdCollector{
		Run: func(context.Context, string, ...string) (string, error) { return "", nil },
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", data.Render(ansi))
}

func TestSystemdCollector_CommandFails(t *testing.T) {
	boom := stderrors.New("exit status 1")
	c := &SystemdCollector{
		Run: func(context.Context, string, ...string) (string, error) { return "", boom },
	}

	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "systemctl --no-legend --plain --failed")
}

func TestCommandExists(t *testing.T) {
	assert.False(t, commandExists(""))
	assert.False(t, commandExists("definitely-not-a-real-command-motd"))
	assert.True(t, commandExists("sh"))
}

func TestRunCmd(t *testing.T) {
	out, err := runCmd(context.Background(), "sh", "-c", "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = runCmd(context.Background(), "sh", "-c", "exit 3")
	assert.Error(t, err)
}
