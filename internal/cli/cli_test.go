package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     options.Program
		wantEmul options.Emulator
	}{
		{
			name: "default flags",
			args: []string{"prog", "game.ch8"},
			want: options.Program{
				ROM:    "game.ch8",
				Cycles: options.DefaultInstructionRate,
				Scale:  options.DefaultScale,
			},
			wantEmul: options.Emulator{
				InstructionRate: options.DefaultInstructionRate,
				TimerRate:       options.DefaultTimerRate,
			},
		},
		{
			name: "custom instruction rate",
			args: []string{"prog", "-cycles", "700", "game.ch8"},
			want: options.Program{
				ROM:    "game.ch8",
				Cycles: 700,
				Scale:  options.DefaultScale,
			},
			wantEmul: options.Emulator{
				InstructionRate: 700,
				TimerRate:       options.DefaultTimerRate,
			},
		},
		{
			name: "terminal frontend with trace",
			args: []string{"prog", "-terminal", "-trace", "game.ch8"},
			want: options.Program{
				ROM:      "game.ch8",
				Cycles:   options.DefaultInstructionRate,
				Scale:    options.DefaultScale,
				Terminal: true,
				Trace:    true,
			},
			wantEmul: options.Emulator{
				InstructionRate: options.DefaultInstructionRate,
				TimerRate:       options.DefaultTimerRate,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			opts, emuOptions, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, opts)
			assert.Equal(t, tt.wantEmul, emuOptions)
		})
	}
}

func TestParseFlagsMissingROM(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, _, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseFlagsArgumentAfterROM(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "game.ch8", "-debug"}

	_, _, err := ParseFlags()
	assert.Error(t, err)
}
