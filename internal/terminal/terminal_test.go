package terminal

import (
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"

	"github.com/retroenv/chip8emu/internal/emulator"
)

func TestReadKeysStopsAtEndOfInput(t *testing.T) {
	term := &Terminal{
		input:     strings.NewReader("wx"),
		keyBuffer: make(chan byte, 16),
	}

	done := make(chan struct{})
	go func() {
		term.readKeys()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not stop at end of input")
	}

	assert.Equal(t, byte('w'), <-term.keyBuffer)
	assert.Equal(t, byte('x'), <-term.keyBuffer)
	assert.Equal(t, 0, len(term.keyBuffer))
}

func TestPollKeyTransitions(t *testing.T) {
	term := &Terminal{keyBuffer: make(chan byte, 16)}
	term.keyBuffer <- 'w'

	event, ok := term.Poll()
	assert.True(t, ok)
	assert.Equal(t, emulator.KeyDown, event.Type)
	assert.Equal(t, byte(0x5), event.Key)

	// move the hold deadline into the past to trigger the release
	term.holds[0x5] = time.Now().Add(-time.Millisecond)

	event, ok = term.Poll()
	assert.True(t, ok)
	assert.Equal(t, emulator.KeyUp, event.Type)
	assert.Equal(t, byte(0x5), event.Key)

	_, ok = term.Poll()
	assert.False(t, ok)
}

func TestPollEscapeQuits(t *testing.T) {
	term := &Terminal{keyBuffer: make(chan byte, 16)}
	term.keyBuffer <- escapeKey

	event, ok := term.Poll()
	assert.True(t, ok)
	assert.Equal(t, emulator.Quit, event.Type)
}
