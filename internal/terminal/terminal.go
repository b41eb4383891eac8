// Package terminal implements a text mode frontend: the display buffer is
// rendered with ANSI escape sequences and key input is read from the
// terminal in raw mode.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/emulator"
)

// keyHoldDuration compensates for terminals reporting key presses but no
// key releases: a pressed key is released again after this duration passes
// without a repeated press.
const keyHoldDuration = 150 * time.Millisecond

const escapeKey = 0x1B

// keypad maps the conventional 4x4 block of physical keys to the virtual
// 16-key keypad.
var keypad = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal renders the display buffer to stdout and reads keypad input from
// stdin in raw mode. It implements both emulator.Renderer and emulator.Input.
type Terminal struct {
	original unix.Termios // terminal configuration to restore on close

	input     io.Reader
	keyBuffer chan byte
	holds     [16]time.Time // pending release deadline per virtual key
}

// New configures the terminal for raw keyboard input and starts the
// stdin reader.
func New() (*Terminal, error) {
	t := &Terminal{
		input:     os.Stdin,
		keyBuffer: make(chan byte, 16),
	}

	if err := termios.Tcgetattr(os.Stdin.Fd(), &t.original); err != nil {
		return nil, fmt.Errorf("reading terminal configuration: %w", err)
	}
	raw := t.original
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &raw); err != nil {
		return nil, fmt.Errorf("enabling raw mode: %w", err)
	}

	fmt.Print("\x1b[2J\x1b[?25l") // clear screen, hide cursor

	go t.readKeys()
	return t, nil
}

// Close restores the terminal configuration.
func (t *Terminal) Close() error {
	fmt.Print("\x1b[?25h\n") // show cursor again
	if err := termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &t.original); err != nil {
		return fmt.Errorf("restoring terminal configuration: %w", err)
	}
	return nil
}

// readKeys forwards stdin bytes to the key buffer. The goroutine stops when
// stdin reports an error, like the end of a redirected input.
func (t *Terminal) readKeys() {
	buf := make([]byte, 1)
	for {
		n, err := t.input.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		t.keyBuffer <- buf[0]
	}
}

// Render draws the frame with two characters per cell, repainting in place
// by homing the cursor instead of clearing the screen.
func (t *Terminal) Render(frame *chip8.Frame) error {
	var sb strings.Builder
	sb.WriteString("\x1b[H")

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if frame[y][x] {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}

	if _, err := os.Stdout.WriteString(sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Poll returns the next key transition. Presses come from the stdin reader,
// releases are synthesized when a key's hold duration expires. Escape quits.
func (t *Terminal) Poll() (emulator.Event, bool) {
	select {
	case key := <-t.keyBuffer:
		if key == escapeKey {
			return emulator.Event{Type: emulator.Quit}, true
		}
		if virtual, ok := keypad[key]; ok {
			t.holds[virtual] = time.Now().Add(keyHoldDuration)
			return emulator.Event{Type: emulator.KeyDown, Key: virtual}, true
		}
	default:
	}

	now := time.Now()
	for virtual, deadline := range t.holds {
		if deadline.IsZero() || now.Before(deadline) {
			continue
		}
		t.holds[virtual] = time.Time{}
		return emulator.Event{Type: emulator.KeyUp, Key: byte(virtual)}, true
	}

	return emulator.Event{}, false
}
