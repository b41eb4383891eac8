// Package gui implements the window renderer and keyboard input
// collaborator on top of the pixel library.
package gui

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/emulator"
)

// keypad maps the conventional 4x4 block of physical keys to the virtual
// 16-key keypad.
var keypad = map[pixelgl.Button]byte{
	pixelgl.Key1: 0x1, pixelgl.Key2: 0x2, pixelgl.Key3: 0x3, pixelgl.Key4: 0xC,
	pixelgl.KeyQ: 0x4, pixelgl.KeyW: 0x5, pixelgl.KeyE: 0x6, pixelgl.KeyR: 0xD,
	pixelgl.KeyA: 0x7, pixelgl.KeyS: 0x8, pixelgl.KeyD: 0x9, pixelgl.KeyF: 0xE,
	pixelgl.KeyZ: 0xA, pixelgl.KeyX: 0x0, pixelgl.KeyC: 0xB, pixelgl.KeyV: 0xF,
}

// Window renders the display buffer into a scaled window and surfaces key
// transitions. It implements both emulator.Renderer and emulator.Input.
// It must be used from the main thread, inside pixelgl.Run.
type Window struct {
	win   *pixelgl.Window
	imd   *imdraw.IMDraw
	scale float64

	pressed [16]bool // last observed keypad state, to derive transitions
	pending []emulator.Event
}

// NewWindow opens the emulator window. The scale factor selects the number
// of window pixels per display cell.
func NewWindow(title string, scale int) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title: title,
		Bounds: pixel.R(0, 0,
			float64(chip8.DisplayWidth*scale), float64(chip8.DisplayHeight*scale)),
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	return &Window{
		win:   win,
		imd:   imdraw.New(nil),
		scale: float64(scale),
	}, nil
}

// Render draws the frame as filled rectangles, one per lit cell.
// The buffer row order is top to bottom, the window origin is bottom left.
func (w *Window) Render(frame *chip8.Frame) error {
	w.win.Clear(colornames.Black)
	w.imd.Clear()

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if !frame[y][x] {
				continue
			}

			w.imd.Color = colornames.White
			w.imd.Push(
				pixel.V(float64(x)*w.scale, float64(chip8.DisplayHeight-1-y)*w.scale),
				pixel.V(float64(x+1)*w.scale, float64(chip8.DisplayHeight-y)*w.scale),
			)
			w.imd.Rectangle(0)
		}
	}

	w.imd.Draw(w.win)
	w.win.Update()
	return nil
}

// Poll returns the next pending key transition. pixel exposes key state,
// not events, so transitions are derived by comparing against the
// previously observed state; surplus transitions stay queued for the
// following iterations. Closing the window or pressing escape quits.
func (w *Window) Poll() (emulator.Event, bool) {
	if len(w.pending) == 0 {
		w.refresh()
	}
	if len(w.pending) == 0 {
		return emulator.Event{}, false
	}

	event := w.pending[0]
	w.pending = w.pending[1:]
	return event, true
}

// refresh pumps the window event queue and queues all key state changes.
func (w *Window) refresh() {
	w.win.UpdateInput()

	if w.win.Closed() || w.win.Pressed(pixelgl.KeyEscape) {
		w.pending = append(w.pending, emulator.Event{Type: emulator.Quit})
		return
	}

	for key, virtual := range keypad {
		down := w.win.Pressed(key)
		if down == w.pressed[virtual] {
			continue
		}
		w.pressed[virtual] = down

		eventType := emulator.KeyUp
		if down {
			eventType = emulator.KeyDown
		}
		w.pending = append(w.pending, emulator.Event{Type: eventType, Key: virtual})
	}
}
