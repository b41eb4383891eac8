// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8emu/internal/chip8"
)

// ErrEmptyROM is reported for ROM files without any content.
var ErrEmptyROM = errors.New("ROM file is empty")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a CHIP-8 ROM file and validates that it fits into the
// machine's program space. CHIP-8 ROMs are headerless raw binaries, the
// file content is the program image. All load faults are fatal and
// reported before the run loop starts.
func (l *Loader) Load(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", path, err)
	}

	if len(rom) == 0 {
		return nil, fmt.Errorf("ROM file %s: %w", path, ErrEmptyROM)
	}
	if len(rom) > chip8.MemorySize-chip8.ProgramStart {
		return nil, fmt.Errorf("ROM file %s: %w: %d bytes exceed the %d byte program space",
			path, chip8.ErrROMTooLarge, len(rom), chip8.MemorySize-chip8.ProgramStart)
	}

	return rom, nil
}
