package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		rom := []byte{0x60, 0x05, 0x61, 0x03}
		tmpFile := createTempFile(t, rom)

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, rom, data)
	})

	t.Run("load ROM filling the whole program space", func(t *testing.T) {
		rom := make([]byte, chip8.MemorySize-chip8.ProgramStart)
		tmpFile := createTempFile(t, rom)

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, len(rom), len(data))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.ch8")
		assert.Error(t, err)
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})

	t.Run("error on oversized ROM", func(t *testing.T) {
		rom := make([]byte, chip8.MemorySize-chip8.ProgramStart+1)
		tmpFile := createTempFile(t, rom)

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, chip8.ErrROMTooLarge))
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
