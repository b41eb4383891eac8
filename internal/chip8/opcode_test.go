package chip8

import (
	"fmt"
	"testing"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeOpcodeFields(t *testing.T) {
	op, ok := decodeOpcode(0x1A23)

	assert.True(t, ok)
	assert.Equal(t, byte(0x1), op.family())
	assert.Equal(t, byte(0xA), op.x)
	assert.Equal(t, byte(0x2), op.y)
	assert.Equal(t, byte(0x3), op.n)
	assert.Equal(t, byte(0x23), op.kk)
	assert.Equal(t, uint16(0xA23), op.nnn)
}

func TestDecodeOpcodeTable(t *testing.T) {
	tests := []struct {
		word uint16
		want *chip8cpu.Instruction
	}{
		{0x00E0, chip8cpu.ClsInst},
		{0x00EE, chip8cpu.RetInst},
		{0x1234, chip8cpu.JpInst},
		{0x2345, chip8cpu.CallInst},
		{0x3A12, chip8cpu.SeInst},
		{0x4A12, chip8cpu.SneInst},
		{0x5AB0, chip8cpu.SeInst},
		{0x6A12, chip8cpu.LdInst},
		{0x7A12, chip8cpu.AddInst},
		{0x8AB0, chip8cpu.LdInst},
		{0x8AB1, chip8cpu.OrInst},
		{0x8AB2, chip8cpu.AndInst},
		{0x8AB3, chip8cpu.XorInst},
		{0x8AB4, chip8cpu.AddInst},
		{0x8AB5, chip8cpu.SubInst},
		{0x8AB6, chip8cpu.ShrInst},
		{0x8AB7, chip8cpu.SubnInst},
		{0x8ABE, chip8cpu.ShlInst},
		{0x9AB0, chip8cpu.SneInst},
		{0xA123, chip8cpu.LdInst},
		{0xB123, chip8cpu.JpInst},
		{0xCA12, chip8cpu.RndInst},
		{0xDAB5, chip8cpu.DrwInst},
		{0xEA9E, chip8cpu.SkpInst},
		{0xEAA1, chip8cpu.SknpInst},
		{0xFA07, chip8cpu.LdInst},
		{0xFA0A, chip8cpu.LdInst},
		{0xFA15, chip8cpu.LdInst},
		{0xFA18, chip8cpu.LdInst},
		{0xFA1E, chip8cpu.AddInst},
		{0xFA29, chip8cpu.LdInst},
		{0xFA33, chip8cpu.LdInst},
		{0xFA55, chip8cpu.LdInst},
		{0xFA65, chip8cpu.LdInst},
	}

	for _, tt := range tests {
		op, ok := decodeOpcode(tt.word)

		assert.True(t, ok, fmt.Sprintf("word %04X should decode", tt.word))
		assert.Equal(t, tt.want.Name, op.ins.Name, fmt.Sprintf("word %04X", tt.word))
	}
}

func TestDecodeOpcodeMiss(t *testing.T) {
	// words that match no entry in the opcode table
	for _, word := range []uint16{0xFFFF, 0xF000, 0x5AB1, 0x8AB8, 0xE0FF} {
		_, ok := decodeOpcode(word)
		assert.False(t, ok, fmt.Sprintf("word %04X should not decode", word))
	}
}
