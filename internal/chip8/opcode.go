package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// opcode is a fully decoded instruction word.
type opcode struct {
	word uint16

	x, y, n byte   // register index and nibble fields
	kk      byte   // 8 bit immediate
	nnn     uint16 // 12 bit address immediate

	ins *chip8cpu.Instruction
}

// family returns the opcode family, the top nibble of the instruction word.
func (op opcode) family() byte {
	return byte(op.word >> 12)
}

// decodeOpcode splits an instruction word into its nibble fields and looks
// up the matching instruction in the opcode table. The table is indexed by
// the opcode family; within a family an entry matches when the masked word
// equals the entry value. Returns false for words that match no entry.
func decodeOpcode(word uint16) (opcode, bool) {
	op := opcode{
		word: word,
		x:    byte(word >> 8 & 0xF),
		y:    byte(word >> 4 & 0xF),
		n:    byte(word & 0xF),
		kk:   byte(word),
		nnn:  word & 0x0FFF,
	}

	for _, candidate := range chip8cpu.Opcodes[int(op.family())] {
		if candidate.Info.Mask&word == candidate.Info.Value {
			op.ins = candidate.Instruction
			break
		}
	}
	if op.ins == nil {
		return op, false
	}
	return op, true
}
