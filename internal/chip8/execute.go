package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Step fetches, decodes and executes the instruction at the program counter.
// It returns the executed instruction so the run loop can apply the program
// counter advance policy and emit an execution trace. Step itself moves the
// program counter only through control flow and satisfied skip conditions;
// the unconditional advance after non-control-transfer instructions is the
// run loop's responsibility.
func (m *Machine) Step() (*chip8cpu.Instruction, error) {
	word := m.Fetch(m.PC)
	op, ok := decodeOpcode(word)
	if !ok {
		return nil, InvalidInstructionError{Address: m.PC, Opcode: word}
	}
	if err := m.execute(op); err != nil {
		return nil, err
	}
	return op.ins, nil
}

// execute dispatches on the decoded instruction. Instructions that occupy
// several opcode families (LD, ADD, SE, SNE, JP) select their variant by
// the family and low byte fields, mirroring the opcode table selectors.
func (m *Machine) execute(op opcode) error {
	x, y := op.x, op.y

	switch op.ins {
	case chip8cpu.ClsInst:
		m.Display = Frame{}

	case chip8cpu.RetInst:
		address, err := m.pop()
		if err != nil {
			return err
		}
		m.PC = address

	case chip8cpu.JpInst:
		m.PC = op.nnn
		if op.family() == 0xB {
			m.PC += uint16(m.V[0])
		}

	case chip8cpu.CallInst:
		if err := m.push(m.PC + opcodeSize); err != nil {
			return err
		}
		m.PC = op.nnn

	case chip8cpu.SeInst:
		if op.family() == 0x3 {
			m.skip(m.V[x] == op.kk)
		} else {
			m.skip(m.V[x] == m.V[y])
		}

	case chip8cpu.SneInst:
		if op.family() == 0x4 {
			m.skip(m.V[x] != op.kk)
		} else {
			m.skip(m.V[x] != m.V[y])
		}

	case chip8cpu.LdInst:
		m.executeLoad(op)

	case chip8cpu.AddInst:
		m.executeAdd(op)

	case chip8cpu.OrInst:
		m.V[x] |= m.V[y]

	case chip8cpu.AndInst:
		m.V[x] &= m.V[y]

	case chip8cpu.XorInst:
		m.V[x] ^= m.V[y]

	case chip8cpu.SubInst:
		m.sub(x, y)

	case chip8cpu.SubnInst:
		// the reference interpreters route SUBN through SUB with swapped
		// operands, storing the result in Vy
		m.sub(y, x)

	case chip8cpu.ShrInst:
		m.V[0xF] = m.V[x] & 0x1
		m.V[x] >>= 1

	case chip8cpu.ShlInst:
		m.V[0xF] = 0
		if m.V[x]&0x80 != 0 {
			m.V[0xF] = 1
		}
		m.V[x] <<= 1

	case chip8cpu.RndInst:
		m.V[x] = byte(m.rand.Intn(256)) & op.kk

	case chip8cpu.DrwInst:
		m.draw(x, y, op.n)

	case chip8cpu.SkpInst:
		m.skip(m.Keys[m.V[x]&0xF])

	case chip8cpu.SknpInst:
		m.skip(!m.Keys[m.V[x]&0xF])

	default:
		// machine routines like SYS are not supported, reject any table
		// entry without a handler instead of skipping it silently
		return InvalidInstructionError{Address: m.PC, Opcode: op.word}
	}

	return nil
}

// executeLoad handles the LD variants of the 6, 8, A and F opcode families.
func (m *Machine) executeLoad(op opcode) {
	x := op.x

	switch op.family() {
	case 0x6: // LD Vx, kk
		m.V[x] = op.kk
	case 0x8: // LD Vx, Vy
		m.V[x] = m.V[op.y]
	case 0xA: // LD I, nnn
		m.I = op.nnn
	case 0xF:
		switch op.kk {
		case 0x07: // LD Vx, DT
			m.V[x] = m.DelayTimer
		case 0x0A: // LD Vx, K: suspend until the run loop observes a key press
			m.waitReg = int(x)
		case 0x15: // LD DT, Vx
			m.DelayTimer = m.V[x]
		case 0x18: // LD ST, Vx
			m.SoundTimer = m.V[x]
		case 0x29: // LD F, Vx
			m.I = FontAddress + fontGlyphSize*uint16(m.V[x])
		case 0x33: // LD B, Vx: BCD digits at I, I+1, I+2
			m.writeMem(m.I, m.V[x]/100)
			m.writeMem(m.I+1, m.V[x]/10%10)
			m.writeMem(m.I+2, m.V[x]%10)
		case 0x55: // LD [I], Vx
			for i := byte(0); i <= x; i++ {
				m.writeMem(m.I+uint16(i), m.V[i])
			}
		case 0x65: // LD Vx, [I]
			for i := byte(0); i <= x; i++ {
				m.V[i] = m.readMem(m.I + uint16(i))
			}
		}
	}
}

// executeAdd handles the ADD variants of the 7, 8 and F opcode families.
func (m *Machine) executeAdd(op opcode) {
	x := op.x

	switch op.family() {
	case 0x7: // ADD Vx, kk wraps silently, the flag register is untouched
		m.V[x] += op.kk
	case 0x8: // ADD Vx, Vy sets VF on carry, then stores the wrapped sum
		sum := uint16(m.V[x]) + uint16(m.V[op.y])
		m.V[0xF] = 0
		if sum > 0xFF {
			m.V[0xF] = 1
		}
		m.V[x] = byte(sum)
	case 0xF: // ADD I, Vx masks the index register to the address space
		m.I = (m.I + uint16(m.V[x])) & MaxAddress
	}
}

// sub stores V[x]-V[y] into V[x] with 8 bit wraparound. The flag register
// follows the reference rule: VF is 1 only for a strictly positive
// difference, so equal operands clear it.
func (m *Machine) sub(x, y byte) {
	diff := int(m.V[x]) - int(m.V[y])
	m.V[0xF] = 0
	if diff > 0 {
		m.V[0xF] = 1
	}
	m.V[x] = byte(diff)
}

// skip advances the program counter over the next instruction when the
// condition holds. Combined with the run loop's unconditional advance a
// satisfied condition yields a net advance of two instructions.
func (m *Machine) skip(condition bool) {
	if condition {
		m.PC += opcodeSize
	}
}
