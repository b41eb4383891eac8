// Package chip8 implements the CHIP-8 virtual machine core: the 4KB address
// space, the register file, the call stack, the countdown timers, the
// monochrome display buffer and the keypad state, together with the
// instruction decoder and executor.
package chip8

import (
	"fmt"
	"math/rand"
	"time"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter and font data (512 bytes)
//	0x200-0xFFF: User program space (3584 bytes)
//
// The display buffer (64×32 pixels) and the call stack are maintained
// separately from the 4KB main memory address space.
const (
	// MemorySize is the size of the CHIP-8 address space in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs begin execution.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = 0xFFF

	// FontAddress is the memory address of the built-in hex digit font.
	FontAddress = 0x0

	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16

	// DisplayWidth and DisplayHeight describe the monochrome display buffer.
	DisplayWidth  = 64
	DisplayHeight = 32
)

// fontGlyphSize is the size of one hex digit sprite in bytes.
const fontGlyphSize = 5

// font contains the 16 built-in 5-byte sprites for the hex digits 0-F.
// Programs reference them through the LD F,Vx instruction.
var font = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Frame is the 64×32 monochrome display buffer, indexed [row][column].
type Frame [DisplayHeight][DisplayWidth]bool

// Machine is the complete CHIP-8 machine state. It is owned by a single
// run loop; the executor mutates it through Step and the input collaborator
// writes key state through SetKey.
type Machine struct {
	V  [16]byte // general purpose registers, V[0xF] doubles as the flag register
	I  uint16   // index register, 12 bit address semantics
	PC uint16

	Memory [MemorySize]byte

	DelayTimer byte
	SoundTimer byte

	Display Frame
	Keys    [16]bool

	stack [StackDepth]uint16
	sp    int8 // -1 marks the empty stack

	waitReg int // register waiting for a key press through LD Vx,K, -1 if none

	rand *rand.Rand
}

// New returns a machine with the font table installed, the program counter
// at the program start address and the call stack empty.
func New() *Machine {
	m := &Machine{
		PC:      ProgramStart,
		sp:      -1,
		waitReg: -1,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(m.Memory[FontAddress:], font[:])
	return m
}

// LoadROM copies a program into memory at the program start address.
// ROMs larger than the available program space are rejected.
func (m *Machine) LoadROM(rom []byte) error {
	if len(rom) > MemorySize-ProgramStart {
		return fmt.Errorf("%w: %d bytes exceed the %d byte program space",
			ErrROMTooLarge, len(rom), MemorySize-ProgramStart)
	}
	copy(m.Memory[ProgramStart:], rom)
	return nil
}

// Fetch reads the 16 bit big endian instruction word at the given address.
func (m *Machine) Fetch(address uint16) uint16 {
	return uint16(m.readMem(address))<<8 | uint16(m.readMem(address+1))
}

// Frame returns the display buffer for the render collaborator.
// The renderer must treat the frame as read-only.
func (m *Machine) Frame() *Frame {
	return &m.Display
}

// SetKey records a key transition of the 16-key virtual keypad.
// Only the input collaborator writes key state.
func (m *Machine) SetKey(key byte, pressed bool) {
	m.Keys[key&0xF] = pressed
}

// WaitingForKey reports whether a LD Vx,K instruction suspended execution
// until the next key press.
func (m *Machine) WaitingForKey() bool {
	return m.waitReg >= 0
}

// FinishKeyWait stores the pressed key into the register requested by
// LD Vx,K and resumes instruction execution.
func (m *Machine) FinishKeyWait(key byte) {
	m.V[m.waitReg] = key & 0xF
	m.waitReg = -1
}

// TickTimers decrements the delay and sound timers by one, stopping at 0.
// The run loop calls this on the 60 Hz wall clock cadence, independent of
// the instruction rate.
func (m *Machine) TickTimers() {
	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
}

// readMem reads a memory byte, masking the address to the 4KB space.
func (m *Machine) readMem(address uint16) byte {
	return m.Memory[address&MaxAddress]
}

// writeMem writes a memory byte, masking the address to the 4KB space.
func (m *Machine) writeMem(address uint16, value byte) {
	m.Memory[address&MaxAddress] = value
}

// push stores a return address on the call stack. Exceeding the maximum
// call depth is a fatal fault.
func (m *Machine) push(address uint16) error {
	if m.sp >= StackDepth-1 {
		return fmt.Errorf("%w: call at address %04X", ErrStackOverflow, m.PC)
	}
	m.sp++
	m.stack[m.sp] = address
	return nil
}

// pop loads the most recent return address from the call stack.
// Returning with an empty stack is a fatal fault.
func (m *Machine) pop() (uint16, error) {
	if m.sp < 0 {
		return 0, fmt.Errorf("%w: ret at address %04X", ErrStackUnderflow, m.PC)
	}
	address := m.stack[m.sp]
	m.sp--
	return address, nil
}
