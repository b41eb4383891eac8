package chip8

import (
	"errors"
	"fmt"
)

// Fatal machine faults. None of them is recoverable: the run loop stops
// immediately when one is reported.
var (
	// ErrROMTooLarge is reported at load time for programs that do not fit
	// into the memory region above the program start address.
	ErrROMTooLarge = errors.New("ROM too large")

	// ErrStackOverflow is reported for a CALL beyond the maximum call depth.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is reported for a RET with an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")
)

// InvalidInstructionError is reported when a fetched instruction word
// matches no entry in the opcode table.
type InvalidInstructionError struct {
	Address uint16 // address the word was fetched from
	Opcode  uint16 // the raw instruction word
}

func (e InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction %04X at address %04X", e.Opcode, e.Address)
}
