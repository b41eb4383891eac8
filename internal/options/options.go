// Package options contains the program options.
package options

// Default cadences of the run loop. Instruction and timer rates are
// independent: the timers tick on the wall clock regardless of how many
// instructions have executed.
const (
	DefaultInstructionRate = 500 // instructions per second
	DefaultTimerRate       = 60  // delay/sound timer ticks per second

	DefaultScale = 10 // window pixels per display cell
)

// Program contains the command line options.
type Program struct {
	ROM string // path of the ROM file to run

	Cycles   int  // instruction rate in instructions per second
	Scale    int  // window scale factor in pixels per display cell
	Terminal bool // render to the terminal instead of a window
	Trace    bool // log every executed instruction
	Debug    bool // enable debug logging
	Quiet    bool // perform operations quietly
}

// Emulator defines options to control the emulator run loop.
type Emulator struct {
	InstructionRate int // instructions per second
	TimerRate       int // delay/sound timer ticks per second
}

// NewEmulator returns a new options instance with default options.
// A non-positive instruction rate selects the default rate.
func NewEmulator(instructionRate int) Emulator {
	opts := Emulator{
		InstructionRate: DefaultInstructionRate,
		TimerRate:       DefaultTimerRate,
	}
	if instructionRate > 0 {
		opts.InstructionRate = instructionRate
	}
	return opts
}
