// Package emulator drives a CHIP-8 machine: the fetch/execute run loop,
// the instruction and timer cadences and the input and render collaborators.
package emulator

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/options"
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
)

// EventType classifies input collaborator events.
type EventType int

// Input event types.
const (
	KeyDown EventType = iota
	KeyUp
	Quit
)

// Event is a single key transition of the 16-key virtual keypad or a quit
// signal. The run loop consumes at most one event per iteration.
type Event struct {
	Type EventType
	Key  byte // virtual keypad code 0x0-0xF, unused for Quit
}

// Renderer presents the display buffer after a draw operation.
// Implementations must treat the frame as read-only.
type Renderer interface {
	Render(frame *chip8.Frame) error
}

// Input surfaces discrete key transitions for the virtual keypad.
// Poll returns the next pending event without blocking; ok is false when
// no event is pending.
type Input interface {
	Poll() (event Event, ok bool)
}

// Emulator ties a machine to its display and input collaborators and owns
// the run loop scheduling.
type Emulator struct {
	logger   *log.Logger
	machine  *chip8.Machine
	renderer Renderer
	input    Input

	instructionDelay time.Duration
	timerDelay       time.Duration
}

// New returns an emulator for the given machine and collaborators.
func New(logger *log.Logger, machine *chip8.Machine, renderer Renderer,
	input Input, opts options.Emulator) *Emulator {

	return &Emulator{
		logger:   logger,
		machine:  machine,
		renderer: renderer,
		input:    input,

		instructionDelay: time.Second / time.Duration(opts.InstructionRate),
		timerDelay:       time.Second / time.Duration(opts.TimerRate),
	}
}

// Run drives the machine until the context is cancelled, the input
// collaborator signals quit or the machine faults. Every iteration polls
// one pending input transition, executes one instruction, hands the frame
// to the renderer after a draw, ticks the timers on their own wall clock
// cadence and sleeps until the next instruction deadline.
//
// A pending LD Vx,K key wait suspends instruction execution only: input
// polling and the timer cadence keep running while the machine waits.
func (e *Emulator) Run(ctx context.Context) error {
	now := time.Now()
	nextInstruction := now
	lastTimerTick := now

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if quit := e.pollInput(); quit {
			return nil
		}

		if !e.machine.WaitingForKey() {
			if err := e.step(); err != nil {
				return err
			}
		}

		if now := time.Now(); now.Sub(lastTimerTick) >= e.timerDelay {
			e.machine.TickTimers()
			lastTimerTick = now
		}

		// sleep until the next instruction deadline instead of spinning;
		// when the renderer fell behind, restart the schedule from now
		nextInstruction = nextInstruction.Add(e.instructionDelay)
		if wait := time.Until(nextInstruction); wait > 0 {
			time.Sleep(wait)
		} else {
			nextInstruction = time.Now()
		}
	}
}

// step executes one instruction and applies the program counter advance
// policy: every instruction advances the program counter by one instruction
// word except the jumps, calls and returns that set it themselves.
func (e *Emulator) step() error {
	pc := e.machine.PC
	ins, err := e.machine.Step()
	if err != nil {
		return err
	}
	e.trace(pc, ins)

	switch ins {
	case chip8cpu.JpInst, chip8cpu.CallInst, chip8cpu.RetInst:
	default:
		e.machine.PC += 2
	}

	if ins == chip8cpu.DrwInst || ins == chip8cpu.ClsInst {
		if err := e.renderer.Render(e.machine.Frame()); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
	}
	return nil
}

// pollInput consumes at most one pending key transition and reports whether
// the input collaborator requested termination. A key press resumes a
// machine waiting in LD Vx,K.
func (e *Emulator) pollInput() bool {
	event, ok := e.input.Poll()
	if !ok {
		return false
	}

	switch event.Type {
	case Quit:
		return true

	case KeyDown:
		e.machine.SetKey(event.Key, true)
		if e.machine.WaitingForKey() {
			e.machine.FinishKeyWait(event.Key)
		}

	case KeyUp:
		e.machine.SetKey(event.Key, false)
	}
	return false
}

// trace logs one executed instruction with the machine state, matching the
// fetch address to the fetched word and register file after execution.
func (e *Emulator) trace(pc uint16, ins *chip8cpu.Instruction) {
	e.logger.Debug("Executed instruction",
		log.String("address", fmt.Sprintf("%04X", pc)),
		log.String("opcode", fmt.Sprintf("%04X", e.machine.Fetch(pc))),
		log.String("instruction", ins.Name),
		log.String("registers", fmt.Sprintf("%d", e.machine.V)),
	)
}
