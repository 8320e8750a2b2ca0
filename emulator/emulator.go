// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"time"

	"github.com/ezrec/uchip8/cpu"
	"github.com/ezrec/uchip8/internal"
	"github.com/ezrec/uchip8/io"
)

const (
	FRAME_RATE      = 60 // Display frames (and timer ticks) per second.
	TICKS_PER_FRAME = 10 // Default instructions executed per frame.
)

var _emulator_defines = map[string]string{
	"FRAME_RATE":      fmt.Sprintf("%v", FRAME_RATE),
	"TICKS_PER_FRAME": fmt.Sprintf("%v", TICKS_PER_FRAME),
}

// Emulator drives the CHIP-8 core: program load, input pumping,
// instruction batching, timer ticking, and display hand-off.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the machine simulation.
	Program  *cpu.Program // Optional listing of the loaded program.

	TicksPerFrame int        // Instructions executed per display frame.
	Display       io.Display // Presentation collaborator; may be nil.
	Input         io.Input   // Input collaborator; may be nil.
}

// NewEmulator creates a new emulator around a pristine machine.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:           cpu.NewCpu(),
		TicksPerFrame: TICKS_PER_FRAME,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset restores the machine to power-on state and loads program bytes.
func (emu *Emulator) Reset(rom []byte) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	return emu.Cpu.Load(rom)
}

// LineNo returns the source line number for the current instruction
// pointer, when a program listing is attached.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Frame runs a single display frame: pending input transitions are
// applied, TicksPerFrame instructions execute, both timers tick once,
// and the framebuffer is handed to the display. Input is applied before
// the first fetch so the key test opcodes observe current key state.
func (emu *Emulator) Frame() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Input != nil {
		err = emu.Input.Poll(emu.Cpu.SetKey)
		if err != nil {
			return
		}
	}

	for range emu.TicksPerFrame {
		lineno = emu.LineNo()
		err = emu.Cpu.Tick()
		if err != nil {
			return
		}
	}

	emu.Cpu.TickTimers()

	if emu.Display != nil {
		err = emu.Display.Render(emu.Cpu.Display())
	}

	return
}

// Run paces Frame at the fixed frame cadence until the context is
// cancelled or a frame fails.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	ticker := time.NewTicker(time.Second / FRAME_RATE)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err = emu.Frame()
			if err != nil {
				return
			}
		}
	}
}
