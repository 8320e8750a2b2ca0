package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%#v", MEMORY_SIZE),
	"PROGRAM_START":  fmt.Sprintf("%#v", PROGRAM_START),
	"FONT_ADDRESS":   fmt.Sprintf("%#v", FONT_ADDRESS),
	"STACK_LIMIT":    fmt.Sprintf("%#v", STACK_LIMIT),
	"DISPLAY_WIDTH":  fmt.Sprintf("%#v", DISPLAY_WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%#v", DISPLAY_HEIGHT),
}

// Cpu is the full addressable state of the CHIP-8 virtual machine. One
// logical thread owns it exclusively; every Execute call mutates it in
// place, immediately, with no hidden state elsewhere.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]byte // Byte-addressable memory.
	Register [16]uint8         // v0-vf; vf doubles as the carry/borrow/collision flag.
	Index    uint16            // Index register for memory-indirect opcodes.
	Ip       uint16            // Instruction pointer.
	Stack    Stack             // Call stack.

	DelayTimer uint8 // Countdown timer, decremented at 60 Hz by the driver.
	SoundTimer uint8 // Countdown timer; audible while nonzero.

	Keypad [16]bool                             // Key state, mutated by the input collaborator.
	Video  [DISPLAY_WIDTH * DISPLAY_HEIGHT]bool // Row-major framebuffer, index = x + 64*y.

	Rand *rand.Rand // Random source for the rnd opcode.

	Ticks int // Instruction counter since reset.
}

// NewCpu creates a new machine in its power-on state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset returns the machine to its power-on state:
// - Clears memory, registers, stack, timers, keypad, and framebuffer.
// - Installs the builtin font glyphs at FONT_ADDRESS.
// - Sets the instruction pointer to PROGRAM_START.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Index = 0
	cpu.Ip = PROGRAM_START
	cpu.Stack.Reset()
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	clear(cpu.Keypad[:])
	clear(cpu.Video[:])
	cpu.Ticks = 0

	copy(cpu.Memory[FONT_ADDRESS:], fontset[:])

	if cpu.Rand == nil {
		cpu.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("   ip: 0x%03x\n    i: 0x%03x\n", cpu.Ip, cpu.Index)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("   v%x: 0x%02x\n", n, val)
	}

	strval := "---"
	top, ok := cpu.Stack.Peek()
	if ok {
		strval = fmt.Sprintf("0x%03x (%v deep)", top, len(cpu.Stack.Data))
	}
	text += fmt.Sprintf("stack: %v\n", strval)
	text += fmt.Sprintf("   dt: %v\n   st: %v\n", cpu.DelayTimer, cpu.SoundTimer)

	return
}

// Load copies program bytes into memory at PROGRAM_START. On failure the
// machine state is left untouched; the caller decides whether to retry
// with a different program.
func (cpu *Cpu) Load(program []byte) (err error) {
	if PROGRAM_START+len(program) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	copy(cpu.Memory[PROGRAM_START:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %v bytes at 0x%03x", len(program), PROGRAM_START)
	}

	return
}

// Fetch reads the two bytes at the instruction pointer as a big-endian
// instruction word and advances the pointer past them. A fetch that
// would read past the end of memory fails rather than wrapping.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if int(cpu.Ip)+1 >= MEMORY_SIZE {
		err = ErrIpRange
		return
	}

	code = Code(uint16(cpu.Memory[cpu.Ip])<<8 | uint16(cpu.Memory[cpu.Ip+1]))
	cpu.Ip += 2

	return
}

// Tick executes a single fetch-decode-execute cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	return cpu.Execute(code)
}

// TickTimers decrements both countdown timers, floored at zero. The
// driver calls this once per display frame at a fixed 60 Hz cadence,
// decoupled from the instruction rate.
func (cpu *Cpu) TickTimers() {
	if cpu.DelayTimer > 0 {
		cpu.DelayTimer -= 1
	}

	if cpu.SoundTimer > 0 {
		cpu.SoundTimer -= 1
	}
}

// SetKey records a key transition from the input collaborator. The key
// index space is the 16-key pad; mapping physical events onto it is the
// collaborator's concern.
func (cpu *Cpu) SetKey(key uint8, pressed bool) {
	cpu.Keypad[key&0xF] = pressed
}

// Display exposes the framebuffer to the presentation collaborator. The
// core defines only set/unset pixel state; scaling and coloring belong
// to the collaborator.
func (cpu *Cpu) Display() []bool {
	return cpu.Video[:]
}
