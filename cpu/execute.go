package cpu

import (
	"errors"
	"log"
)

// Execute applies a single decoded instruction to the machine state. The
// transition is atomic: every range check happens before the first
// mutation, so a failed instruction reports an error instead of leaving
// partial state behind.
func (cpu *Cpu) Execute(code Code) (err error) {
	// Fetch has already advanced past this instruction.
	at := cpu.Ip - 2

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Code: code, Ip: at}, err)
		}
	}()

	op, err := code.Decode()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%03x: %v", at, code)
	}

	x := code.X()
	y := code.Y()

	switch op {
	case OP_NOP:
		// pass
	case OP_CLS:
		clear(cpu.Video[:])
	case OP_RET:
		addr, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		cpu.Ip = addr
	case OP_JP:
		cpu.Ip = code.Addr()
	case OP_CALL:
		if cpu.Stack.Full() {
			err = ErrStackFull
			return
		}
		cpu.Stack.Push(cpu.Ip)
		cpu.Ip = code.Addr()
	case OP_SE_BYTE:
		if cpu.Register[x] == code.Byte() {
			cpu.Ip += 2
		}
	case OP_SNE_BYTE:
		if cpu.Register[x] != code.Byte() {
			cpu.Ip += 2
		}
	case OP_SE_REG:
		if cpu.Register[x] == cpu.Register[y] {
			cpu.Ip += 2
		}
	case OP_SNE_REG:
		if cpu.Register[x] != cpu.Register[y] {
			cpu.Ip += 2
		}
	case OP_LD_BYTE:
		cpu.Register[x] = code.Byte()
	case OP_ADD_BYTE:
		// Wraps mod 256; no flag.
		cpu.Register[x] += code.Byte()
	case OP_LD_REG:
		cpu.Register[x] = cpu.Register[y]
	case OP_OR:
		cpu.Register[x] |= cpu.Register[y]
	case OP_AND:
		cpu.Register[x] &= cpu.Register[y]
	case OP_XOR:
		cpu.Register[x] ^= cpu.Register[y]
	case OP_ADD_REG:
		sum := uint16(cpu.Register[x]) + uint16(cpu.Register[y])
		flag := uint8(0)
		if sum > 0xFF {
			flag = 1
		}
		cpu.Register[x] = uint8(sum)
		cpu.Register[0xF] = flag
	case OP_SUB:
		// vf = 1 when no borrow occurred.
		flag := uint8(0)
		if cpu.Register[x] >= cpu.Register[y] {
			flag = 1
		}
		diff := cpu.Register[x] - cpu.Register[y]
		cpu.Register[x] = diff
		cpu.Register[0xF] = flag
	case OP_SHR:
		// Save pre-shift LSB in vf. Operates on vx only; vy is decoded
		// but unused, a fixed interpreter-family convention here.
		cpu.Register[0xF] = cpu.Register[x] & 0x1
		cpu.Register[x] >>= 1
	case OP_SUBN:
		// vx = vy - vx, with wraparound when vx > vy.
		cpu.Register[0xF] = 0
		if cpu.Register[y] > cpu.Register[x] {
			cpu.Register[0xF] = 1
		}
		cpu.Register[x] = cpu.Register[y] - cpu.Register[x]
	case OP_SHL:
		// Save pre-shift MSB in vf. Same vx-only convention as shr.
		cpu.Register[0xF] = (cpu.Register[x] & 0x80) >> 7
		cpu.Register[x] <<= 1
	case OP_LD_I:
		cpu.Index = code.Addr()
	case OP_JP_V0:
		cpu.Ip = uint16(cpu.Register[0]) + code.Addr()
	case OP_RND:
		cpu.Register[x] = uint8(cpu.Rand.UintN(256)) & code.Byte()
	case OP_DRW:
		err = cpu.draw(x, y, code.N())
		if err != nil {
			return
		}
	case OP_SKP, OP_SKNP:
		key := cpu.Register[x]
		if key >= uint8(len(cpu.Keypad)) {
			err = ErrKeyInvalid
			return
		}
		if cpu.Keypad[key] == (op == OP_SKP) {
			cpu.Ip += 2
		}
	case OP_LD_DT:
		cpu.Register[x] = cpu.DelayTimer
	case OP_LD_KEY:
		// Busy-wait encoded as instruction repetition: with no key down,
		// the pointer rewinds so this same instruction executes again on
		// the next cycle while the driver keeps pumping input and timers.
		pressed := false
		for n, down := range cpu.Keypad {
			if down {
				cpu.Register[x] = uint8(n)
				pressed = true
				break
			}
		}
		if !pressed {
			cpu.Ip = at
		}
	case OP_ST_DT:
		cpu.DelayTimer = cpu.Register[x]
	case OP_ST_ST:
		cpu.SoundTimer = cpu.Register[x]
	case OP_ADD_I:
		// Wraps mod 65536.
		cpu.Index += uint16(cpu.Register[x])
	case OP_LD_FONT:
		cpu.Index = FONT_ADDRESS + FONT_HEIGHT*uint16(cpu.Register[x])
	case OP_LD_BCD:
		if int(cpu.Index)+2 >= MEMORY_SIZE {
			err = ErrIndexRange
			return
		}
		value := cpu.Register[x]
		cpu.Memory[cpu.Index] = value / 100
		cpu.Memory[cpu.Index+1] = (value / 10) % 10
		cpu.Memory[cpu.Index+2] = value % 10
	case OP_ST_REGS:
		if int(cpu.Index)+int(x) >= MEMORY_SIZE {
			err = ErrIndexRange
			return
		}
		copy(cpu.Memory[cpu.Index:], cpu.Register[:int(x)+1])
	case OP_LD_REGS:
		if int(cpu.Index)+int(x) >= MEMORY_SIZE {
			err = ErrIndexRange
			return
		}
		copy(cpu.Register[:int(x)+1], cpu.Memory[cpu.Index:])
	}

	cpu.Ticks += 1

	return
}

// draw XORs an 8-wide, rows-tall sprite read from memory at the index
// register onto the framebuffer at (vx, vy). Each coordinate wraps
// independently per axis, per pixel. vf reports a collision: 1 when any
// pixel toggled from set to unset, else 0.
func (cpu *Cpu) draw(x, y, rows uint8) (err error) {
	if int(cpu.Index)+int(rows) > MEMORY_SIZE {
		err = ErrIndexRange
		return
	}

	left := uint16(cpu.Register[x])
	top := uint16(cpu.Register[y])

	flipped := false
	for row := uint16(0); row < uint16(rows); row++ {
		bits := cpu.Memory[cpu.Index+row]

		for col := uint16(0); col < 8; col++ {
			if bits&(0b1000_0000>>col) == 0 {
				continue
			}

			px := (left + col) % DISPLAY_WIDTH
			py := (top + row) % DISPLAY_HEIGHT

			pixel := px + DISPLAY_WIDTH*py
			flipped = flipped || cpu.Video[pixel]
			cpu.Video[pixel] = !cpu.Video[pixel]
		}
	}

	if flipped {
		cpu.Register[0xF] = 1
	} else {
		cpu.Register[0xF] = 0
	}

	return
}
