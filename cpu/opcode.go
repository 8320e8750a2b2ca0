package cpu

import (
	"fmt"
)

// Op identifies a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_NOP      = Op(0)  // nop
	OP_CLS      = Op(1)  // cls
	OP_RET      = Op(2)  // ret
	OP_JP       = Op(3)  // jp
	OP_CALL     = Op(4)  // call
	OP_SE_BYTE  = Op(5)  // se
	OP_SNE_BYTE = Op(6)  // sne
	OP_SE_REG   = Op(7)  // se
	OP_LD_BYTE  = Op(8)  // ld
	OP_ADD_BYTE = Op(9)  // add
	OP_LD_REG   = Op(10) // ld
	OP_OR       = Op(11) // or
	OP_AND      = Op(12) // and
	OP_XOR      = Op(13) // xor
	OP_ADD_REG  = Op(14) // add
	OP_SUB      = Op(15) // sub
	OP_SHR      = Op(16) // shr
	OP_SUBN     = Op(17) // subn
	OP_SHL      = Op(18) // shl
	OP_SNE_REG  = Op(19) // sne
	OP_LD_I     = Op(20) // ld
	OP_JP_V0    = Op(21) // jp
	OP_RND      = Op(22) // rnd
	OP_DRW      = Op(23) // drw
	OP_SKP      = Op(24) // skp
	OP_SKNP     = Op(25) // sknp
	OP_LD_DT    = Op(26) // ld
	OP_LD_KEY   = Op(27) // ld
	OP_ST_DT    = Op(28) // ld
	OP_ST_ST    = Op(29) // ld
	OP_ADD_I    = Op(30) // add
	OP_LD_FONT  = Op(31) // ld
	OP_LD_BCD   = Op(32) // ld
	OP_ST_REGS  = Op(33) // ld
	OP_LD_REGS  = Op(34) // ld
)

// Code represents a single 16-bit instruction word.
type Code uint16

// X returns the first register operand (bits 11-8).
func (code Code) X() uint8 {
	return uint8(code>>8) & 0xF
}

// Y returns the second register operand (bits 7-4).
func (code Code) Y() uint8 {
	return uint8(code>>4) & 0xF
}

// N returns the low nibble operand.
func (code Code) N() uint8 {
	return uint8(code) & 0xF
}

// Byte returns the low byte operand.
func (code Code) Byte() uint8 {
	return uint8(code)
}

// Addr returns the 12-bit address operand.
func (code Code) Addr() uint16 {
	return uint16(code) & 0x0FFF
}

// MakeCodeAddr composes an instruction from a class nibble and a 12-bit
// address.
func MakeCodeAddr(class uint8, addr uint16) Code {
	return Code(uint16(class&0xF)<<12 | addr&0x0FFF)
}

// MakeCodeByte composes an instruction from a class nibble, a register
// operand, and a byte operand.
func MakeCodeByte(class, x, value uint8) Code {
	return MakeCodeAddr(class, uint16(x&0xF)<<8|uint16(value))
}

// MakeCodeReg composes an instruction from a class nibble, two register
// operands, and a selector nibble.
func MakeCodeReg(class, x, y, n uint8) Code {
	return MakeCodeAddr(class, uint16(x&0xF)<<8|uint16(y&0xF)<<4|uint16(n&0xF))
}

// Decode selects the operation for this instruction word by nibble
// pattern. An unknown word is a decode failure, never a silent no-op, so
// that authoring and decoding bugs surface immediately.
func (code Code) Decode() (op Op, err error) {
	switch uint8(code >> 12) {
	case 0x0:
		switch code {
		case 0x0000:
			op = OP_NOP
		case 0x00E0:
			op = OP_CLS
		case 0x00EE:
			op = OP_RET
		default:
			err = ErrOpcodeDecode
		}
	case 0x1:
		op = OP_JP
	case 0x2:
		op = OP_CALL
	case 0x3:
		op = OP_SE_BYTE
	case 0x4:
		op = OP_SNE_BYTE
	case 0x5:
		if code.N() != 0 {
			err = ErrOpcodeDecode
			return
		}
		op = OP_SE_REG
	case 0x6:
		op = OP_LD_BYTE
	case 0x7:
		op = OP_ADD_BYTE
	case 0x8:
		switch code.N() {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xE:
			op = OP_SHL
		default:
			err = ErrOpcodeDecode
		}
	case 0x9:
		if code.N() != 0 {
			err = ErrOpcodeDecode
			return
		}
		op = OP_SNE_REG
	case 0xA:
		op = OP_LD_I
	case 0xB:
		op = OP_JP_V0
	case 0xC:
		op = OP_RND
	case 0xD:
		op = OP_DRW
	case 0xE:
		switch code.Byte() {
		case 0x9E:
			op = OP_SKP
		case 0xA1:
			op = OP_SKNP
		default:
			err = ErrOpcodeDecode
		}
	case 0xF:
		switch code.Byte() {
		case 0x07:
			op = OP_LD_DT
		case 0x0A:
			op = OP_LD_KEY
		case 0x15:
			op = OP_ST_DT
		case 0x18:
			op = OP_ST_ST
		case 0x1E:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_FONT
		case 0x33:
			op = OP_LD_BCD
		case 0x55:
			op = OP_ST_REGS
		case 0x65:
			op = OP_LD_REGS
		default:
			err = ErrOpcodeDecode
		}
	}

	return
}

// String returns the assembly language representation of this
// instruction. Undecodable words render as raw data.
func (code Code) String() (out string) {
	op, err := code.Decode()
	if err != nil {
		return fmt.Sprintf(".byte 0x%02x 0x%02x", uint8(code>>8), uint8(code))
	}

	switch op {
	case OP_NOP, OP_CLS, OP_RET:
		out = op.String()
	case OP_JP, OP_CALL:
		out = fmt.Sprintf("%v 0x%03x", op, code.Addr())
	case OP_JP_V0:
		out = fmt.Sprintf("jp v0 0x%03x", code.Addr())
	case OP_LD_I:
		out = fmt.Sprintf("ld i 0x%03x", code.Addr())
	case OP_SE_BYTE, OP_SNE_BYTE, OP_LD_BYTE, OP_ADD_BYTE, OP_RND:
		out = fmt.Sprintf("%v v%x 0x%02x", op, code.X(), code.Byte())
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR, OP_ADD_REG, OP_SUB, OP_SUBN:
		out = fmt.Sprintf("%v v%x v%x", op, code.X(), code.Y())
	case OP_SHR, OP_SHL, OP_SKP, OP_SKNP:
		out = fmt.Sprintf("%v v%x", op, code.X())
	case OP_DRW:
		out = fmt.Sprintf("drw v%x v%x %d", code.X(), code.Y(), code.N())
	case OP_LD_DT:
		out = fmt.Sprintf("ld v%x dt", code.X())
	case OP_LD_KEY:
		out = fmt.Sprintf("ld v%x key", code.X())
	case OP_ST_DT:
		out = fmt.Sprintf("ld dt v%x", code.X())
	case OP_ST_ST:
		out = fmt.Sprintf("ld st v%x", code.X())
	case OP_ADD_I:
		out = fmt.Sprintf("add i v%x", code.X())
	case OP_LD_FONT:
		out = fmt.Sprintf("ld f v%x", code.X())
	case OP_LD_BCD:
		out = fmt.Sprintf("ld b v%x", code.X())
	case OP_ST_REGS:
		out = fmt.Sprintf("ld [i] v%x", code.X())
	case OP_LD_REGS:
		out = fmt.Sprintf("ld v%x [i]", code.X())
	}

	return
}
