package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Operands(t *testing.T) {
	assert := assert.New(t)

	code := Code(0xD9A7)

	assert.Equal(uint8(0x9), code.X())
	assert.Equal(uint8(0xA), code.Y())
	assert.Equal(uint8(0x7), code.N())
	assert.Equal(uint8(0xA7), code.Byte())
	assert.Equal(uint16(0x9A7), code.Addr())
}

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(0x1234), MakeCodeAddr(0x1, 0x234))
	assert.Equal(Code(0x63AB), MakeCodeByte(0x6, 0x3, 0xAB))
	assert.Equal(Code(0x8124), MakeCodeReg(0x8, 0x1, 0x2, 0x4))

	// Operands are masked to their field widths.
	assert.Equal(Code(0x1234), MakeCodeAddr(0x1, 0xF234))
}

func TestCode_Decode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		op   Op
	}){
		{0x0000, OP_NOP},
		{0x00E0, OP_CLS},
		{0x00EE, OP_RET},
		{0x1234, OP_JP},
		{0x2345, OP_CALL},
		{0x31AB, OP_SE_BYTE},
		{0x42CD, OP_SNE_BYTE},
		{0x5120, OP_SE_REG},
		{0x6A42, OP_LD_BYTE},
		{0x7B01, OP_ADD_BYTE},
		{0x8120, OP_LD_REG},
		{0x8121, OP_OR},
		{0x8122, OP_AND},
		{0x8123, OP_XOR},
		{0x8124, OP_ADD_REG},
		{0x8125, OP_SUB},
		{0x8126, OP_SHR},
		{0x8127, OP_SUBN},
		{0x812E, OP_SHL},
		{0x9120, OP_SNE_REG},
		{0xA2F0, OP_LD_I},
		{0xB123, OP_JP_V0},
		{0xC4FF, OP_RND},
		{0xD125, OP_DRW},
		{0xE19E, OP_SKP},
		{0xE1A1, OP_SKNP},
		{0xF107, OP_LD_DT},
		{0xF10A, OP_LD_KEY},
		{0xF115, OP_ST_DT},
		{0xF118, OP_ST_ST},
		{0xF11E, OP_ADD_I},
		{0xF129, OP_LD_FONT},
		{0xF133, OP_LD_BCD},
		{0xF155, OP_ST_REGS},
		{0xF165, OP_LD_REGS},
	}

	for _, entry := range table {
		op, err := entry.code.Decode()
		assert.NoError(err, "%04x", uint16(entry.code))
		assert.Equal(entry.op, op, "%04x", uint16(entry.code))
	}
}

func TestCode_Decode_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := []Code{
		0x0123, // Not nop, cls, or ret.
		0x5121, // se vx vy with nonzero selector.
		0x8128, // No such ALU selector.
		0x812F,
		0x9121, // sne vx vy with nonzero selector.
		0xE100, // No such key test.
		0xE1FF,
		0xF100, // No such register transfer.
		0xF1FF,
	}

	for _, code := range table {
		_, err := code.Decode()
		assert.ErrorIs(err, ErrOpcodeDecode, "%04x", uint16(code))
	}
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{0x0000, "nop"},
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x1234, "jp 0x234"},
		{0x2345, "call 0x345"},
		{0x31AB, "se v1 0xab"},
		{0x42CD, "sne v2 0xcd"},
		{0x5120, "se v1 v2"},
		{0x6A42, "ld va 0x42"},
		{0x7B01, "add vb 0x01"},
		{0x8120, "ld v1 v2"},
		{0x8121, "or v1 v2"},
		{0x8124, "add v1 v2"},
		{0x8126, "shr v1"},
		{0x812E, "shl v1"},
		{0x9120, "sne v1 v2"},
		{0xA2F0, "ld i 0x2f0"},
		{0xB123, "jp v0 0x123"},
		{0xC4FF, "rnd v4 0xff"},
		{0xD9A7, "drw v9 va 7"},
		{0xE19E, "skp v1"},
		{0xE1A1, "sknp v1"},
		{0xF107, "ld v1 dt"},
		{0xF10A, "ld v1 key"},
		{0xF115, "ld dt v1"},
		{0xF118, "ld st v1"},
		{0xF11E, "add i v1"},
		{0xF129, "ld f v1"},
		{0xF133, "ld b v1"},
		{0xF155, "ld [i] v1"},
		{0xF165, "ld v1 [i]"},
		{0xFFFF, ".byte 0xff 0xff"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String(), "%04x", uint16(entry.code))
	}
}
