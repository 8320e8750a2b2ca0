package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%#v", MEMORY_SIZE), asm.Equate["MEMORY_SIZE"])
	assert.Equal(fmt.Sprintf("%#v", PROGRAM_START), asm.Equate["PROGRAM_START"])
	assert.Equal(fmt.Sprintf("%#v", FONT_ADDRESS), asm.Equate["FONT_ADDRESS"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerEncodings(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		code Code
	}){
		{"nop", 0x0000},
		{"cls", 0x00E0},
		{"ret", 0x00EE},
		{"jp 0x234", 0x1234},
		{"jp v0 0x234", 0xB234},
		{"call 0x456", 0x2456},
		{"se v1 0x42", 0x3142},
		{"se v1 v2", 0x5120},
		{"sne v1 0x42", 0x4142},
		{"sne v1 v2", 0x9120},
		{"ld v1 0x42", 0x6142},
		{"ld v1 v2", 0x8120},
		{"ld i 0x300", 0xA300},
		{"add v1 0x42", 0x7142},
		{"add v1 v2", 0x8124},
		{"add i v1", 0xF11E},
		{"or v1 v2", 0x8121},
		{"and v1 v2", 0x8122},
		{"xor v1 v2", 0x8123},
		{"sub v1 v2", 0x8125},
		{"subn v1 v2", 0x8127},
		{"shr v1", 0x8106},
		{"shl v1", 0x810E},
		{"rnd v1 0x0f", 0xC10F},
		{"drw v1 v2 5", 0xD125},
		{"skp v1", 0xE19E},
		{"sknp v1", 0xE1A1},
		{"ld v1 dt", 0xF107},
		{"ld dt v1", 0xF115},
		{"ld st v1", 0xF118},
		{"ld v1 key", 0xF10A},
		{"ld f v1", 0xF129},
		{"ld b v1", 0xF133},
		{"ld [i] v1", 0xF155},
		{"ld v1 [i]", 0xF165},
	}

	lines := make([]string, len(table))
	for n, entry := range table {
		lines[n] = entry.text
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(len(table), len(prog.Opcodes))
	for n, entry := range table {
		op := prog.Opcodes[n]
		assert.Equal(n+1, op.LineNo, entry.text)
		assert.Equal(PROGRAM_START+2*n, op.Addr, entry.text)
		assert.Equal([]Code{entry.code}, op.Codes, entry.text)
	}
}

func TestAssemblerOpcodes(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"ld v0 0x20    ; x",
		"ld v1 0x10    ; y",
		"drw v0 v1 5",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0x200, []string{"ld", "v0", "0x20"}, []Code{0x6020}, nil, ""},
		{2, 0x202, []string{"ld", "v1", "0x10"}, []Code{0x6110}, nil, ""},
		{3, 0x204, []string{"drw", "v0", "v1", "5"}, []Code{0xD015}, nil, ""},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"jp MAIN",
		"LOOP: add v1 0x01",
		"jp LOOP",
		"MAIN:",
		"",
		"ld v1 0x00",
		"jp LOOP",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(0x202, asm.Label["LOOP"])
	assert.Equal(0x206, asm.Label["MAIN"])

	assert.Equal([]byte{
		0x12, 0x06,
		0x71, 0x01,
		0x12, 0x02,
		0x61, 0x00,
		0x12, 0x02,
	}, prog.Binary())
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ BASE 0x10",
		"ld v1 BASE",
		"ld v2 $(BASE + 2)",
		".equ NEXT $(BASE * 2)",
		"ld v3 NEXT",
		"ld v4 $(LINENO)",
		"ld i $(MEMORY_SIZE - 2)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
		return
	}

	assert.Equal(5, len(prog.Opcodes))
	assert.Equal([]byte{
		0x61, 0x10,
		0x62, 0x12,
		0x63, 0x20,
		0x64, 0x06,
		0xAF, 0xFE,
	}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SPEED", "0x10")
	asm.Predefine("TARGET", "v1")

	prog, err := asm.Parse(strings.NewReader("ld TARGET SPEED"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal([]byte{0x61, 0x10}, prog.Binary())
}

func TestAssemblerByte(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"sprite: .byte 0xF0 0x90 0xF0",
		"ld i sprite",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(2, len(prog.Opcodes))
	assert.Equal([]byte{0xF0, 0x90, 0xF0}, prog.Opcodes[0].Data)
	assert.Equal(3, prog.Opcodes[0].Size())

	// Data does not force alignment; the next opcode lands right after.
	assert.Equal(0x203, prog.Opcodes[1].Addr)
	assert.Equal([]byte{0xF0, 0x90, 0xF0, 0xA2, 0x03}, prog.Binary())
}

func TestAssemblerTooLarge(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// One instruction more than fits between PROGRAM_START and the end
	// of memory.
	limit := (MEMORY_SIZE - PROGRAM_START) / 2
	lines := make([]string, limit+1)
	for n := range lines {
		lines[n] = "nop"
	}

	_, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.ErrorIs(err, ErrProgramTooLarge)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"DUP:\nDUP:\n", 2},
		{".equ\n", 1},
		{".equ A\n", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{"bogus v1\n", 1},
		{"nop extra\n", 1},
		{"jp\n", 1},
		{"jp v1 0x200\n", 1},
		{"jp 0x1000\n", 1},
		{"call\n", 1},
		{"se v1\n", 1},
		{"se q1 0\n", 1},
		{"ld v1\n", 1},
		{"ld v1 nothing\n", 1},
		{"ld v1 0x100\n", 1},
		{"ld v1 -1\n", 1},
		{"ld dt 5\n", 1},
		{"ld q v1\n", 1},
		{"ld v1 $(\"aaa\")\n", 1},
		{"ld v1 $(more(1))\n", 1},
		{"add v1\n", 1},
		{"add i 0x10\n", 1},
		{"or v1 5\n", 1},
		{"shr\n", 1},
		{"shr x1\n", 1},
		{"rnd v1\n", 1},
		{"rnd v1 0x100\n", 1},
		{"drw v1 v2\n", 1},
		{"drw v1 v2 16\n", 1},
		{"drw v1 q2 1\n", 1},
		{"skp\n", 1},
		{"skp 5\n", 1},
		{".byte\n", 1},
		{".byte 0x100\n", 1},
		{"nop\njp NOWHERE\n", 2},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}
