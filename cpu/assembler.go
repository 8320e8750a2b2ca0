// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"MEMORY_SIZE":   fmt.Sprintf("%#v", MEMORY_SIZE),
	"PROGRAM_START": fmt.Sprintf("%#v", PROGRAM_START),
	"FONT_ADDRESS":  fmt.Sprintf("%#v", FONT_ADDRESS),
}

// Assembler is a single pass assembler (with a final label link pass)
// for the CHIP-8 instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to memory addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regOf parses a register name, "v0" through "vf".
func regOf(word string) (reg uint8, ok bool) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		return
	}

	value, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	reg = uint8(value)
	ok = true

	return
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	v64, err := strconv.ParseInt(word, 0, 17)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < 0 {
		value = uint16(0xffff + (v64 + 1))
	} else {
		value = uint16(v64)
	}

	return
}

// byteOf returns an 8-bit operand value.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v16, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v16 > 0xFF {
		err = ErrByteRange
		return
	}

	value = uint8(v16)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value16 uint16
		value16, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// parseLine expands a single line into opcode words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if len(word) == 0 {
			continue
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddr gets the memory address after the last generated opcode.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + last.Size()
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = make(map[string]string, len(sysEquate)+len(asm.predefine))
	for attr, val := range sysEquate {
		asm.Equate[attr] = val
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		linked := &op.Codes[len(op.Codes)-1]
		*linked |= Code(uint16(addr) & 0x0FFF)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// linkAddr encodes an address-class instruction, deferring unresolved
// labels to the final link pass.
func (asm *Assembler) linkAddr(class uint8, word string, op *Opcode) (code Code, err error) {
	value, verr := asm.valueOf(word)
	if verr != nil {
		// Not a number; link it as a label later.
		op.LinkLabel = word
		code = MakeCodeAddr(class, 0)
		return
	}

	if value > 0x0FFF {
		err = ErrAddressRange
		return
	}

	code = MakeCodeAddr(class, value)

	return
}

// parseWords encodes the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op := Opcode{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Words:  slices.Clone(words),
	}

	mnem := strings.ToLower(words[0])
	args := words[1:]

	var code Code
	encoded := true

	switch mnem {
	case ".byte":
		encoded = false
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range args {
			var value byte
			value, err = asm.byteOf(word)
			if err != nil {
				return
			}
			op.Data = append(op.Data, value)
		}
	case "nop":
		code, err = plainCode(0x0000, args)
	case "cls":
		code, err = plainCode(0x00E0, args)
	case "ret":
		code, err = plainCode(0x00EE, args)
	case "jp":
		switch len(args) {
		case 1:
			code, err = asm.linkAddr(0x1, args[0], &op)
		case 2:
			if strings.ToLower(args[0]) != "v0" {
				err = ErrTargetInvalid
				return
			}
			code, err = asm.linkAddr(0xB, args[1], &op)
		default:
			err = ErrOpcodeValueMissing
		}
	case "call":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			return
		}
		code, err = asm.linkAddr(0x2, args[0], &op)
	case "se":
		code, err = asm.skipCode(0x3, 0x5, args)
	case "sne":
		code, err = asm.skipCode(0x4, 0x9, args)
	case "ld":
		code, err = asm.loadCode(args, &op)
	case "add":
		code, err = asm.addCode(args)
	case "or":
		code, err = asm.aluCode(0x1, args)
	case "and":
		code, err = asm.aluCode(0x2, args)
	case "xor":
		code, err = asm.aluCode(0x3, args)
	case "sub":
		code, err = asm.aluCode(0x5, args)
	case "subn":
		code, err = asm.aluCode(0x7, args)
	case "shr":
		code, err = asm.shiftCode(0x6, args)
	case "shl":
		code, err = asm.shiftCode(0xE, args)
	case "rnd":
		if len(args) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		x, ok := regOf(args[0])
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		var mask uint8
		mask, err = asm.byteOf(args[1])
		if err != nil {
			return
		}
		code = MakeCodeByte(0xC, x, mask)
	case "drw":
		if len(args) != 3 {
			err = ErrOpcodeValueMissing
			return
		}
		x, xok := regOf(args[0])
		y, yok := regOf(args[1])
		if !xok || !yok {
			err = ErrRegisterInvalid
			return
		}
		var rows uint16
		rows, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
		if rows > 0xF {
			err = ErrNibbleRange
			return
		}
		code = MakeCodeReg(0xD, x, y, uint8(rows))
	case "skp":
		code, err = asm.keyCode(0x9E, args)
	case "sknp":
		code, err = asm.keyCode(0xA1, args)
	default:
		err = ErrOpcodeInvalid
	}
	if err != nil {
		return
	}

	if encoded {
		op.Codes = []Code{code}
	}

	if op.Addr+op.Size() > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	asm.Opcode = append(asm.Opcode, op)

	return
}

// plainCode encodes an instruction that takes no operands.
func plainCode(code Code, args []string) (Code, error) {
	if len(args) != 0 {
		return 0, ErrOpcodeExtraArgs
	}

	return code, nil
}

// skipCode encodes the se/sne comparisons, register or byte form.
func (asm *Assembler) skipCode(byteClass, regClass uint8, args []string) (code Code, err error) {
	if len(args) != 2 {
		err = ErrOpcodeValueMissing
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	y, ok := regOf(args[1])
	if ok {
		code = MakeCodeReg(regClass, x, y, 0x0)
		return
	}

	var value uint8
	value, err = asm.byteOf(args[1])
	if err != nil {
		return
	}
	code = MakeCodeByte(byteClass, x, value)

	return
}

// aluCode encodes a two register ALU instruction with the given selector.
func (asm *Assembler) aluCode(selector uint8, args []string) (code Code, err error) {
	if len(args) != 2 {
		err = ErrOpcodeValueMissing
		return
	}

	x, xok := regOf(args[0])
	y, yok := regOf(args[1])
	if !xok || !yok {
		err = ErrRegisterInvalid
		return
	}

	code = MakeCodeReg(0x8, x, y, selector)

	return
}

// shiftCode encodes the single register shift instructions.
func (asm *Assembler) shiftCode(selector uint8, args []string) (code Code, err error) {
	if len(args) != 1 {
		err = ErrOpcodeValueMissing
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	code = MakeCodeReg(0x8, x, 0x0, selector)

	return
}

// keyCode encodes the skp/sknp key tests.
func (asm *Assembler) keyCode(selector uint8, args []string) (code Code, err error) {
	if len(args) != 1 {
		err = ErrOpcodeValueMissing
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	code = MakeCodeByte(0xE, x, selector)

	return
}

// addCode encodes the three add forms: vx+byte, vx+vy, and i+vx.
func (asm *Assembler) addCode(args []string) (code Code, err error) {
	if len(args) != 2 {
		err = ErrOpcodeValueMissing
		return
	}

	if strings.ToLower(args[0]) == "i" {
		x, ok := regOf(args[1])
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		code = MakeCodeByte(0xF, x, 0x1E)
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	y, ok := regOf(args[1])
	if ok {
		code = MakeCodeReg(0x8, x, y, 0x4)
		return
	}

	var value uint8
	value, err = asm.byteOf(args[1])
	if err != nil {
		return
	}
	code = MakeCodeByte(0x7, x, value)

	return
}

// loadCode encodes the many ld forms.
func (asm *Assembler) loadCode(args []string, op *Opcode) (code Code, err error) {
	if len(args) != 2 {
		err = ErrOpcodeValueMissing
		return
	}

	dst := strings.ToLower(args[0])
	src := strings.ToLower(args[1])

	// Special destinations first.
	selector := map[string]uint8{
		"dt":  0x15,
		"st":  0x18,
		"f":   0x29,
		"b":   0x33,
		"[i]": 0x55,
	}[dst]

	if dst == "i" {
		code, err = asm.linkAddr(0xA, args[1], op)
		return
	}

	if selector != 0 {
		x, ok := regOf(args[1])
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		code = MakeCodeByte(0xF, x, selector)
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrTargetInvalid
		return
	}

	switch src {
	case "dt":
		code = MakeCodeByte(0xF, x, 0x07)
	case "key", "k":
		code = MakeCodeByte(0xF, x, 0x0A)
	case "[i]":
		code = MakeCodeByte(0xF, x, 0x65)
	default:
		y, ok := regOf(args[1])
		if ok {
			code = MakeCodeReg(0x8, x, y, 0x0)
			return
		}

		var value uint8
		value, err = asm.byteOf(args[1])
		if err != nil {
			return
		}
		code = MakeCodeByte(0x6, x, value)
	}

	return
}
