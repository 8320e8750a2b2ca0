package cpu

import (
	"iter"
)

// Opcode represents a line of assembled source with its memory address
// and generated bytes.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code
	Data      []byte
	LinkLabel string
}

// Size returns the number of memory bytes this opcode occupies.
func (op *Opcode) Size() int {
	return len(op.Data) + 2*len(op.Codes)
}

// Program is an assembled listing, addressed from PROGRAM_START.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug locates the source opcode covering a memory address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+op.Size() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Binary renders the program bytes as loaded at PROGRAM_START.
func (prog *Program) Binary() (bins []byte) {
	for _, op := range prog.Opcodes {
		for _, code := range op.Codes {
			bins = append(bins, byte(code>>8), byte(code))
		}
		bins = append(bins, op.Data...)
	}

	return
}

// Codes iterates the instruction words with their memory addresses. Raw
// data bytes are not yielded.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(uint16(op.Addr+2*n), code) {
					return
				}
			}
		}
	}
}
