package cpu

import (
	"errors"

	"github.com/ezrec/uchip8/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrProgramTooLarge = errors.New(f("program too large"))
	ErrIpRange         = errors.New(f("instruction fetch past end of memory"))
	ErrIndexRange      = errors.New(f("index access past end of memory"))
	ErrStackEmpty      = errors.New(f("stack empty"))
	ErrStackFull       = errors.New(f("stack full"))
	ErrKeyInvalid      = errors.New(f("key invalid"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrAddressRange       = errors.New(f("address out of range"))
	ErrByteRange          = errors.New(f("byte out of range"))
	ErrNibbleRange        = errors.New(f("nibble out of range"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode names the instruction word that failed and the address it
// was fetched from.
type ErrOpcode struct {
	Code Code
	Ip   uint16
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x (%v) at 0x%03x", uint16(eo.Code), eo.Code, eo.Ip)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
