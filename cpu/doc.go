// Package cpu implements the CHIP-8 virtual machine core and assembler.
//
// The machine consists of 4KB of byte-addressable memory, sixteen 8-bit
// general purpose registers (v0-vf, with vf doubling as the
// carry/borrow/collision flag), a 16-bit index register, a 16-level call
// stack, two 60 Hz countdown timers, a 16-key pad, and a 64x32 monochrome
// framebuffer. Instructions are 16-bit words fetched big-endian from
// memory and dispatched by nibble pattern.
//
// The assembler provides the conventional CHIP-8 mnemonic set with
// labels, equates, raw data bytes, and compile-time expression
// evaluation.
package cpu
