package io

import (
	"io"
	"os"

	"github.com/ezrec/uchip8/cpu"
)

// ROM_LIMIT is the largest loadable program, in bytes.
const ROM_LIMIT = cpu.MEMORY_SIZE - cpu.PROGRAM_START

// ReadRom reads program bytes from a reader, rejecting inputs too large
// to load into machine memory.
func ReadRom(reader io.Reader) (rom []byte, err error) {
	rom, err = io.ReadAll(io.LimitReader(reader, ROM_LIMIT+1))
	if err != nil {
		rom = nil
		return
	}

	if len(rom) > ROM_LIMIT {
		rom = nil
		err = ErrRomTooLarge
	}

	return
}

// LoadRom reads program bytes from a file.
func LoadRom(path string) (rom []byte, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return ReadRom(file)
}
