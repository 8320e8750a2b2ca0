// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ezrec/uchip8/cpu"
	"github.com/ezrec/uchip8/emulator"
	"github.com/ezrec/uchip8/io"
)

func main() {
	var compile string
	var ticks int
	var scale int
	var headless bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".c8 file to compile and run")
	flag.IntVar(&ticks, "t", emulator.TICKS_PER_FRAME, "Instructions per frame")
	flag.IntVar(&scale, "s", DefaultScale, "Display scale factor")
	flag.BoolVar(&headless, "n", false, "Run without a display")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.TicksPerFrame = ticks

	var rom []byte

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for attr, val := range emu.Defines() {
			asm.Predefine(attr, val)
		}

		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.Program = prog
		rom = prog.Binary()
	case flag.NArg() == 1:
		var err error
		rom, err = io.LoadRom(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
	default:
		log.Fatalf("usage: %v [options] [-c file.c8 | file.ch8]", os.Args[0])
	}

	err := emu.Reset(rom)
	if err != nil {
		log.Fatal(err)
	}

	if headless {
		err = emu.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	err = RunGame(emu, scale)
	if err != nil {
		log.Fatal(err)
	}
}
