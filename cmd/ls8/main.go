// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] program.ls8|program.asm\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

// run executes the loaded program, then flushes the terminal.
// The first error wins.
func run(emu *emulator.Emulator) (err error) {
	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()

	cerr := emu.Close()
	if err == nil {
		err = cerr
	}

	return
}

func main() {
	var reference bool
	var limit int
	var save string
	var verbose bool

	flag.Usage = usage
	flag.BoolVar(&reference, "r", false, "Reference machine: CMP compares operand bytes, flags are sticky, MUL and MOD echo")
	flag.IntVar(&limit, "n", 0, "Stop after this many instructions (0 for no limit)")
	flag.StringVar(&save, "s", "", "Save program image to file, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)

	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator(os.Stdout)
	emu.Verbose = verbose

	if strings.EqualFold(filepath.Ext(path), ".asm") {
		err = emu.Assemble(inf)
	} else {
		err = emu.ReadImage(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		err = cpu.WriteImage(ouf, emu.Image())
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if reference {
		emu.Cpu.Options = cpu.Reference
	}
	emu.Cpu.Limit = limit

	err = run(emu)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if emu.Cpu.Warnings > 0 && verbose {
		log.Printf("%v: %d warnings", path, emu.Cpu.Warnings)
	}
}
