// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

var _emulator_defines = map[string]string{
	"NEWLINE": fmt.Sprintf("%d", '\n'),
	"SPACE":   fmt.Sprintf("%d", ' '),
}

// Emulator state. CPU + program listing + terminal.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the program listing, if assembled.

	Terminal io.Terminal // Console for PRN and PRA.

	image []byte // Image loaded on reset.
}

// NewEmulator creates a new emulator writing to output.
func NewEmulator(output goio.Writer) (emu *Emulator) {
	emu = &Emulator{}

	emu.Terminal.Output = output
	emu.Cpu = cpu.NewCpu(&emu.Terminal)

	return
}

// Defines returns an iterator over all of the defines, ordered by name.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Sorted2(internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	))
}

// Assemble parses assembly text into the program to run.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		if emu.Verbose {
			log.Printf("emulator: define %v = %v", key, value)
		}
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.image = prog.Binary()

	return
}

// ReadImage reads a text image as the program to run. There is no listing,
// so runtime errors carry no line number.
func (emu *Emulator) ReadImage(input goio.Reader) (err error) {
	image, err := cpu.ReadImage(input)
	if err != nil {
		return
	}

	emu.Program = nil
	emu.image = image

	return
}

// Image returns the memory image of the program.
func (emu *Emulator) Image() []byte {
	return emu.image
}

// Close flushes any partial line on the terminal.
func (emu *Emulator) Close() (err error) {
	if emu.Terminal.Output == nil {
		return
	}

	err = emu.Terminal.Flush()
	return
}

// Reset loads the program into memory and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.image)
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.LineNo(emu.Cpu.Pc)
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run ticks until the program halts, the tick limit is reached, or an
// error occurs.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		if emu.Cpu.Limit > 0 && emu.Cpu.Ticks >= emu.Cpu.Limit {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: cpu.ErrTickLimit}
			return
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
