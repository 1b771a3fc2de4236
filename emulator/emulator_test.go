package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Nil(emu.Program)
	assert.Equal(0, emu.Pc())
	assert.Equal(0, emu.LineNo())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("10", defines["NEWLINE"])
	assert.Equal("r7", defines["SP"])
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) (output string) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Reset()
	assert.NoError(err)

	prog := emu.Program
	for n, st := range prog.Statements {
		here := program[st.LineNo-1]
		assert.Equal(st.LineNo, emu.LineNo(), here)
		assert.Equal(st.Ip, emu.Pc(), here)

		debug := prog.Debug(emu.Pc())
		assert.Equal(0, debug.Index, here)

		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.Equal(n == len(prog.Statements)-1, done, here)
	}

	output = emu.Terminal.Output.(*bytes.Buffer).String()
	return
}

func doRunBranch(emu *Emulator, program []string, t *testing.T) (output string) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Reset()
	assert.NoError(err)

	var done bool
	for !done {
		line := emu.LineNo()
		if line == 0 {
			line = 1
		}
		done, err = emu.Tick()
		here := program[line-1]
		assert.NoError(err, here)
		if err != nil {
			t.Fatal(err)
		}
	}

	output = emu.Terminal.Output.(*bytes.Buffer).String()
	return
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})

	program := []string{
		"LDI r0, 0x10",
		"LDI r1, 0x20",
		"LDI r2, 0x30",
		"LDI r3, 0x40",
		"PRN r3",
		"HLT",
	}

	output := doRunSingle(emu, program, t)

	assert.Equal(uint8(0x10), emu.Cpu.Register[0])
	assert.Equal(uint8(0x20), emu.Cpu.Register[1])
	assert.Equal(uint8(0x30), emu.Cpu.Register[2])
	assert.Equal(uint8(0x40), emu.Cpu.Register[3])
	assert.Equal("64\n", output)
	assert.Equal(6, emu.Ticks())
}

func TestEmulatorAlu(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})
	program := []string{
		"LDI r0, 0x10",
		"LDI r1, 1",
		"ADD r0, r1",
		"SUB r0, r1",
		"SUB r0, r1",
		"LDI r2, 3",
		"MUL r2, r2",
		"LDI r3, 200",
		"ADD r3, r3",
		"LDI r4, 100",
		"LDI r5, 7",
		"DIV r4, r5",
		"HLT",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint8(0x0f), emu.Cpu.Register[0])
	assert.Equal(uint8(1), emu.Cpu.Register[1])
	assert.Equal(uint8(9), emu.Cpu.Register[2])
	assert.Equal(uint8(144), emu.Cpu.Register[3])
	assert.Equal(uint8(14), emu.Cpu.Register[4])
}

func TestEmulatorEqu(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})
	program := []string{
		".equ CONST_10 0x10",
		"LDI r0, CONST_10",
		"LDI r1, $(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"LDI r2, CONST_30",
		"LDI r3, $(LINENO * 8 + 0x10)",
		"PUSH r3",
		"POP SP",
		"HLT",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint8(0x10), emu.Cpu.Register[0])
	assert.Equal(uint8(0x20), emu.Cpu.Register[1])
	assert.Equal(uint8(0x30), emu.Cpu.Register[2])
	assert.Equal(uint8(0x40), emu.Cpu.Register[3])
	assert.Equal(uint8(0x40), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulatorMacro(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})
	program := []string{
		".macro PRINTC c",
		"LDI r0, c",
		"PRA r0",
		".endm",
		"PRINTC 'o'",
		"PRINTC 'k'",
		"PRINTC NEWLINE",
		"HLT",
	}

	output := doRunSingle(emu, program, t)

	assert.Equal("ok\n", output)
}

func TestEmulatorLabel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})
	program := []string{
		"LDI r5, ADD_ONE",
		"LDI r6, R0",
		"JMP r6",
		"ADD_ONE:",
		"ADD r0, r1",
		"RET",
		"R1: LDI r3, 0x20",
		"LDI r6, R2",
		"JMP r6",
		"R0: AND_ALSO:",
		"LDI r0, 0x10",
		"LDI r1, 1",
		"LDI r6, R1",
		"JMP r6",
		"R2:",
		"CALL r5",
		"CALL r5",
		"",
		"PRN r0",
		"HLT",
	}

	output := doRunBranch(emu, program, t)

	assert.Equal(uint8(0x12), emu.Cpu.Register[0])
	assert.Equal(uint8(0x20), emu.Cpu.Register[3])
	assert.Equal("18\n", output)
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulatorReadImage(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	emu := NewEmulator(output)

	text := strings.Join([]string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}, "\n")

	assert.NoError(emu.ReadImage(strings.NewReader(text)))
	assert.Equal([]byte{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, emu.Image())
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.NoError(err)
	assert.True(emu.Cpu.Halted)
	assert.Equal("8\n", output.String())

	// Ticking a halted emulator is done, not an error.
	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})
	program := []string{
		"LDI r0, 1",
		"; unknown instruction follows",
		"db 0xff",
	}

	assert.NoError(emu.Assemble(strings.NewReader(strings.Join(program, "\n"))))
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(3, re.LineNo)
	}

	var fault *cpu.ErrFault
	if assert.True(errors.As(err, &fault)) {
		assert.Equal(3, fault.Address)
	}

	// Without a listing, only the address is known.
	assert.NoError(emu.ReadImage(strings.NewReader("11111111\n")))
	assert.NoError(emu.Reset())

	err = emu.Run()
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)
	if assert.True(errors.As(err, &re)) {
		assert.Equal(0, re.LineNo)
	}
	assert.Equal(err.Error(), re.Err.Error())
}

func TestEmulatorLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&bytes.Buffer{})
	program := []string{
		"LDI r0, LOOP",
		"LOOP: JMP r0",
	}

	assert.NoError(emu.Assemble(strings.NewReader(strings.Join(program, "\n"))))
	assert.NoError(emu.Reset())
	emu.Cpu.Limit = 100

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrTickLimit)

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(2, re.LineNo)
	}
}

func TestEmulatorClose(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	emu := NewEmulator(output)
	program := []string{
		"LDI r0, 'x'",
		"PRA r0",
		"HLT",
	}

	assert.NoError(emu.Assemble(strings.NewReader(strings.Join(program, "\n"))))
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())
	assert.Equal("x", output.String())

	assert.NoError(emu.Close())
	assert.Equal("x\n", output.String())

	assert.NoError(NewEmulator(nil).Close())
}
