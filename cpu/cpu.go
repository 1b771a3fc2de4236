package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ls8/io"
)

// Console is the output device interface.
type Console io.Console

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_TOP":    fmt.Sprintf("0x%02x", STACK_TOP),
	"SP":           fmt.Sprintf("r%d", REG_SP),
	"FLAG_EQUAL":   fmt.Sprintf("0b%03b", FLAG_EQUAL),
	"FLAG_GREATER": fmt.Sprintf("0b%03b", FLAG_GREATER),
	"FLAG_LESS":    fmt.Sprintf("0b%03b", FLAG_LESS),
}

// Options selects between the behaviour of the reference machine and its
// corrected form. The zero value is the corrected machine.
type Options struct {
	CompareOperands bool // CMP compares the operand bytes, not the registers they name.
	StickyFlags     bool // CMP sets its flag without clearing the others.
	WideMod         bool // MOD advances the PC by three bytes instead of two.
	EchoAlu         bool // MUL and MOD print "<op> <result>" lines on the console.
}

// Reference is the behaviour of the reference machine.
var Reference = Options{
	CompareOperands: true,
	StickyFlags:     true,
	EchoAlu:         true,
}

// Instruction is a decoded instruction.
type Instruction struct {
	Opcode  Opcode
	Operand [2]uint8
}

// String returns the instruction in assembler syntax.
func (inst Instruction) String() string {
	switch inst.Opcode.Operands() {
	case 0:
		return inst.Opcode.String()
	case 1:
		return fmt.Sprintf("%v r%d", inst.Opcode, inst.Operand[0])
	}

	if inst.Opcode == OP_LDI {
		return fmt.Sprintf("%v r%d, 0x%02x", inst.Opcode, inst.Operand[0], inst.Operand[1])
	}

	return fmt.Sprintf("%v r%d, r%d", inst.Opcode, inst.Operand[0], inst.Operand[1])
}

// Cpu is the simulation context for the LS-8 machine.
type Cpu struct {
	Verbose bool    // Set to enable verbose logging.
	Options Options // Behaviour selection.
	Limit   int     // If non-zero, the maximum ticks Run will perform.

	Memory   Memory   // Main memory.
	Register [8]uint8 // Register bank, r7 is the stack pointer.
	Pc       int      // Address of the next instruction.
	Flags    uint8    // Comparison flags, 00000LGE.
	Halted   bool     // Set by HLT.

	Console Console // Output device for PRN and PRA.

	Ticks    int // Instructions executed since reset.
	Warnings int // Recoverable conditions since reset.
}

// NewCpu creates a new machine writing to console.
func NewCpu(console Console) (cpu *Cpu) {
	cpu = &Cpu{
		Console: console,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and flags, and sets the stack pointer.
// - Zeros statistics counters.
// - Rewinds the console.
// - Sets the program counter to 0.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Pc = 0
	cpu.Flags = 0
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.Warnings = 0

	if cpu.Console != nil {
		cpu.Console.Rewind()
	}
}

// Load copies a program image to address 0 and resets the CPU.
func (cpu *Cpu) Load(image []byte) (err error) {
	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	cpu.Reset()

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "sp",
		"stack",
		"halt",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "fl":
			strval = fmt.Sprintf("%08b", cpu.Flags)
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6":
			val := cpu.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%02X", val)
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.Register[REG_SP])
		case "stack":
			val, ok := cpu.Peek()
			if ok {
				strval = fmt.Sprintf("%02X (depth %d)", val, cpu.Depth())
			} else {
				strval = "--"
			}
		case "halt":
			strval = "false"
			if cpu.Halted {
				strval = "true"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a single line of the machine state: the program counter,
// flags, the fetch window and the registers.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X %02X |", cpu.Pc, cpu.Flags)

	for n := range 3 {
		value, err := cpu.Memory.Read(cpu.Pc + n)
		if err != nil {
			sb.WriteString(" --")
		} else {
			fmt.Fprintf(&sb, " %02X", value)
		}
	}

	sb.WriteString(" |")

	for _, value := range cpu.Register {
		fmt.Fprintf(&sb, " %02X", value)
	}

	return sb.String()
}

// Fetch reads and decodes the instruction at the program counter.
// The two bytes after the opcode are always read; a window byte outside of
// memory is only an error if the instruction uses it.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	value, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	inst.Opcode = Opcode(value)
	if !inst.Opcode.Valid() {
		err = ErrOpcode(inst.Opcode)
		return
	}

	for n := range inst.Operand {
		value, err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			if n >= inst.Opcode.Operands() {
				err = nil
				continue
			}
			return
		}
		inst.Operand[n] = value
	}

	return
}

// Tick executes a single instruction cycle.
// Errors are reported as an *ErrFault holding the address of the
// instruction.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrFault{Address: pc, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Print(cpu.Trace())
	}

	inst, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(inst)
	return
}

// Run ticks until the machine halts, or an error occurs.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		if cpu.Limit > 0 && cpu.Ticks >= cpu.Limit {
			err = ErrTickLimit
			return
		}

		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// register returns the register named by an operand.
func (cpu *Cpu) register(index uint8) (reg *uint8, err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterInvalid
		return
	}

	reg = &cpu.Register[index]
	return
}

// getValue returns the value of the register named by an operand.
func (cpu *Cpu) getValue(index uint8) (value uint8, err error) {
	reg, err := cpu.register(index)
	if err != nil {
		return
	}

	value = *reg
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, inst)
	}

	op := inst.Opcode
	a, b := inst.Operand[0], inst.Operand[1]

	next_pc := cpu.Pc + op.Width()

	switch op {
	case OP_HLT:
		cpu.Halted = true
	case OP_LDI:
		var reg *uint8
		reg, err = cpu.register(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		*reg = b
	case OP_PRN, OP_PRA:
		var value uint8
		value, err = cpu.getValue(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		if cpu.Console == nil {
			err = ErrConsoleMissing
			return
		}
		if op == OP_PRN {
			err = cpu.Console.Print(value)
		} else {
			err = cpu.Console.PrintChar(value)
		}
		if err != nil {
			return
		}
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_CMP:
		err = cpu.doAlu(op, a, b)
		if err != nil {
			return
		}
		if op == OP_MOD && !cpu.Options.WideMod {
			next_pc = cpu.Pc + 2
		}
	case OP_PUSH:
		var value uint8
		value, err = cpu.getValue(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		err = cpu.Push(value)
		if err != nil {
			return
		}
	case OP_POP:
		var reg *uint8
		reg, err = cpu.register(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		var value uint8
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		*reg = value
	case OP_CALL:
		var target uint8
		target, err = cpu.getValue(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		return_pc := cpu.Pc + 2
		if return_pc >= MEMORY_SIZE {
			err = ErrAddress
			return
		}
		err = cpu.Push(uint8(return_pc))
		if err != nil {
			return
		}
		next_pc = int(target)
	case OP_RET:
		var value uint8
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		next_pc = int(value)
	case OP_JMP, OP_JEQ, OP_JNE:
		var target uint8
		target, err = cpu.getValue(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		equal := (cpu.Flags & FLAG_EQUAL) != 0
		if op == OP_JMP || (op == OP_JEQ && equal) || (op == OP_JNE && !equal) {
			next_pc = int(target)
		}
	default:
		err = ErrOpcode(op)
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}
