package cpu

import (
	"errors"
	"fmt"
	"log"
)

const (
	FLAG_EQUAL   = uint8(0b001) // E: operands were equal.
	FLAG_GREATER = uint8(0b010) // G: first operand was greater.
	FLAG_LESS    = uint8(0b100) // L: first operand was less.
	FLAG_MASK    = uint8(0b111) // Mask of the comparison flags.
)

// compare sets the comparison flags from a and b.
func (cpu *Cpu) compare(a, b uint8) {
	if !cpu.Options.StickyFlags {
		cpu.Flags &^= FLAG_MASK
	}

	switch {
	case a == b:
		cpu.Flags |= FLAG_EQUAL
	case a < b:
		cpu.Flags |= FLAG_LESS
	default:
		cpu.Flags |= FLAG_GREATER
	}
}

// echo reports an ALU result, on the console when Options.EchoAlu is set,
// otherwise in the verbose log.
func (cpu *Cpu) echo(op Opcode, result uint8) (err error) {
	line := fmt.Sprintf("%v %d", op, result)
	if !cpu.Options.EchoAlu {
		if cpu.Verbose {
			log.Print(line)
		}
		return
	}

	if cpu.Console == nil {
		err = ErrConsoleMissing
		return
	}

	for _, c := range []byte(line + "\n") {
		err = cpu.Console.PrintChar(c)
		if err != nil {
			return
		}
	}

	return
}

// doAlu performs the requested ALU action on the registers named by the
// operands a and b. Arithmetic wraps at 8 bits.
func (cpu *Cpu) doAlu(op Opcode, a, b uint8) (err error) {
	if op == OP_CMP && cpu.Options.CompareOperands {
		// Compare the operand bytes themselves.
		cpu.compare(a, b)
		return
	}

	dst, err := cpu.register(a)
	if err != nil {
		err = errors.Join(ErrOpcodeArg1, err)
		return
	}

	src, err := cpu.register(b)
	if err != nil {
		err = errors.Join(ErrOpcodeArg2, err)
		return
	}

	value := *src

	switch op {
	case OP_ADD:
		*dst += value
	case OP_SUB:
		*dst -= value
	case OP_MUL:
		*dst *= value
		err = cpu.echo(op, *dst)
	case OP_DIV, OP_MOD:
		if value == 0 {
			cpu.Warnings++
			log.Print(f("warning: %v at 0x%02x: r%d is zero, skipped", op, cpu.Pc, b))
			return
		}
		if op == OP_DIV {
			*dst /= value
		} else {
			*dst %= value
		}
		if op == OP_MOD {
			err = cpu.echo(op, *dst)
		}
	case OP_CMP:
		cpu.compare(*dst, value)
	default:
		err = ErrAluUnsupported
	}

	return
}
