package cpu

import (
	"iter"
	"slices"
	"strings"
)

// Opcode is an LS-8 instruction opcode.
//
// The opcode byte is laid out as AABCDDDD:
//   - AA is the number of operand bytes that follow.
//   - B is set if the instruction is handled by the ALU.
//   - C is set if the instruction sets the program counter.
//   - DDDD identifies the instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HLT  = Opcode(0x01) // HLT
	OP_RET  = Opcode(0x11) // RET
	OP_PUSH = Opcode(0x45) // PUSH
	OP_POP  = Opcode(0x46) // POP
	OP_PRN  = Opcode(0x47) // PRN
	OP_PRA  = Opcode(0x48) // PRA
	OP_CALL = Opcode(0x50) // CALL
	OP_JMP  = Opcode(0x54) // JMP
	OP_JEQ  = Opcode(0x55) // JEQ
	OP_JNE  = Opcode(0x56) // JNE
	OP_LDI  = Opcode(0x82) // LDI
	OP_ADD  = Opcode(0xa0) // ADD
	OP_SUB  = Opcode(0xa1) // SUB
	OP_MUL  = Opcode(0xa2) // MUL
	OP_DIV  = Opcode(0xa3) // DIV
	OP_MOD  = Opcode(0xa4) // MOD
	OP_CMP  = Opcode(0xa7) // CMP
)

// _opcodes is the instruction set, in opcode order.
var _opcodes = []Opcode{
	OP_HLT, OP_RET,
	OP_PUSH, OP_POP, OP_PRN, OP_PRA,
	OP_CALL, OP_JMP, OP_JEQ, OP_JNE,
	OP_LDI,
	OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_CMP,
}

// _mnemonics maps the upper case mnemonic to its opcode.
var _mnemonics = func() (mnemonics map[string]Opcode) {
	mnemonics = make(map[string]Opcode, len(_opcodes))
	for _, op := range _opcodes {
		mnemonics[op.String()] = op
	}
	return
}()

// Opcodes returns an iterator over the instruction set.
func Opcodes() iter.Seq[Opcode] {
	return slices.Values(_opcodes)
}

// ParseOpcode returns the opcode for a mnemonic, in any case.
func ParseOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = _mnemonics[strings.ToUpper(mnemonic)]
	return
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, found := slices.BinarySearch(_opcodes, op)
	return found
}

// Operands returns the number of operand bytes the instruction consumes.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Width returns the encoded size of the instruction in bytes.
func (op Opcode) Width() int {
	return 1 + op.Operands()
}

// IsAlu returns true if the ALU executes the instruction.
func (op Opcode) IsAlu() bool {
	return (op & 0x20) != 0
}

// SetsPc returns true if the instruction moves the program counter itself.
func (op Opcode) SetsPc() bool {
	return (op & 0x10) != 0
}
