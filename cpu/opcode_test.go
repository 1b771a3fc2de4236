package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op       Opcode
		name     string
		operands int
		alu      bool
		setsPc   bool
	}){
		{OP_LDI, "LDI", 2, false, false},
		{OP_PRN, "PRN", 1, false, false},
		{OP_PRA, "PRA", 1, false, false},
		{OP_HLT, "HLT", 0, false, false},
		{OP_ADD, "ADD", 2, true, false},
		{OP_SUB, "SUB", 2, true, false},
		{OP_MUL, "MUL", 2, true, false},
		{OP_DIV, "DIV", 2, true, false},
		{OP_MOD, "MOD", 2, true, false},
		{OP_CMP, "CMP", 2, true, false},
		{OP_POP, "POP", 1, false, false},
		{OP_PUSH, "PUSH", 1, false, false},
		{OP_CALL, "CALL", 1, false, true},
		{OP_RET, "RET", 0, false, true},
		{OP_JMP, "JMP", 1, false, true},
		{OP_JEQ, "JEQ", 1, false, true},
		{OP_JNE, "JNE", 1, false, true},
	}

	assert.Equal(len(table), len(slices.Collect(Opcodes())))

	for _, entry := range table {
		assert.True(entry.op.Valid(), entry.name)
		assert.Equal(entry.name, entry.op.String())
		assert.Equal(entry.operands, entry.op.Operands(), entry.name)
		assert.Equal(entry.operands+1, entry.op.Width(), entry.name)
		assert.Equal(entry.alu, entry.op.IsAlu(), entry.name)
		assert.Equal(entry.setsPc, entry.op.SetsPc(), entry.name)

		op, ok := ParseOpcode(entry.name)
		assert.True(ok, entry.name)
		assert.Equal(entry.op, op)
	}
}

func TestOpcodeValues(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Opcode(0b10000010), OP_LDI)
	assert.Equal(Opcode(0b01000111), OP_PRN)
	assert.Equal(Opcode(0b00000001), OP_HLT)
	assert.Equal(Opcode(0b10100000), OP_ADD)
	assert.Equal(Opcode(0b10100010), OP_MUL)
	assert.Equal(Opcode(0b10100100), OP_MOD)
	assert.Equal(Opcode(0b01000110), OP_POP)
	assert.Equal(Opcode(0b01000101), OP_PUSH)
	assert.Equal(Opcode(0b01010000), OP_CALL)
	assert.Equal(Opcode(0b00010001), OP_RET)
	assert.Equal(Opcode(0b10100111), OP_CMP)
}

func TestOpcodeInvalid(t *testing.T) {
	assert := assert.New(t)

	valid := 0
	for n := range 256 {
		if Opcode(n).Valid() {
			valid++
		}
	}
	assert.Equal(17, valid)

	assert.False(Opcode(0x00).Valid())
	assert.False(Opcode(0xff).Valid())
	assert.Equal("Opcode(255)", Opcode(0xff).String())

	_, ok := ParseOpcode("NOP")
	assert.False(ok)

	op, ok := ParseOpcode("ldi")
	assert.True(ok)
	assert.Equal(OP_LDI, op)
}
