// Package cpu implements the LS-8 machine and its assembler.
//
// The machine consists of 256 bytes of memory, eight 8-bit registers
// (r0-r7, with r7 reserved as the stack pointer), a flags register set by
// CMP, and a program counter. Instructions are one to three bytes long: an
// opcode followed by up to two operand bytes, decoded from a fixed
// three-byte fetch window.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting macros, labels, equates, and compile-time expression
// evaluation. Programs can also be loaded from the text image format, one
// base-2 byte per line.
package cpu
