// Package io provides the console devices for the LS-8 machine.
// It includes a Terminal that writes to an io.Writer, and a Recorder
// that captures everything printed for later inspection.
package io

// Console defines the interface for the output device of the LS-8 machine.
// The machine has no input instructions, so a console only ever receives.
type Console interface {
	// Rewind resets the console to its initial state.
	Rewind()
	// Print writes a value as a decimal number on its own line.
	Print(value uint8) error
	// PrintChar writes a value as a single character.
	PrintChar(value uint8) error
}
