package io

import (
	"io"
	"strconv"
)

// Terminal writes console output to an io.Writer.
// Print emits the decimal value followed by a newline, PrintChar emits
// the raw byte.
type Terminal struct {
	Output io.Writer

	Lines   int  // Number of lines written by Print.
	pending bool // PrintChar left a partial line.
}

var _ Console = (*Terminal)(nil)

// Rewind forgets the line accounting, the output itself can not be rewound.
func (tc *Terminal) Rewind() {
	tc.Lines = 0
	tc.pending = false
}

// Print writes the decimal value and a newline.
func (tc *Terminal) Print(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrOutputMissing
		return
	}

	line := strconv.AppendUint(nil, uint64(value), 10)
	line = append(line, '\n')
	_, err = tc.Output.Write(line)
	if err != nil {
		return
	}

	tc.Lines++
	tc.pending = false

	return
}

// PrintChar writes the value as a single byte.
func (tc *Terminal) PrintChar(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrOutputMissing
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		return
	}

	if value == '\n' {
		tc.Lines++
		tc.pending = false
	} else {
		tc.pending = true
	}

	return
}

// Flush terminates a partial line left by PrintChar.
func (tc *Terminal) Flush() (err error) {
	if !tc.pending {
		return
	}

	err = tc.PrintChar('\n')
	return
}
