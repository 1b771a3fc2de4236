package io

import (
	"strconv"
)

// Recorder captures console output in memory.
type Recorder struct {
	Values []uint8 // Values passed to Print, in order.
	Text   []byte  // Everything as a Terminal would have written it.
}

var _ Console = (*Recorder)(nil)

// Rewind discards all recorded output.
func (rc *Recorder) Rewind() {
	rc.Values = nil
	rc.Text = nil
}

// Print records a value.
func (rc *Recorder) Print(value uint8) error {
	rc.Values = append(rc.Values, value)
	rc.Text = strconv.AppendUint(rc.Text, uint64(value), 10)
	rc.Text = append(rc.Text, '\n')
	return nil
}

// PrintChar records a character.
func (rc *Recorder) PrintChar(value uint8) error {
	rc.Text = append(rc.Text, value)
	return nil
}

// String returns the recorded text.
func (rc *Recorder) String() string {
	return string(rc.Text)
}
