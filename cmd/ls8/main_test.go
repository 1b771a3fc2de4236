package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

var errNewline = errors.New("newline refused")

// lineRefuser accepts everything except a bare newline.
type lineRefuser struct {
	bytes.Buffer
}

func (lr *lineRefuser) Write(p []byte) (n int, err error) {
	if string(p) == "\n" {
		err = errNewline
		return
	}
	return lr.Buffer.Write(p)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	emu := emulator.NewEmulator(output)
	assert.NoError(emu.Assemble(strings.NewReader("LDI r0, 'x'\nPRA r0\nHLT\n")))

	assert.NoError(run(emu))
	assert.Equal("x\n", output.String())
}

func TestRunFlushError(t *testing.T) {
	assert := assert.New(t)

	output := &lineRefuser{}
	emu := emulator.NewEmulator(output)
	assert.NoError(emu.Assemble(strings.NewReader("LDI r0, 'x'\nPRA r0\nHLT\n")))

	err := run(emu)
	assert.ErrorIs(err, errNewline)
	assert.Equal("x", output.String())
}

func TestRunErrorFirst(t *testing.T) {
	assert := assert.New(t)

	output := &lineRefuser{}
	emu := emulator.NewEmulator(output)
	assert.NoError(emu.Assemble(strings.NewReader("LDI r0, 'x'\nPRA r0\ndb 0xff\n")))

	err := run(emu)
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)
	assert.False(errors.Is(err, errNewline))
}
