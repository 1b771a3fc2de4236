package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadImage reads a program image in the text format: one byte per line,
// written in base 2. A '#' starts a comment, and blank lines are skipped.
func ReadImage(input io.Reader) (image []byte, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.SplitN(text, "#", 2)
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 8)
		if err != nil {
			err = ErrParseBinary(line)
			return
		}

		if len(image) == MEMORY_SIZE {
			err = ErrImageTooLarge
			return
		}

		image = append(image, uint8(value))
	}

	err = scanner.Err()
	return
}

// Disassemble decodes the instruction at address in image. width is the
// number of bytes consumed; a byte that is not an instruction, or an
// instruction cut short by the end of the image, is reported as data.
func Disassemble(image []byte, address int) (text string, width int) {
	if address < 0 || address >= len(image) {
		return
	}

	op := Opcode(image[address])
	if !op.Valid() || address+op.Width() > len(image) {
		text = fmt.Sprintf(".byte 0x%02x", image[address])
		width = 1
		return
	}

	inst := Instruction{Opcode: op}
	copy(inst.Operand[:], image[address+1:address+op.Width()])

	text = inst.String()
	width = op.Width()

	return
}

// WriteImage writes a program image in the text format read by ReadImage,
// with each instruction annotated by its disassembly.
func WriteImage(output io.Writer, image []byte) (err error) {
	w := bufio.NewWriter(output)

	for address := 0; address < len(image); {
		text, width := Disassemble(image, address)
		for n := range width {
			if n == 0 {
				_, err = fmt.Fprintf(w, "%08b # %02x: %v\n", image[address], address, text)
			} else {
				_, err = fmt.Fprintf(w, "%08b\n", image[address+n])
			}
			if err != nil {
				return
			}
		}
		address += width
	}

	err = w.Flush()
	return
}
