package cpu

import (
	"iter"
)

// Statement represents a line of assembled code with its source location
// and generated bytes.
type Statement struct {
	LineNo    int
	Ip        int
	Words     []string
	Bytes     []uint8
	LinkLabel string
}

// Program is the output of the assembler.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement that generated the byte at ip.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, st := range prog.Statements {
		if ip >= st.Ip && ip < st.Ip+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     ip - st.Ip,
			}
			break
		}
	}

	return
}

// LineNo returns the source line for the byte at ip, or 0 if there is none.
func (prog *Program) LineNo(ip int) int {
	dbg := prog.Debug(ip)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Binary returns the memory image of the program. Gaps left by .org are
// zero filled.
func (prog *Program) Binary() (bins []byte) {
	for ip, value := range prog.Bytes() {
		for len(bins) <= ip {
			bins = append(bins, 0)
		}
		bins[ip] = value
	}

	return
}

// Bytes returns an iterator over the address and value of each assembled
// byte.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(ip int, value uint8) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Ip+n, value) {
					return
				}
			}
		}
	}
}
