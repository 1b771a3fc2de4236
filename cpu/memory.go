package cpu

const (
	MEMORY_SIZE = 256  // Bytes of addressable memory.
	STACK_TOP   = 0xf4 // Initial stack pointer, the stack grows down.
	REG_SP      = 7    // Register holding the stack pointer.
)

// Memory is the byte addressable store of the machine.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value uint8, err error) {
	if address < 0 || address >= len(mem) {
		err = ErrAddress
		return
	}

	value = mem[address]
	return
}

// Write stores a byte at address.
func (mem *Memory) Write(address int, value uint8) (err error) {
	if address < 0 || address >= len(mem) {
		err = ErrAddress
		return
	}

	mem[address] = value
	return
}

// Load zeros the memory, then copies the image to address 0.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > len(mem) {
		err = ErrImageTooLarge
		return
	}

	clear(mem[:])
	copy(mem[:], image)

	return
}
