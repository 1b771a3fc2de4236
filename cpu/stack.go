package cpu

// Push decrements the stack pointer, then stores value at the new top of
// stack. The stack pointer wraps at 8 bits, so a push always lands in memory.
func (cpu *Cpu) Push(value uint8) (err error) {
	cpu.Register[REG_SP]--

	err = cpu.Memory.Write(int(cpu.Register[REG_SP]), value)
	return
}

// Pop reads the top of stack, then increments the stack pointer.
// Popping an empty stack is not detected; it reads whatever is there.
func (cpu *Cpu) Pop() (value uint8, err error) {
	value, err = cpu.Memory.Read(int(cpu.Register[REG_SP]))
	if err != nil {
		return
	}

	cpu.Register[REG_SP]++
	return
}

// Peek returns the top of stack without popping it. ok is false if the
// stack pointer is at or above its initial position.
func (cpu *Cpu) Peek() (value uint8, ok bool) {
	if cpu.Register[REG_SP] >= STACK_TOP {
		return
	}

	return cpu.Memory[cpu.Register[REG_SP]], true
}

// Depth returns the number of bytes pushed below the initial stack pointer.
func (cpu *Cpu) Depth() int {
	sp := int(cpu.Register[REG_SP])
	if sp > STACK_TOP {
		return 0
	}

	return STACK_TOP - sp
}
