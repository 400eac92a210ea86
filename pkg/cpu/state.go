// Package cpu models the 8086 architectural state — nine 16-bit registers,
// the Z and S flags, and a flat 1 MiB memory — and the executor that
// mutates it one decoded instruction at a time.
package cpu

import "github.com/oisee/intel8086/pkg/reg"

const memSize = 1 << 20

// CPU is the full machine state. It is not internally synchronized: callers
// simulating multiple programs concurrently must give each goroutine its
// own CPU.
type CPU struct {
	registers  [reg.Count]uint16
	memory     []byte
	programLen int
	Flags      Flags
}

// Flags holds the two condition flags this project models.
type Flags struct {
	Z bool
	S bool
}

// New returns a CPU with all registers, flags, and memory zeroed.
func New() *CPU {
	return &CPU{memory: make([]byte, memSize)}
}

// Register returns the current value of a word register.
func (c *CPU) Register(id reg.ID) uint16 { return c.registers[id] }

// SetRegister overwrites a word register.
func (c *CPU) SetRegister(id reg.ID, v uint16) { c.registers[id] = v }

// IP returns the instruction pointer.
func (c *CPU) IP() uint16 { return c.registers[reg.IP] }

// SetIP overwrites the instruction pointer.
func (c *CPU) SetIP(v uint16) { c.registers[reg.IP] = v }

// ReadOperandRegister reads r, honoring byte-register high/low aliasing.
func (c *CPU) ReadOperandRegister(r reg.Reg) uint16 {
	v := c.registers[r.ID]
	if r.Width == 1 {
		if r.IsHigh {
			return (v >> 8) & 0xFF
		}
		return v & 0xFF
	}
	return v
}

// WriteOperandRegister writes val into r, preserving the untouched half of
// a byte register's containing word.
func (c *CPU) WriteOperandRegister(r reg.Reg, val uint16) {
	if r.Width == 1 {
		cur := c.registers[r.ID]
		if r.IsHigh {
			c.registers[r.ID] = (cur &^ 0xFF00) | ((val & 0xFF) << 8)
		} else {
			c.registers[r.ID] = (cur &^ 0x00FF) | (val & 0xFF)
		}
		return
	}
	c.registers[r.ID] = val
}

// Memory exposes the raw 1 MiB buffer, e.g. for a `--dump` CLI flag.
func (c *CPU) Memory() []byte { return c.memory }

// Load16 reads a little-endian word at address a. The second byte's address
// wraps at 16 bits, so only the first 64 KiB of memory is reachable.
func (c *CPU) Load16(a uint16) uint16 {
	lo := c.memory[a]
	hi := c.memory[uint16(a+1)]
	return uint16(lo) | uint16(hi)<<8
}

// Store16 writes a little-endian word at address a.
func (c *CPU) Store16(a uint16, v uint16) {
	c.memory[a] = byte(v)
	c.memory[uint16(a+1)] = byte(v >> 8)
}

// SetProgram loads program at address 0. It fails if the program is 1 MiB
// or larger.
func (c *CPU) SetProgram(program []byte) error {
	if len(program) >= memSize {
		return &Error{Kind: ProgramTooBig, Size: len(program), Max: memSize}
	}
	copy(c.memory, program)
	c.programLen = len(program)
	return nil
}

// ProgramLen returns the size of the program last loaded with SetProgram.
func (c *CPU) ProgramLen() int { return c.programLen }

// Done reports whether IP has run off the end of the loaded program.
func (c *CPU) Done() bool { return int(c.IP()) >= c.programLen }

// ResolveEAC computes the linear byte address an EAC expression designates.
func (c *CPU) ResolveEAC(e reg.EAC) uint16 {
	if e.Kind == reg.DirectAddress {
		return e.Disp
	}
	addr := e.Disp
	for _, id := range e.Bases() {
		addr += c.registers[id]
	}
	return addr
}
