// Package sim is the library surface: Disassemble, ToASM, and Simulate are
// the three entry points that sequence the decoder, renderer, and CPU
// executor for a caller that just has a byte slice.
package sim

import (
	"github.com/oisee/intel8086/pkg/asm"
	"github.com/oisee/intel8086/pkg/cpu"
	"github.com/oisee/intel8086/pkg/decode"
	"github.com/oisee/intel8086/pkg/isa"
)

// Disassemble decodes every instruction in program.
func Disassemble(program []byte) ([]isa.Instruction, error) {
	return decode.All(program)
}

// ToASM renders a decoded instruction sequence as a NASM-syntax listing.
func ToASM(instructions []isa.Instruction) string {
	return asm.Program(instructions)
}

// Simulate decodes and executes program to completion and reports the
// final CPU state plus the total estimated cycle cost.
func Simulate(program []byte) (*cpu.Result, error) {
	return cpu.Simulate(program)
}
