// Package asm renders decoded instructions back to NASM-syntax text.
package asm

import (
	"strconv"
	"strings"

	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

// Header is the listing preamble every disassembly starts with.
const Header = "bits 16\n"

// Program renders a full instruction sequence the way the CLI's
// `disassemble` command does: the bits-16 header, a blank line, then one
// mnemonic per line.
func Program(instructions []isa.Instruction) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, ins := range instructions {
		b.WriteString(Instruction(ins))
		b.WriteByte('\n')
	}
	return b.String()
}

// Instruction renders a single instruction.
func Instruction(ins isa.Instruction) string {
	if ins.Src.Kind == isa.OperandNone {
		return ins.Op.String() + " " + operand(ins.Dst)
	}

	// When neither operand is a register nothing carries an inherent width,
	// so the W bit decides a byte/word prefix between the op and the operands.
	var b strings.Builder
	b.WriteString(ins.Op.String())
	b.WriteByte(' ')
	if ins.Dst.Kind != isa.OperandRegister && ins.Src.Kind != isa.OperandRegister {
		b.WriteString(sizePrefix(ins.Wide))
		b.WriteByte(' ')
	}
	b.WriteString(operand(ins.Dst))
	b.WriteString(", ")
	b.WriteString(operand(ins.Src))
	return b.String()
}

func operand(op isa.Operand) string {
	switch op.Kind {
	case isa.OperandRegister:
		return op.Reg.String()
	case isa.OperandImmediate:
		return strconv.FormatUint(uint64(op.Imm), 10)
	case isa.OperandMemory:
		return memory(op.Mem)
	case isa.OperandJumpOffset:
		return jumpTarget(op.Offset)
	default:
		return ""
	}
}

func sizePrefix(wide bool) string {
	if wide {
		return "word"
	}
	return "byte"
}

func memory(e reg.EAC) string {
	if e.Kind == reg.DirectAddress {
		return "[" + strconv.FormatUint(uint64(e.Disp), 10) + "]"
	}
	if e.Disp == 0 {
		return "[" + e.Expr() + "]"
	}
	return "[" + e.Expr() + " + " + strconv.FormatUint(uint64(e.Disp), 10) + "]"
}

// jumpTarget renders a signed 8-bit displacement in NASM's self-relative
// form. NASM measures $ from the start of the jump instruction itself, and
// the decoded offset is relative to the byte after the two-byte jump, so the
// listing carries the "+2" fetch adjustment inline the way the reference
// disassembler does.
func jumpTarget(offset int8) string {
	n := int(offset) + 2
	switch {
	case n > 0:
		return "$+" + strconv.Itoa(n) + "+0"
	case n < 0:
		return "$" + strconv.Itoa(n) + "+0"
	default:
		return "$+0"
	}
}
