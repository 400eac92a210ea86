// Package cycle estimates 8086 clock-cycle costs for decoded instructions,
// following the documented per-operand-kind cost tables. The table is built
// once at init and never mutated afterward — deliberately not guarded by a
// mutex, unlike the reference implementation's lookup table, because
// read-only data shared across goroutines needs no synchronization.
package cycle

import (
	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

// Kind classifies an operand for cost-table matching.
type Kind uint8

const (
	KRegister Kind = iota
	KMemory
	KAccumulator
	KImmediate
)

// row is one entry of an operation's cost table.
type row struct {
	dst, src  Kind
	base      int
	transfers int
	eaCost    bool
}

var table = map[isa.Operation][]row{
	isa.MOV: {
		{dst: KMemory, src: KAccumulator, base: 10, transfers: 1},
		{dst: KAccumulator, src: KMemory, base: 10, transfers: 1},
		{dst: KRegister, src: KRegister, base: 2},
		{dst: KRegister, src: KMemory, base: 8, transfers: 1, eaCost: true},
		{dst: KMemory, src: KRegister, base: 9, transfers: 1, eaCost: true},
		{dst: KRegister, src: KImmediate, base: 4},
		{dst: KMemory, src: KImmediate, base: 10, transfers: 1},
	},
	isa.ADD: {
		{dst: KRegister, src: KRegister, base: 3},
		{dst: KRegister, src: KMemory, base: 9, transfers: 1, eaCost: true},
		{dst: KMemory, src: KRegister, base: 16, transfers: 2, eaCost: true},
		{dst: KRegister, src: KImmediate, base: 4},
		{dst: KMemory, src: KImmediate, base: 17, transfers: 2, eaCost: true},
		{dst: KAccumulator, src: KImmediate, base: 4},
	},
	isa.SUB: {
		{dst: KRegister, src: KRegister, base: 3},
		{dst: KRegister, src: KMemory, base: 9, transfers: 1, eaCost: true},
		{dst: KMemory, src: KRegister, base: 16, transfers: 2, eaCost: true},
		{dst: KRegister, src: KImmediate, base: 4},
		{dst: KMemory, src: KImmediate, base: 17, transfers: 2, eaCost: true},
		{dst: KAccumulator, src: KImmediate, base: 4},
	},
	isa.CMP: {
		{dst: KRegister, src: KRegister, base: 3},
		{dst: KRegister, src: KMemory, base: 9, transfers: 1, eaCost: true},
		{dst: KMemory, src: KRegister, base: 9, transfers: 1, eaCost: true},
		{dst: KRegister, src: KImmediate, base: 4},
		{dst: KMemory, src: KImmediate, base: 10, transfers: 1, eaCost: true},
		{dst: KAccumulator, src: KImmediate, base: 4},
	},
}

// eaCostTable gives the EA calculation surcharge for every addressing form,
// split by whether the displacement is zero.
var eaCostTable = map[reg.EACKind][2]int{
	reg.BxSi:          {7, 11},
	reg.BpDi:          {7, 11},
	reg.BxDi:          {8, 12},
	reg.BpSi:          {8, 12},
	reg.Si:            {5, 9},
	reg.Di:            {5, 9},
	reg.Bp:            {5, 9},
	reg.Bx:            {5, 9},
	reg.DirectAddress: {6, 6},
}

func kindOf(op isa.Operand) (Kind, bool) {
	switch op.Kind {
	case isa.OperandRegister:
		if op.Reg.ID == reg.AX && op.Reg.Width == 2 {
			return KAccumulator, true
		}
		return KRegister, true
	case isa.OperandMemory:
		return KMemory, true
	case isa.OperandImmediate:
		return KImmediate, true
	default:
		return 0, false
	}
}

// matches reports whether an operand's kind satisfies a table row's expected
// kind; an Accumulator row only matches an Accumulator operand, but a
// Register row also matches one (AX counts as a plain register too).
func matches(want Kind, have Kind) bool {
	if want == have {
		return true
	}
	return want == KRegister && have == KAccumulator
}

func eaCost(e reg.EAC) int {
	costs, ok := eaCostTable[e.Kind]
	if !ok {
		return 0
	}
	if e.Disp == 0 {
		return costs[0]
	}
	return costs[1]
}

// Cost returns the estimated clock-cycle cost of ins. resolveAddr computes
// the linear address of an EAC operand, needed for the odd-address transfer
// surcharge; it is typically cpu.(*CPU).ResolveEAC.
func Cost(ins isa.Instruction, resolveAddr func(reg.EAC) uint16) int {
	rows, ok := table[ins.Op]
	if !ok {
		return 0
	}
	dstKind, dstOK := kindOf(ins.Dst)
	srcKind, srcOK := kindOf(ins.Src)
	if !dstOK || !srcOK {
		return 0
	}

	for _, r := range rows {
		if !matches(r.dst, dstKind) || !matches(r.src, srcKind) {
			continue
		}
		total := r.base
		var mem *reg.EAC
		if ins.Dst.Kind == isa.OperandMemory {
			mem = &ins.Dst.Mem
		} else if ins.Src.Kind == isa.OperandMemory {
			mem = &ins.Src.Mem
		}
		if r.transfers > 0 && mem != nil {
			addr := resolveAddr(*mem)
			if addr&1 == 1 {
				total += 4 * r.transfers
			}
		}
		if r.eaCost && mem != nil {
			total += eaCost(*mem)
		}
		return total
	}
	return 0
}
