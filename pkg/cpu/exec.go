package cpu

import (
	"github.com/oisee/intel8086/pkg/cycle"
	"github.com/oisee/intel8086/pkg/decode"
	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

// Result is what Simulate hands back: the final machine state, the
// instructions that actually ran, and the total estimated cycle cost.
type Result struct {
	CPU      *CPU
	Executed []isa.Instruction
	Cycles   int
}

// Simulate loads program at address 0 and runs it to completion, i.e. until
// IP reaches the end of the program.
func Simulate(program []byte) (*Result, error) {
	c := New()
	if err := c.SetProgram(program); err != nil {
		return nil, err
	}

	var executed []isa.Instruction
	total := 0
	for !c.Done() {
		ins, cost, err := c.Step()
		if err != nil {
			return nil, err
		}
		executed = append(executed, ins)
		total += cost
	}
	return &Result{CPU: c, Executed: executed, Cycles: total}, nil
}

// Step decodes and executes exactly one instruction at the current IP.
// IP is advanced before the instruction's effect is applied, so a jump's
// offset is naturally relative to the following instruction.
func (c *CPU) Step() (isa.Instruction, int, error) {
	ip := c.IP()
	ins, err := decode.One(c.memory[ip:])
	if err != nil {
		return isa.Instruction{}, 0, err
	}
	c.SetIP(ip + uint16(ins.Len()))

	cost := cycle.Cost(ins, c.ResolveEAC)
	if err := c.execute(ins); err != nil {
		return isa.Instruction{}, 0, err
	}
	return ins, cost, nil
}

func (c *CPU) execute(ins isa.Instruction) error {
	switch {
	case ins.Op.IsJump():
		return c.executeJump(ins)
	case ins.Op.IsLoop():
		return c.executeLoop(ins)
	default:
		return c.executeALU(ins)
	}
}

func (c *CPU) executeALU(ins isa.Instruction) error {
	src, err := c.readOperand(ins.Src)
	if err != nil {
		return err
	}

	switch ins.Op {
	case isa.MOV:
		return c.writeOperand(ins.Dst, src)
	case isa.ADD:
		dst, err := c.readOperand(ins.Dst)
		if err != nil {
			return err
		}
		result := int32(uint16(dst + src))
		c.processFlags(result)
		return c.writeOperand(ins.Dst, dst+src)
	case isa.SUB:
		dst, err := c.readOperand(ins.Dst)
		if err != nil {
			return err
		}
		result := int32(dst) - int32(src)
		c.processFlags(result)
		return c.writeOperand(ins.Dst, uint16(result))
	case isa.CMP:
		dst, err := c.readOperand(ins.Dst)
		if err != nil {
			return err
		}
		result := int32(dst) - int32(src)
		c.processFlags(result)
		return nil
	default:
		return errUnsupportedSimOp(ins.Op.String())
	}
}

// executeJump handles the short conditional jumps this project actually
// runs. The remaining short jumps decode and disassemble fine but have no
// executor branch, matching the reference simulator's own coverage.
func (c *CPU) executeJump(ins isa.Instruction) error {
	if ins.Dst.Kind != isa.OperandJumpOffset {
		return errInvalidOperand("jump without an offset operand")
	}
	target := uint16(int32(c.IP()) + int32(ins.Dst.Offset))

	switch ins.Op {
	case isa.JE:
		if c.Flags.Z {
			c.SetIP(target)
		}
	case isa.JNE:
		if !c.Flags.Z {
			c.SetIP(target)
		}
	case isa.JS:
		if c.Flags.S {
			c.SetIP(target)
		}
	case isa.JNS:
		if !c.Flags.S {
			c.SetIP(target)
		}
	default:
		return errUnsupportedSimOp(ins.Op.String())
	}
	return nil
}

// executeLoop implements LOOP/LOOPZ/LOOPNZ. The branch condition here is
// "cx == 0 after decrement AND the flag predicate holds" — the inverse of
// the textbook 8086 "loop while cx != 0" behavior, and LOOP shares LOOPZ's
// zero-flag check rather than looping unconditionally. Both quirks are
// carried over intentionally from the reference implementation; see
// DESIGN.md.
func (c *CPU) executeLoop(ins isa.Instruction) error {
	if ins.Dst.Kind != isa.OperandJumpOffset {
		return errInvalidOperand("loop without an offset operand")
	}
	target := uint16(int32(c.IP()) + int32(ins.Dst.Offset))

	cx := c.Register(reg.CX) - 1
	c.SetRegister(reg.CX, cx)

	switch ins.Op {
	case isa.LOOPNZ:
		if cx == 0 && !c.Flags.Z {
			c.SetIP(target)
		}
	case isa.LOOPZ, isa.LOOP:
		if cx == 0 && c.Flags.Z {
			c.SetIP(target)
		}
	default:
		return errUnsupportedSimOp(ins.Op.String())
	}
	return nil
}

func (c *CPU) processFlags(result int32) {
	c.Flags.Z = result == 0
	c.Flags.S = result < 0
}

func (c *CPU) readOperand(op isa.Operand) (uint16, error) {
	switch op.Kind {
	case isa.OperandRegister:
		if op.Reg.Width == 1 {
			return 0, errInvalidOperand(op.Reg.String())
		}
		return c.ReadOperandRegister(op.Reg), nil
	case isa.OperandImmediate:
		return op.Imm, nil
	case isa.OperandMemory:
		return c.Load16(c.ResolveEAC(op.Mem)), nil
	default:
		return 0, errInvalidOperand("none")
	}
}

func (c *CPU) writeOperand(op isa.Operand, val uint16) error {
	switch op.Kind {
	case isa.OperandRegister:
		if op.Reg.Width == 1 {
			return errInvalidOperand(op.Reg.String())
		}
		c.WriteOperandRegister(op.Reg, val)
		return nil
	case isa.OperandMemory:
		c.Store16(c.ResolveEAC(op.Mem), val)
		return nil
	default:
		return errInvalidOperand("none")
	}
}
