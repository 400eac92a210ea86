// Package decode turns a raw 8086 machine-code byte stream into the
// isa.Instruction values it encodes, one instruction at a time.
package decode

import (
	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

const maxInstructionLen = 6

// One decodes a single instruction starting at data[0]. The number of bytes
// consumed is the returned instruction's Len().
func One(data []byte) (isa.Instruction, error) {
	s := newStream(data)
	ins, err := decodeOne(s)
	if err != nil {
		return isa.Instruction{}, err
	}
	if len(ins.Bytes) > maxInstructionLen {
		return isa.Instruction{}, errOverflow()
	}
	return ins, nil
}

// All decodes every instruction in data in sequence, stopping at the end of
// the buffer. It fails on the first decode error.
func All(data []byte) ([]isa.Instruction, error) {
	var out []isa.Instruction
	off := 0
	for off < len(data) {
		ins, err := One(data[off:])
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
		off += ins.Len()
	}
	return out, nil
}

func decodeOne(s *stream) (isa.Instruction, error) {
	b0, ok := s.peek()
	if !ok {
		return isa.Instruction{}, errIncomplete()
	}

	if op, ok := isa.ShortJumpFor(b0); ok {
		return decodeShortJump(s, op)
	}
	if op, ok := isa.LoopFor(b0); ok {
		return decodeShortJump(s, op)
	}

	switch {
	case b0>>2 == 0b100010: // MOV reg/mem to/from reg
		return decodeRegMemToFromReg(s, isa.MOV)
	case b0>>2 == 0b000000: // ADD reg/mem to/from reg
		return decodeRegMemToFromReg(s, isa.ADD)
	case b0>>2 == 0b001010: // SUB reg/mem to/from reg
		return decodeRegMemToFromReg(s, isa.SUB)
	case b0>>2 == 0b001110: // CMP reg/mem to/from reg
		return decodeRegMemToFromReg(s, isa.CMP)
	case b0>>4 == 0b1011: // MOV immediate to register
		return decodeImmToReg(s)
	case b0>>1 == 0b1100011: // MOV immediate to r/m
		return decodeImmToRM(s)
	case b0>>2 == 0b100000: // ADD/SUB/CMP immediate to r/m
		return decodeImmToRMArith(s)
	case b0>>1 == 0b1010000: // MOV memory to accumulator
		return decodeAccMem(s, true)
	case b0>>1 == 0b1010001: // MOV accumulator to memory
		return decodeAccMem(s, false)
	case b0>>1 == 0b0000010: // ADD immediate to accumulator
		return decodeImmToAcc(s, isa.ADD)
	case b0>>1 == 0b0010110: // SUB immediate to accumulator
		return decodeImmToAcc(s, isa.SUB)
	case b0>>1 == 0b0011110: // CMP immediate to accumulator
		return decodeImmToAcc(s, isa.CMP)
	default:
		return isa.Instruction{}, errUnsupportedOpcode(b0)
	}
}

// arithOpFromField maps the REG subfield of the "100000" immediate-to-r/m
// form to an Operation: 000=ADD, 001=MOV, 101=SUB, 111=CMP. The remaining
// values are unassigned and rejected.
func arithOpFromField(bits uint8) (isa.Operation, bool) {
	switch bits {
	case 0b000:
		return isa.ADD, true
	case 0b001:
		return isa.MOV, true
	case 0b101:
		return isa.SUB, true
	case 0b111:
		return isa.CMP, true
	default:
		return isa.OpInvalid, false
	}
}

func decodeRegMemToFromReg(s *stream, op isa.Operation) (isa.Instruction, error) {
	mark := s.index
	b0, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	d := b0&0b10 != 0
	w := b0&0b01 != 0

	b1, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	mod := b1 >> 6
	regField := (b1 >> 3) & 0x7
	rm := b1 & 0x7

	regOperand := isa.RegisterOperand(reg.FromEncoding(regField, w))
	rmOperand, err := decodeRM(s, mod, rm, w)
	if err != nil {
		return isa.Instruction{}, err
	}

	ins := isa.Instruction{Op: op, Wide: w}
	if d {
		ins.Dst, ins.Src = regOperand, rmOperand
	} else {
		ins.Dst, ins.Src = rmOperand, regOperand
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

func decodeImmToReg(s *stream) (isa.Instruction, error) {
	mark := s.index
	b0, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	w := b0&0b1000 != 0
	regField := b0 & 0x7

	imm, err := decodeImmediate(s, w, false)
	if err != nil {
		return isa.Instruction{}, err
	}

	ins := isa.Instruction{
		Op:   isa.MOV,
		Wide: w,
		Dst:  isa.RegisterOperand(reg.FromEncoding(regField, w)),
		Src:  isa.ImmediateOperand(imm),
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

func decodeImmToRM(s *stream) (isa.Instruction, error) {
	mark := s.index
	b0, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	w := b0&0b1 != 0

	b1, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	mod := b1 >> 6
	rm := b1 & 0x7

	dst, err := decodeRM(s, mod, rm, w)
	if err != nil {
		return isa.Instruction{}, err
	}
	imm, err := decodeImmediate(s, w, false)
	if err != nil {
		return isa.Instruction{}, err
	}

	ins := isa.Instruction{
		Op:   isa.MOV,
		Wide: w,
		Dst:  dst,
		Src:  isa.ImmediateOperand(imm),
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

func decodeImmToRMArith(s *stream) (isa.Instruction, error) {
	mark := s.index
	b0, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	sBit := b0&0b10 != 0
	w := b0&0b01 != 0

	b1, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	mod := b1 >> 6
	opField := (b1 >> 3) & 0x7
	rm := b1 & 0x7

	op, ok := arithOpFromField(opField)
	if !ok {
		return isa.Instruction{}, errUnsupportedOperation(opField)
	}

	dst, err := decodeRM(s, mod, rm, w)
	if err != nil {
		return isa.Instruction{}, err
	}
	imm, err := decodeImmediate(s, w, sBit)
	if err != nil {
		return isa.Instruction{}, err
	}

	ins := isa.Instruction{
		Op:   op,
		Wide: w,
		Dst:  dst,
		Src:  isa.ImmediateOperand(imm),
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

func decodeAccMem(s *stream, memToAcc bool) (isa.Instruction, error) {
	mark := s.index
	b0, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	w := b0&0b1 != 0

	addrBytes, err := s.consume(2)
	if err != nil {
		return isa.Instruction{}, err
	}
	addr := uint16(addrBytes[0]) | uint16(addrBytes[1])<<8

	acc := isa.RegisterOperand(reg.FromEncoding(0, w))
	mem := isa.MemoryOperand(reg.EAC{Kind: reg.DirectAddress, Disp: addr})

	ins := isa.Instruction{Op: isa.MOV, Wide: w}
	if memToAcc {
		ins.Dst, ins.Src = acc, mem
	} else {
		ins.Dst, ins.Src = mem, acc
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

func decodeImmToAcc(s *stream, op isa.Operation) (isa.Instruction, error) {
	mark := s.index
	b0, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	w := b0&0b1 != 0

	imm, err := decodeImmediate(s, w, false)
	if err != nil {
		return isa.Instruction{}, err
	}

	ins := isa.Instruction{
		Op:   op,
		Wide: w,
		Dst:  isa.RegisterOperand(reg.FromEncoding(0, w)),
		Src:  isa.ImmediateOperand(imm),
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

func decodeShortJump(s *stream, op isa.Operation) (isa.Instruction, error) {
	mark := s.index
	if _, err := s.consume1(); err != nil {
		return isa.Instruction{}, err
	}
	offByte, err := s.consume1()
	if err != nil {
		return isa.Instruction{}, err
	}
	ins := isa.Instruction{
		Op:  op,
		Dst: isa.JumpOffsetOperand(int8(offByte)),
	}
	ins.Bytes = s.consumedSince(mark)
	return ins, nil
}

// decodeRM resolves the R/M field of a MOD/REG/R-M byte into an operand,
// consuming whatever displacement bytes the addressing mode requires.
func decodeRM(s *stream, mod, rm uint8, w bool) (isa.Operand, error) {
	if mod == 0b11 {
		return isa.RegisterOperand(reg.FromEncoding(rm, w)), nil
	}

	directAddress := mod == 0b00 && rm == 0b110
	var disp uint16
	switch {
	case directAddress:
		b, err := s.consume(2)
		if err != nil {
			return isa.Operand{}, err
		}
		disp = uint16(b[0]) | uint16(b[1])<<8
	case mod == 0b00:
		disp = 0
	case mod == 0b01:
		b, err := s.consume1()
		if err != nil {
			return isa.Operand{}, err
		}
		disp = uint16(b)
	case mod == 0b10:
		b, err := s.consume(2)
		if err != nil {
			return isa.Operand{}, err
		}
		disp = uint16(b[0]) | uint16(b[1])<<8
	}

	return isa.MemoryOperand(reg.FromRM(rm, directAddress, disp)), nil
}

// decodeImmediate reads an immediate of the width the W (and, for the
// signed arithmetic forms, S) bits demand:
//
//	w=false         -> 1 byte, zero-extended
//	w=true, s=false -> 2 bytes little-endian
//	w=true, s=true  -> 1 byte, sign-extended to 16 bits
func decodeImmediate(s *stream, w, sBit bool) (uint16, error) {
	if !w {
		b, err := s.consume1()
		if err != nil {
			return 0, err
		}
		return uint16(b), nil
	}
	if sBit {
		b, err := s.consume1()
		if err != nil {
			return 0, err
		}
		v := uint16(b)
		if b&0x80 != 0 {
			v |= 0xFF00
		}
		return v, nil
	}
	b, err := s.consume(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}
