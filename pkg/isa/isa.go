// Package isa defines the closed set of 8086 operations and operand shapes
// this project understands: a tagged union dispatched by switch, not an
// open interface hierarchy, so adding an operation means extending the enum
// and every switch that matches on it.
package isa

import "github.com/oisee/intel8086/pkg/reg"

// Operation is the instruction's verb.
type Operation uint8

const (
	OpInvalid Operation = iota
	MOV
	ADD
	SUB
	CMP

	// Short conditional jumps. Only JE/JNE/JS/JNS execute (see pkg/cpu);
	// the rest decode and render but the executor declines to run them.
	JO
	JNO
	JB
	JNB
	JE
	JNE
	JBE
	JNBE
	JS
	JNS
	JP
	JNP
	JL
	JNL
	JLE
	JNLE
	JCXZ
	JMP

	LOOPNZ
	LOOPZ
	LOOP
)

// mnemonics gives the NASM-syntax lowercase name for every operation.
var mnemonics = map[Operation]string{
	MOV:    "mov",
	ADD:    "add",
	SUB:    "sub",
	CMP:    "cmp",
	JO:     "jo",
	JNO:    "jno",
	JB:     "jb",
	JNB:    "jnb",
	JE:     "je",
	JNE:    "jne",
	JBE:    "jbe",
	JNBE:   "jnbe",
	JS:     "js",
	JNS:    "jns",
	JP:     "jp",
	JNP:    "jnp",
	JL:     "jl",
	JNL:    "jnl",
	JLE:    "jle",
	JNLE:   "jnle",
	JCXZ:   "jcxz",
	JMP:    "jmp",
	LOOPNZ: "loopnz",
	LOOPZ:  "loopz",
	LOOP:   "loop",
}

func (o Operation) String() string {
	if s, ok := mnemonics[o]; ok {
		return s
	}
	return "???"
}

// IsJump reports whether o is one of the 18 short conditional jumps.
func (o Operation) IsJump() bool {
	return o >= JO && o <= JMP
}

// IsLoop reports whether o is one of the three loop instructions.
func (o Operation) IsLoop() bool {
	return o >= LOOPNZ && o <= LOOP
}

// shortJumpOpcodes maps the 18 single-byte short jump opcodes to their
// Operation, mirroring SHORT_JUMPS from the reference decoder.
var shortJumpOpcodes = map[uint8]Operation{
	0x70: JO,
	0x71: JNO,
	0x72: JB,
	0x73: JNB,
	0x74: JE,
	0x75: JNE,
	0x76: JBE,
	0x77: JNBE,
	0x78: JS,
	0x79: JNS,
	0x7A: JP,
	0x7B: JNP,
	0x7C: JL,
	0x7D: JNL,
	0x7E: JLE,
	0x7F: JNLE,
	0xE3: JCXZ,
	0xEB: JMP,
}

// loopOpcodes maps the three loop opcodes to their Operation, mirroring
// LOOP_JUMPS from the reference decoder.
var loopOpcodes = map[uint8]Operation{
	0xE0: LOOPNZ,
	0xE1: LOOPZ,
	0xE2: LOOP,
}

// ShortJumpFor returns the Operation for a short-jump opcode byte.
func ShortJumpFor(b uint8) (Operation, bool) {
	op, ok := shortJumpOpcodes[b]
	return op, ok
}

// LoopFor returns the Operation for a loop opcode byte.
func LoopFor(b uint8) (Operation, bool) {
	op, ok := loopOpcodes[b]
	return op, ok
}

// OperandKind tags which variant of Operand is populated.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandImmediate
	OperandMemory
	OperandJumpOffset
)

// Operand is a tagged union: exactly one of the fields named by Kind is
// meaningful.
type Operand struct {
	Kind   OperandKind
	Reg    reg.Reg
	Imm    uint16
	Mem    reg.EAC
	Offset int8
}

func RegisterOperand(r reg.Reg) Operand { return Operand{Kind: OperandRegister, Reg: r} }
func ImmediateOperand(v uint16) Operand { return Operand{Kind: OperandImmediate, Imm: v} }
func MemoryOperand(e reg.EAC) Operand   { return Operand{Kind: OperandMemory, Mem: e} }
func JumpOffsetOperand(o int8) Operand  { return Operand{Kind: OperandJumpOffset, Offset: o} }

// Instruction is a fully decoded 8086 instruction: its raw encoding, the
// operation, up to two operands, and the bit fields the renderer needs to
// disambiguate operand width when neither operand carries its own size.
type Instruction struct {
	Bytes []byte
	Op    Operation
	Dst   Operand
	Src   Operand
	Wide  bool // the instruction's W bit; consulted only when Dst/Src are both memory/immediate
}

// Len is the number of bytes this instruction consumed from the stream.
func (i Instruction) Len() int { return len(i.Bytes) }
