package sim

import (
	"testing"

	"github.com/oisee/intel8086/pkg/reg"
)

// TestDisassembleThenSimulateAgree decodes and renders a short program,
// then simulates it and checks the final register state and that as many
// instructions ran as were decoded.
func TestDisassembleThenSimulateAgree(t *testing.T) {
	// mov cx, 5 ; mov bx, 10 ; add bx, cx
	program := []byte{
		0xB9, 0x05, 0x00,
		0xBB, 0x0A, 0x00,
		0x01, 0xCB,
	}

	instructions, err := Disassemble(program)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(instructions))
	}

	listing := ToASM(instructions)
	if listing == "" {
		t.Fatal("ToASM produced empty listing")
	}

	result, err := Simulate(program)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if got := result.CPU.Register(reg.BX); got != 15 {
		t.Errorf("BX = %d, want 15", got)
	}
	if got := result.CPU.Register(reg.CX); got != 5 {
		t.Errorf("CX = %d, want 5", got)
	}
	if len(result.Executed) != 3 {
		t.Errorf("executed %d instructions, want 3", len(result.Executed))
	}
}

// TestSimulateMemoryRoundTrip stores a word through [bx] and loads it back
// into cx, checking both the register and the little-endian bytes in memory.
func TestSimulateMemoryRoundTrip(t *testing.T) {
	// mov bx, 0x1000 ; mov word [bx], 0xABCD ; mov cx, [bx]
	program := []byte{
		0xBB, 0x00, 0x10,
		0xC7, 0x07, 0xCD, 0xAB,
		0x8B, 0x0F,
	}
	result, err := Simulate(program)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if got := result.CPU.Register(reg.CX); got != 0xABCD {
		t.Errorf("CX = %04X, want ABCD", got)
	}
	mem := result.CPU.Memory()
	if mem[0x1000] != 0xCD || mem[0x1001] != 0xAB {
		t.Errorf("memory = %02X %02X, want CD AB", mem[0x1000], mem[0x1001])
	}
	// mov reg,imm = 4; mov mem,imm = 10 (even address, no surcharge);
	// mov reg,mem = 8 + 5 for the bare-bx effective address.
	if got, want := result.Cycles, 27; got != want {
		t.Errorf("cycles = %d, want %d", got, want)
	}
}

// TestSimulateConditionalJump verifies IP-first semantics: the offset in a
// short jump is relative to the instruction following the jump.
func TestSimulateConditionalJump(t *testing.T) {
	// mov cx, 0      ; flags untouched (3 bytes)
	// add cx, 0      ; sets Z=1        (3 bytes)
	// je skip(+3)    ; taken           (2 bytes)
	// mov bx, 99     ; skipped         (3 bytes)
	// skip: mov dx, 1                  (3 bytes)
	program := []byte{
		0xB9, 0x00, 0x00,
		0x83, 0xC1, 0x00,
		0x74, 0x03,
		0xBB, 0x63, 0x00,
		0xBA, 0x01, 0x00,
	}
	result, err := Simulate(program)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if got := result.CPU.Register(reg.BX); got != 0 {
		t.Errorf("BX = %d, want 0 (mov bx,99 should have been skipped)", got)
	}
	if got := result.CPU.Register(reg.DX); got != 1 {
		t.Errorf("DX = %d, want 1", got)
	}
}
