package decode

import (
	"testing"

	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

func TestDecodeRegMemToFromReg(t *testing.T) {
	// mov cx, bx
	ins, err := One([]byte{0x89, 0xD9})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Len() != 2 {
		t.Fatalf("len = %d, want 2", ins.Len())
	}
	if ins.Op != isa.MOV {
		t.Fatalf("op = %v, want mov", ins.Op)
	}
	if ins.Dst.Kind != isa.OperandRegister || ins.Dst.Reg.Name != "cx" {
		t.Errorf("dst = %+v, want cx", ins.Dst)
	}
	if ins.Src.Kind != isa.OperandRegister || ins.Src.Reg.Name != "bx" {
		t.Errorf("src = %+v, want bx", ins.Src)
	}
}

func TestDecodeImmediateToRegister(t *testing.T) {
	// mov cx, 12
	ins, err := One([]byte{0xB9, 0x0C, 0x00})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Len() != 3 {
		t.Fatalf("len = %d, want 3", ins.Len())
	}
	if ins.Dst.Reg.Name != "cx" {
		t.Errorf("dst = %+v, want cx", ins.Dst)
	}
	if ins.Src.Imm != 12 {
		t.Errorf("src imm = %d, want 12", ins.Src.Imm)
	}
}

func TestDecodeDirectAddressSpecialCase(t *testing.T) {
	// mov [1000], ax  -> 1010001 1, disp lo/hi
	ins, err := One([]byte{0xA3, 0xE8, 0x03})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Dst.Kind != isa.OperandMemory || ins.Dst.Mem.Kind != reg.DirectAddress {
		t.Fatalf("dst = %+v, want direct address", ins.Dst)
	}
	if ins.Dst.Mem.Disp != 1000 {
		t.Errorf("disp = %d, want 1000", ins.Dst.Mem.Disp)
	}
}

func TestDecodeModZeroRMSixIsDirectAddress(t *testing.T) {
	// mov cx, [1000]  -> 100010 1 1, mod=00 reg=001 rm=110, disp lo/hi
	ins, err := One([]byte{0x8B, 0x0E, 0xE8, 0x03})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Src.Mem.Kind != reg.DirectAddress {
		t.Errorf("rm=110,mod=00 must decode as DirectAddress, got %+v", ins.Src.Mem)
	}
	if ins.Src.Mem.Disp != 1000 {
		t.Errorf("disp = %d, want 1000", ins.Src.Mem.Disp)
	}
}

func TestDecodeSignExtendedImmediate(t *testing.T) {
	// add word [bx], -1 with s=1,w=1 -> sign-extends 0xFF to 0xFFFF
	// 100000 1 1, mod=00 reg=000(add) rm=111(bx), imm=0xFF
	ins, err := One([]byte{0x83, 0x07, 0xFF})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Op != isa.ADD {
		t.Fatalf("op = %v, want add", ins.Op)
	}
	if ins.Src.Imm != 0xFFFF {
		t.Errorf("imm = %04X, want FFFF (sign-extended)", ins.Src.Imm)
	}
}

func TestDecodeShortJumpAndLoop(t *testing.T) {
	ins, err := One([]byte{0x75, 0xFE}) // jne, offset -2 (renders as $+0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Op != isa.JNE {
		t.Fatalf("op = %v, want jne", ins.Op)
	}
	if ins.Dst.Offset != -2 {
		t.Errorf("offset = %d, want -2", ins.Dst.Offset)
	}

	ins, err = One([]byte{0xE2, 0xFA}) // loop, offset -6 (renders as $-4+0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.Op != isa.LOOP {
		t.Fatalf("op = %v, want loop", ins.Op)
	}
}

func TestDecodeIncompleteByteStream(t *testing.T) {
	_, err := One([]byte{0x89})
	if err == nil {
		t.Fatal("expected IncompleteByteStream error")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != IncompleteByteStream {
		t.Errorf("err = %v, want IncompleteByteStream", err)
	}
}

func TestDecodeUnsupportedOpcode(t *testing.T) {
	_, err := One([]byte{0xF4}) // HLT, not modeled
	if err == nil {
		t.Fatal("expected UnsupportedOpcode error")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != UnsupportedOpcode {
		t.Errorf("err = %v, want UnsupportedOpcode", err)
	}
}

func TestDecodeUnsupportedOperationField(t *testing.T) {
	// 100000sw form with the unassigned 010 op field in byte 2.
	_, err := One([]byte{0x83, 0x17, 0x01})
	if err == nil {
		t.Fatal("expected UnsupportedOperation error")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != UnsupportedOperation {
		t.Errorf("err = %v, want UnsupportedOperation", err)
	}
	if ok && derr.Bits != 0b010 {
		t.Errorf("bits = %03b, want 010", derr.Bits)
	}
}

func TestAllStopsAtBufferEnd(t *testing.T) {
	// mov cx, bx ; mov dx, bx
	program := []byte{0x89, 0xD9, 0x89, 0xDA}
	instructions, err := All(program)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(instructions))
	}
}
