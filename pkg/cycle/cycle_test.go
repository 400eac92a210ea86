package cycle

import (
	"testing"

	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

func zeroResolve(e reg.EAC) uint16 { return e.Disp }

func TestCostRegisterToRegister(t *testing.T) {
	ax, _ := reg.ByName("ax")
	cx, _ := reg.ByName("cx")
	ins := isa.Instruction{Op: isa.MOV, Dst: isa.RegisterOperand(ax), Src: isa.RegisterOperand(cx)}
	if got, want := Cost(ins, zeroResolve), 2; got != want {
		t.Errorf("mov reg,reg cost = %d, want %d", got, want)
	}
}

func TestCostAddMemoryImmediateWithEA(t *testing.T) {
	ins := isa.Instruction{
		Op:  isa.ADD,
		Dst: isa.MemoryOperand(reg.EAC{Kind: reg.BxSi, Disp: 0}),
		Src: isa.ImmediateOperand(5),
	}
	// base 17 + eaCost(BxSi, disp=0)=7 = 24; address is even, no odd surcharge.
	if got, want := Cost(ins, zeroResolve), 24; got != want {
		t.Errorf("add mem,imm cost = %d, want %d", got, want)
	}
}

func TestCostOddAddressSurcharge(t *testing.T) {
	ins := isa.Instruction{
		Op:  isa.MOV,
		Dst: isa.MemoryOperand(reg.EAC{Kind: reg.DirectAddress, Disp: 1}),
		Src: isa.RegisterOperand(mustReg("ax")),
	}
	resolve := func(e reg.EAC) uint16 { return e.Disp }
	// mov mem,acc: base 10, 1 transfer, address 1 is odd -> +4.
	if got, want := Cost(ins, resolve), 14; got != want {
		t.Errorf("mov mem,acc odd-address cost = %d, want %d", got, want)
	}
}

func TestCostAccumulatorRowMatchesPlainRegisterToo(t *testing.T) {
	ins := isa.Instruction{Op: isa.ADD, Dst: isa.RegisterOperand(mustReg("ax")), Src: isa.ImmediateOperand(9)}
	if got, want := Cost(ins, zeroResolve), 4; got != want {
		t.Errorf("add ax,imm cost = %d, want %d", got, want)
	}
}

func mustReg(name string) reg.Reg {
	r, ok := reg.ByName(name)
	if !ok {
		panic("unknown register: " + name)
	}
	return r
}
