package reg

// EACKind tags one of the nine effective-address forms the 8086 supports
// in its MOD/R-M byte.
type EACKind uint8

const (
	BxSi EACKind = iota
	BxDi
	BpSi
	BpDi
	Si
	Di
	Bp
	Bx
	DirectAddress
)

// eacNames mirrors EAC_REGISTER from the reference decoder: the textual
// base+index expression for every R/M encoding 0..7 (DirectAddress is the
// MOD=00,R/M=110 special case and has no base expression of its own).
var eacNames = [8]string{
	"bx + si",
	"bx + di",
	"bp + si",
	"bp + di",
	"si",
	"di",
	"bp",
	"bx",
}

// EAC is a resolved effective-address expression: a kind plus its 16-bit
// displacement (zero when absent).
type EAC struct {
	Kind EACKind
	Disp uint16
}

// FromRM builds the EAC for a MOD!=11 R/M field. mod00DirectAddress must be
// true exactly when mod==0b00 and rm==0b110, the one encoding that means an
// absolute address rather than "BP with no displacement."
func FromRM(rm uint8, mod00DirectAddress bool, disp uint16) EAC {
	if mod00DirectAddress {
		return EAC{Kind: DirectAddress, Disp: disp}
	}
	return EAC{Kind: EACKind(rm & 0x7), Disp: disp}
}

// Expr returns the bracket-interior text ("bx + si", "bp", ...); empty for
// DirectAddress, whose rendering is the displacement alone.
func (e EAC) Expr() string {
	if e.Kind == DirectAddress {
		return ""
	}
	return eacNames[e.Kind]
}

// Bases returns the register ordinals summed to form the address; empty for
// DirectAddress.
func (e EAC) Bases() []ID {
	switch e.Kind {
	case BxSi:
		return []ID{BX, SI}
	case BxDi:
		return []ID{BX, DI}
	case BpSi:
		return []ID{BP, SI}
	case BpDi:
		return []ID{BP, DI}
	case Si:
		return []ID{SI}
	case Di:
		return []ID{DI}
	case Bp:
		return []ID{BP}
	case Bx:
		return []ID{BX}
	default:
		return nil
	}
}
