package instr

import "fmt"

// ShiftType is the barrel shifter operation applied to a data-processing
// or transfer operand.
type ShiftType uint8

const (
	LSL ShiftType = iota
	LSR
	ASR
	ROR
	// RRX is its own ShiftType, carried with ShiftAmount{Const: 1}; the
	// decoder recognises "ROR #0" in the machine word and rewrites it to
	// RRX before the model ever sees a ROR-amount-zero value.
	RRX
)

func (t ShiftType) String() string {
	switch t {
	case LSL:
		return "LSL"
	case LSR:
		return "LSR"
	case ASR:
		return "ASR"
	case ROR:
		return "ROR"
	case RRX:
		return "RRX"
	default:
		return "?"
	}
}

// ShiftAmount is either a 5-bit constant or a register whose low byte
// supplies the runtime shift amount.
type ShiftAmount struct {
	IsRegister bool
	Const      uint8    // valid when !IsRegister, 0..32 (32 only for LSR/ASR)
	Reg        Register // valid when IsRegister
}

// ConstAmount builds an immediate ShiftAmount.
func ConstAmount(n uint8) ShiftAmount { return ShiftAmount{Const: n} }

// RegAmount builds a register-specified ShiftAmount.
func RegAmount(r Register) ShiftAmount { return ShiftAmount{IsRegister: true, Reg: r} }

// Shift pairs a ShiftType with its amount. RRX carries ShiftAmount{Const: 1}
// by convention, even though the encoding places no amount field.
type Shift struct {
	Type   ShiftType
	Amount ShiftAmount
}

// NoShift is LSL #0, the identity shift.
var NoShift = Shift{Type: LSL, Amount: ConstAmount(0)}

func (s Shift) String() string {
	if s == NoShift {
		return ""
	}
	if s.Type == RRX {
		return "RRX"
	}
	if s.Amount.IsRegister {
		return fmt.Sprintf("%s %s", s.Type, s.Amount.Reg)
	}
	return fmt.Sprintf("%s #%d", s.Type, s.Amount.Const)
}

// RotatedConstant is the ARM 12-bit immediate form: an 8-bit value
// right-rotated by an even amount (HalfRotate * 2).
type RotatedConstant struct {
	Imm        uint8
	HalfRotate uint8 // 0..15; actual rotation is HalfRotate*2
}

// Value returns the 32-bit value this rotated constant encodes.
func (rc RotatedConstant) Value() uint32 {
	return rotateRight32(uint32(rc.Imm), uint(rc.HalfRotate)*2)
}

func rotateRight32(v uint32, n uint) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (32 - n))
}

// EncodeRotatedConstant finds a RotatedConstant whose Value() equals v.
// It reports false when no even rotation brings v into the low 8 bits --
// the "unrepresentable" case the assembler's healing logic must handle.
func EncodeRotatedConstant(v uint32) (RotatedConstant, bool) {
	for rot := uint(0); rot < 32; rot += 2 {
		rotated := rotateRight32(v, rot)
		if rotated <= 0xFF {
			// rotateRight32(v, rot) == rotated  =>  v == rotateRight32(rotated, 32-rot)
			half := uint8(((32 - rot) % 32) / 2)
			return RotatedConstant{Imm: uint8(rotated), HalfRotate: half}, true
		}
	}
	return RotatedConstant{}, false
}

// DataOperand is the second operand of a data-processing instruction:
// either a rotated immediate or a shifted register.
type DataOperand struct {
	IsConstant bool
	Constant   RotatedConstant
	Reg        Register
	Shift      Shift
}

// TransferOperand is the offset of a word/byte single-data-transfer
// instruction: a 12-bit unsigned constant, or a shifted register with a
// constant (not register-specified) shift amount.
type TransferOperand struct {
	IsConstant bool
	Constant   uint16 // 0..4095
	Reg        Register
	Shift      Shift // Amount must not be register-specified
}

// SpecialOperand is the offset of a halfword/signed-byte transfer: an
// 8-bit unsigned constant or a bare register.
type SpecialOperand struct {
	IsConstant bool
	Constant   uint8
	Reg        Register
}

// MsrSource is the operand supplied to MSR.
type MsrSource struct {
	Kind MsrSourceKind
	Reg  Register // MsrSourceRegister, MsrSourceRegisterFlags
	Imm  uint32   // MsrSourceFlags: the full 32-bit value to place in NZCV
}

type MsrSourceKind uint8

const (
	MsrSourceRegister MsrSourceKind = iota
	MsrSourceRegisterFlags
	MsrSourceFlags
)
