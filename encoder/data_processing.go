package encoder

import "github.com/go-arm/arm7tdmi/instr"

// encodeShiftedOperand encodes a register operand with a shift (used by
// Data.Op2 and SingleTransfer's register-offset form). Shift-amount 0 is
// canonicalised to LSL #0; LSR/ASR #32 are encoded as amount 0; RRX is
// ROR with bit 4 clear and amount field 0.
func encodeShiftedOperand(reg instr.Register, sh instr.Shift) (uint32, error) {
	var word uint32
	typ := sh.Type

	if typ == instr.RRX {
		// ROR #0 pattern: amount field 0, type ROR, bit4=0.
		word = uint32(instr.ROR) << shiftTypeShift
		word |= uint32(reg)
		return word, nil
	}

	if sh.Amount.IsRegister {
		if typ > instr.ROR {
			return 0, newErr(ErrInvalidShiftType, uint32(typ), "register-specified shift may not be RRX")
		}
		word = uint32(sh.Amount.Reg) << rsShift
		word |= uint32(typ) << shiftTypeShift
		word |= 1 << 4
		word |= uint32(reg)
		return word, nil
	}

	amount := sh.Amount.Const
	if amount == 0 {
		typ = instr.LSL
	}
	if amount > 32 {
		return 0, newErr(ErrShiftOutOfRange, uint32(amount), "constant shift amount must be 0..32")
	}
	encodedAmount := uint32(amount)
	if (typ == instr.LSR || typ == instr.ASR) && amount == 32 {
		encodedAmount = 0
	} else if amount == 32 && typ == instr.LSL {
		return 0, newErr(ErrShiftOutOfRange, uint32(amount), "LSL #32 is not representable")
	}
	word = encodedAmount << shiftAmountShift
	word |= uint32(typ) << shiftTypeShift
	word |= uint32(reg)
	return word, nil
}

// decodeShiftedOperand is the Decode-side inverse: given the low 12 bits
// of a register-operand data/transfer word, recover (reg, Shift).
func decodeShiftedOperand(word uint32) (instr.Register, instr.Shift) {
	reg := instr.Register(word & mask4)
	bit4 := (word >> 4) & mask1
	typ := instr.ShiftType((word >> shiftTypeShift) & mask2)

	if bit4 == 1 {
		rs := instr.Register((word >> rsShift) & mask4)
		return reg, instr.Shift{Type: typ, Amount: instr.RegAmount(rs)}
	}

	amount := uint8((word >> shiftAmountShift) & mask5)
	if amount == 0 && typ == instr.ROR {
		return reg, instr.Shift{Type: instr.RRX, Amount: instr.ConstAmount(1)}
	}
	if amount == 0 && (typ == instr.LSR || typ == instr.ASR) {
		amount = 32
	}
	return reg, instr.Shift{Type: typ, Amount: instr.ConstAmount(amount)}
}

func encodeData(v instr.Data) (uint32, error) {
	word := uint32(v.Op) << opcodeShift
	if v.Op.WritesDest() {
		word |= uint32(v.Dest) << rdShift
	} else {
		word |= 1 << sBitShift // implicit set_flags for TST/TEQ/CMP/CMN
	}
	if v.SetFlags && v.Op.WritesDest() {
		word |= 1 << sBitShift
	}
	word |= uint32(v.Op1) << rnShift

	if v.Op2.IsConstant {
		word |= 1 << iBitShift
		word |= uint32(v.Op2.Constant.HalfRotate) << 8
		word |= uint32(v.Op2.Constant.Imm)
		return word, nil
	}
	op2, err := encodeShiftedOperand(v.Op2.Reg, v.Op2.Shift)
	if err != nil {
		return 0, err
	}
	return word | op2, nil
}

func decodeData(word uint32) instr.Data {
	op := instr.DataOp((word >> opcodeShift) & mask4)
	d := instr.Data{
		Op:  op,
		Op1: instr.Register((word >> rnShift) & mask4),
	}
	if op.WritesDest() {
		d.Dest = instr.Register((word >> rdShift) & mask4)
		d.SetFlags = (word>>sBitShift)&mask1 != 0
	} else {
		d.SetFlags = true
	}

	if (word>>iBitShift)&mask1 != 0 {
		rot := uint8((word >> 8) & mask4)
		imm := uint8(word & mask8)
		d.Op2 = instr.DataOperand{IsConstant: true, Constant: instr.RotatedConstant{Imm: imm, HalfRotate: rot}}
		return d
	}
	reg, sh := decodeShiftedOperand(word & mask12)
	d.Op2 = instr.DataOperand{Reg: reg, Shift: sh}
	return d
}
