package encoder

import "github.com/go-arm/arm7tdmi/instr"

// encodeSingleTransfer encodes LDR/STR (word/byte), 12-bit immediate or
// shifted-register offset forms. bit26=1, bit25=register-operand flag, bit24=pre_index,
// bit23=offset_positive, bit22=byte, bit21=write_back (or force-user when
// not pre-indexed), bit20=load.
func encodeSingleTransfer(v instr.SingleTransfer) (uint32, error) {
	word := uint32(1) << 26
	if !v.Offset.IsConstant {
		word |= 1 << iBitShift
	}
	if v.PreIndex {
		word |= 1 << pBitShift
	}
	if v.OffsetPositive {
		word |= 1 << uBitShift
	}
	if v.Size == instr.Byte {
		word |= 1 << bBitShift
	}
	if v.WriteBack || !v.PreIndex {
		word |= 1 << wBitShift
	}
	if v.Kind == instr.Load {
		word |= 1 << lBitShift
	}
	word |= uint32(v.BaseReg) << rnShift
	word |= uint32(v.DataReg) << rdShift

	if v.Offset.IsConstant {
		if v.Offset.Constant > mask12 {
			return 0, newErr(ErrOffsetOutOfRange, uint32(v.Offset.Constant), "transfer offset exceeds 12 bits")
		}
		word |= uint32(v.Offset.Constant)
		return word, nil
	}
	if v.Offset.Shift.Amount.IsRegister {
		return 0, newErr(ErrInvalidShiftType, 0, "register-specified shift is not allowed on a transfer offset")
	}
	op, err := encodeShiftedOperand(v.Offset.Reg, v.Offset.Shift)
	if err != nil {
		return 0, err
	}
	return word | op, nil
}

func decodeSingleTransfer(word uint32) instr.SingleTransfer {
	v := instr.SingleTransfer{
		PreIndex:       (word>>pBitShift)&mask1 != 0,
		OffsetPositive: (word>>uBitShift)&mask1 != 0,
		WriteBack:      (word>>wBitShift)&mask1 != 0,
		BaseReg:        instr.Register((word >> rnShift) & mask4),
		DataReg:        instr.Register((word >> rdShift) & mask4),
	}
	if (word>>bBitShift)&mask1 != 0 {
		v.Size = instr.Byte
	}
	if (word>>lBitShift)&mask1 != 0 {
		v.Kind = instr.Load
	} else {
		v.Kind = instr.Store
	}
	if (word>>iBitShift)&mask1 == 0 {
		v.Offset = instr.TransferOperand{IsConstant: true, Constant: uint16(word & mask12)}
		return v
	}
	reg, sh := decodeShiftedOperand(word & mask12)
	v.Offset = instr.TransferOperand{Reg: reg, Shift: sh}
	return v
}

// encodeSingleTransferSpecial encodes the halfword/signed-byte/signed-
// halfword family. bits27:25=000, bit7=1, bit4=1, size selector at
// bits6:5. Store is only valid with HalfWord.
func encodeSingleTransferSpecial(v instr.SingleTransferSpecial) (uint32, error) {
	if v.Kind == instr.Store && v.Size != instr.HalfWord {
		return 0, &Error{Kind: ErrInvalidStoreSize, Msg: "only HalfWord may be stored with this form"}
	}
	word := uint32(1) << 7
	word |= 1 << 4
	if v.PreIndex {
		word |= 1 << pBitShift
	}
	if v.OffsetPositive {
		word |= 1 << uBitShift
	}
	if v.WriteBack || !v.PreIndex {
		word |= 1 << wBitShift
	}
	if v.Kind == instr.Load {
		word |= 1 << lBitShift
	}
	word |= uint32(v.BaseReg) << rnShift
	word |= uint32(v.DataReg) << rdShift

	var sizeBits uint32
	switch v.Size {
	case instr.HalfWord:
		sizeBits = 0b01
	case instr.SignedByte:
		sizeBits = 0b10
	case instr.SignedHalfWord:
		sizeBits = 0b11
	}
	word |= sizeBits << shiftTypeShift

	if v.Offset.IsConstant {
		word |= 1 << bBitShift
		hi := uint32(v.Offset.Constant) >> 4
		lo := uint32(v.Offset.Constant) & mask4
		word |= hi << 8
		word |= lo
		return word, nil
	}
	word |= uint32(v.Offset.Reg)
	return word, nil
}

func decodeSingleTransferSpecial(word uint32) instr.SingleTransferSpecial {
	v := instr.SingleTransferSpecial{
		PreIndex:       (word>>pBitShift)&mask1 != 0,
		OffsetPositive: (word>>uBitShift)&mask1 != 0,
		WriteBack:      (word>>wBitShift)&mask1 != 0,
		BaseReg:        instr.Register((word >> rnShift) & mask4),
		DataReg:        instr.Register((word >> rdShift) & mask4),
	}
	if (word>>lBitShift)&mask1 != 0 {
		v.Kind = instr.Load
	} else {
		v.Kind = instr.Store
	}
	switch (word >> shiftTypeShift) & mask2 {
	case 0b01:
		v.Size = instr.HalfWord
	case 0b10:
		v.Size = instr.SignedByte
	case 0b11:
		v.Size = instr.SignedHalfWord
	}
	if (word>>bBitShift)&mask1 != 0 {
		hi := (word >> 8) & mask4
		lo := word & mask4
		v.Offset = instr.SpecialOperand{IsConstant: true, Constant: uint8(hi<<4 | lo)}
		return v
	}
	v.Offset = instr.SpecialOperand{Reg: instr.Register(word & mask4)}
	return v
}
