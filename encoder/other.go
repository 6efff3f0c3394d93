package encoder

import "github.com/go-arm/arm7tdmi/instr"

// psrRBit returns the R bit (0=CPSR, 1=SPSR) shared by MRS/MSR.
func psrRBit(p instr.PSR) uint32 {
	if p == instr.SPSR {
		return 1
	}
	return 0
}

// encodeMrs encodes MRS Rd, {CPSR|SPSR}: the "undefined TST" sentinel
// pattern repurposed by the ARM7TDMI for PSR transfer.
func encodeMrs(v instr.Mrs) uint32 {
	word := uint32(0b00010) << 23
	word |= psrRBit(v.Psr) << 22
	word |= uint32(0b001111) << 16
	word |= uint32(v.Target) << rdShift
	return word
}

func decodeMrs(word uint32) instr.Mrs {
	psr := instr.CPSR
	if (word>>22)&mask1 != 0 {
		psr = instr.SPSR
	}
	return instr.Mrs{Psr: psr, Target: instr.Register((word >> rdShift) & mask4)}
}

// fieldMaskFull/FlagsOnly select which PSR bytes an MSR write may touch;
// see the ARM7TDMI "MSR field mask" bits 19:16. This model only ever
// writes the full register or just the flag byte.
const (
	fieldMaskFull       = 0b1111
	fieldMaskFlagsOnly  = 0b1000
)

// encodeMsr encodes MSR {CPSR|SPSR}{_flg}, source. The immediate form
// packs the top 4 bits of the intended value into a rotated constant
// whose shift places them at bits 31:28 of the target register.
func encodeMsr(v instr.Msr) (uint32, error) {
	word := uint32(0b00010) << 23
	word |= psrRBit(v.Psr) << 22
	word |= uint32(0b10) << 20
	word |= uint32(0b1111) << 12

	switch v.Source.Kind {
	case instr.MsrSourceRegister:
		word |= fieldMaskFull << 16
		word |= uint32(v.Source.Reg)
		return word, nil
	case instr.MsrSourceRegisterFlags:
		word |= fieldMaskFlagsOnly << 16
		word |= uint32(v.Source.Reg)
		return word, nil
	default: // MsrSourceFlags: immediate
		word |= fieldMaskFlagsOnly << 16
		word |= 1 << iBitShift
		rc, ok := instr.EncodeRotatedConstant(v.Source.Imm)
		if !ok {
			return 0, newErr(ErrImmediateOutOfRange, v.Source.Imm, "MSR immediate flags value is not a valid rotated constant")
		}
		word |= uint32(rc.HalfRotate) << 8
		word |= uint32(rc.Imm)
		return word, nil
	}
}

func decodeMsr(word uint32) instr.Msr {
	psr := instr.CPSR
	if (word>>22)&mask1 != 0 {
		psr = instr.SPSR
	}
	fieldMask := (word >> 16) & mask4
	flagsOnly := fieldMask != fieldMaskFull

	if (word>>iBitShift)&mask1 != 0 {
		rot := uint8((word >> 8) & mask4)
		imm := uint8(word & mask8)
		rc := instr.RotatedConstant{Imm: imm, HalfRotate: rot}
		return instr.Msr{Psr: psr, Source: instr.MsrSource{Kind: instr.MsrSourceFlags, Imm: rc.Value()}}
	}
	reg := instr.Register(word & mask4)
	if flagsOnly {
		return instr.Msr{Psr: psr, Source: instr.MsrSource{Kind: instr.MsrSourceRegisterFlags, Reg: reg}}
	}
	return instr.Msr{Psr: psr, Source: instr.MsrSource{Kind: instr.MsrSourceRegister, Reg: reg}}
}

// encodeMultiply encodes MUL/MLA. Signature bit4=1, bit7=1, bits27:25=0.
func encodeMultiply(v instr.Multiply) uint32 {
	word := uint32(1) << 7
	word |= 1 << 4
	if v.SetFlags {
		word |= 1 << sBitShift
	}
	if v.HasAddend {
		word |= 1 << 21
	}
	word |= uint32(v.Dest) << rnShift
	word |= uint32(v.Addend) << rdShift
	word |= uint32(v.Op2) << rsShift
	word |= uint32(v.Op1)
	return word
}

func decodeMultiply(word uint32) instr.Multiply {
	accumulate := (word>>21)&mask1 != 0
	return instr.Multiply{
		SetFlags:  (word>>sBitShift)&mask1 != 0,
		Dest:      instr.Register((word >> rnShift) & mask4),
		Addend:    instr.Register((word >> rdShift) & mask4),
		HasAddend: accumulate,
		Op2:       instr.Register((word >> rsShift) & mask4),
		Op1:       instr.Register(word & mask4),
	}
}

// encodeMultiplyLong encodes UMULL/UMLAL/SMULL/SMLAL. Bit23=long,
// bit22=signed, bit21=accumulate.
func encodeMultiplyLong(v instr.MultiplyLong) uint32 {
	word := uint32(1) << 23
	word |= 1 << 7
	word |= 1 << 4
	if v.Signed {
		word |= 1 << 22
	}
	if v.Accumulate {
		word |= 1 << 21
	}
	if v.SetFlags {
		word |= 1 << sBitShift
	}
	word |= uint32(v.DestHi) << rnShift
	word |= uint32(v.DestLo) << rdShift
	word |= uint32(v.Op2) << rsShift
	word |= uint32(v.Op1)
	return word
}

func decodeMultiplyLong(word uint32) instr.MultiplyLong {
	return instr.MultiplyLong{
		SetFlags:   (word>>sBitShift)&mask1 != 0,
		Signed:     (word>>22)&mask1 != 0,
		Accumulate: (word>>21)&mask1 != 0,
		DestHi:     instr.Register((word >> rnShift) & mask4),
		DestLo:     instr.Register((word >> rdShift) & mask4),
		Op2:        instr.Register((word >> rsShift) & mask4),
		Op1:        instr.Register(word & mask4),
	}
}

// encodeBlockTransfer encodes LDM/STM. bits27:25=100, bit24=P, bit23=U,
// bit22=S (PSR-and-force-user), bit21=W, bit20=L. This resolves the
// block-transfer open question using the well-known ARM7TDMI layout.
func encodeBlockTransfer(v instr.BlockTransfer) uint32 {
	word := uint32(0b100) << 25
	if v.PreIndex {
		word |= 1 << pBitShift
	}
	if v.OffsetPositive {
		word |= 1 << uBitShift
	}
	if v.PSRAndForceUser {
		word |= 1 << bBitShift
	}
	if v.WriteBack {
		word |= 1 << wBitShift
	}
	if v.Kind == instr.Load {
		word |= 1 << lBitShift
	}
	word |= uint32(v.BaseReg) << rnShift
	word |= uint32(v.Registers)
	return word
}

func decodeBlockTransfer(word uint32) instr.BlockTransfer {
	kind := instr.Store
	if (word>>lBitShift)&mask1 != 0 {
		kind = instr.Load
	}
	return instr.BlockTransfer{
		Kind:            kind,
		PreIndex:        (word>>pBitShift)&mask1 != 0,
		OffsetPositive:  (word>>uBitShift)&mask1 != 0,
		PSRAndForceUser: (word>>bBitShift)&mask1 != 0,
		WriteBack:       (word>>wBitShift)&mask1 != 0,
		BaseReg:         instr.Register((word >> rnShift) & mask4),
		Registers:       uint16(word & mask16),
	}
}

// encodeSwap encodes SWP/SWPB. bits27:23=00010, bit22=B, bits21:20=00,
// bits11:4=00001001. This resolves the swap open question the same way.
func encodeSwap(v instr.Swap) uint32 {
	word := uint32(0b00010) << 23
	if v.Byte {
		word |= 1 << bBitShift
	}
	word |= uint32(v.Base) << rnShift
	word |= uint32(v.Dest) << rdShift
	word |= uint32(0b00001001) << 4
	word |= uint32(v.Source)
	return word
}

func decodeSwap(word uint32) instr.Swap {
	return instr.Swap{
		Byte:   (word>>bBitShift)&mask1 != 0,
		Base:   instr.Register((word >> rnShift) & mask4),
		Dest:   instr.Register((word >> rdShift) & mask4),
		Source: instr.Register(word & mask4),
	}
}

// encodeSWI encodes SWI: bits27:24=1111, bits23:0=comment.
func encodeSWI(v instr.SoftwareInterrupt) uint32 {
	return uint32(0b1111)<<24 | (v.Comment & mask24)
}

func decodeSWI(word uint32) instr.SoftwareInterrupt {
	return instr.SoftwareInterrupt{Comment: word & mask24}
}
