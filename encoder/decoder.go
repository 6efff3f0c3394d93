package encoder

import "github.com/go-arm/arm7tdmi/instr"

// Decode recovers (Cond, Instr) from a 32-bit ARM7TDMI ARM-state word.
// It returns ok=false when the condition field is 0b1111 or the word
// belongs to the coprocessor class -- the only two cases the decoder
// closure invariant permits. For every representable symbolic
// instruction S, Decode(Encode(cond, S)) reproduces (cond, S).
func Decode(word uint32) (cond instr.Cond, in instr.Instr, ok bool) {
	cond, ok = instr.CondFromBits(word >> condShift)
	if !ok {
		return 0, nil, false
	}

	bits27_25 := (word >> 25) & mask3
	bits27_26 := (word >> 26) & mask2
	bits24_23 := (word >> 23) & mask2
	bits21_20 := (word >> 21) & mask2

	switch {
	case bits27_25 == 0b101:
		return cond, decodeBranch(word), true

	case word&0x0FFFFFF0 == 0x012FFF10:
		return cond, decodeBranchExchange(word), true

	case (word>>24)&mask4 == 0b1111:
		return cond, decodeSWI(word), true

	case bits27_25 == 0b100:
		return cond, decodeBlockTransfer(word), true

	case (word>>23)&mask5 == 0b00010 && bits21_20 == 0b00 && (word>>4)&mask8 == 0b00001001:
		return cond, decodeSwap(word), true

	case (word>>23)&mask5 == 0b00001 && (word>>4)&mask4 == 0b1001:
		return cond, decodeMultiplyLong(word), true

	case (word>>22)&mask6 == 0 && (word>>4)&mask4 == 0b1001:
		return cond, decodeMultiply(word), true

	case bits27_26 == 0 && (word>>25)&mask1 == 0 && bits24_23 == 0b10 && bits21_20 == 0b00 &&
		(word>>16)&mask4 == 0b1111 && word&mask12 == 0:
		return cond, decodeMrs(word), true

	// Checked ahead of the MSR case below: a register-form MSR requires
	// its SBZ bits 11:4 all zero, but the SBO Rd-field-1111 check the MSR
	// guard uses coincides with a pre-indexed, writeback halfword/signed
	// transfer whose data register happens to be R15, so the narrower,
	// more specific match has to win first.
	case bits27_25 == 0b000 && (word>>7)&mask1 == 1 && (word>>4)&mask1 == 1 && (word>>5)&mask2 != 0:
		return cond, decodeSingleTransferSpecial(word), true

	case bits27_26 == 0 && bits24_23 == 0b10 && bits21_20 == 0b10 && (word>>12)&mask4 == 0b1111:
		return cond, decodeMsr(word), true

	case bits27_26 == 0b01:
		return cond, decodeSingleTransfer(word), true

	case bits27_26 == 0b00:
		return cond, decodeData(word), true

	default:
		return 0, nil, false
	}
}

const mask6 = 0x3F
