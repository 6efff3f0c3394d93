package encoder

import "github.com/go-arm/arm7tdmi/instr"

// encodeBranchExchange encodes BX: fixed pattern with Rm in bits 3:0.
func encodeBranchExchange(v instr.BranchExchange) uint32 {
	return 0x012FFF10 | uint32(v.Reg)
}

// encodeBranch encodes B/BL. bits 27:25 = 101, bit 24 = link,
// bits 23:0 = (offset/4) truncated to 24 bits.
func encodeBranch(v instr.Branch) (uint32, error) {
	if v.Offset%4 != 0 {
		return 0, newErr(ErrMisalignedBranchOffset, uint32(v.Offset), "branch offset must be a multiple of 4")
	}
	shifted := v.Offset / 4
	if shifted > 0x7FFFFF || shifted < -0x800000 {
		return 0, newErr(ErrOffsetOutOfRange, uint32(v.Offset), "branch offset does not fit in 24 signed bits after >>2")
	}
	word := uint32(0b101) << 25
	if v.Link {
		word |= 1 << 24
	}
	word |= uint32(shifted) & mask24
	return word, nil
}

// decodeBranchExchange and decodeBranch live here next to their encode
// counterparts and are called from Decode in decoder.go.
func decodeBranch(word uint32) instr.Branch {
	raw := word & mask24
	offset := int32(raw)
	if raw&offset24SignBit != 0 {
		offset = int32(raw | offset24SignExt)
	}
	return instr.Branch{
		Link:   (word>>24)&mask1 != 0,
		Offset: offset * 4,
	}
}

func decodeBranchExchange(word uint32) instr.BranchExchange {
	return instr.BranchExchange{Reg: instr.Register(word & mask4)}
}
