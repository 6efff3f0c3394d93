package encoder

import (
	"github.com/go-arm/arm7tdmi/instr"
)

// Encode converts a symbolic instruction under the given condition into
// its 32-bit ARM7TDMI machine word. It is a single exhaustive switch over
// instr.Instr; every arm composes its bit fields explicitly so the
// layout in §4.4 of the instruction model stays easy to audit next to
// Decode below.
func Encode(cond instr.Cond, in instr.Instr) (uint32, error) {
	top := cond.Bits() << condShift

	switch v := in.(type) {
	case instr.BranchExchange:
		return top | encodeBranchExchange(v), nil
	case instr.Branch:
		word, err := encodeBranch(v)
		return top | word, err
	case instr.Data:
		word, err := encodeData(v)
		return top | word, err
	case instr.Mrs:
		return top | encodeMrs(v), nil
	case instr.Msr:
		word, err := encodeMsr(v)
		return top | word, err
	case instr.Multiply:
		return top | encodeMultiply(v), nil
	case instr.MultiplyLong:
		return top | encodeMultiplyLong(v), nil
	case instr.SingleTransfer:
		word, err := encodeSingleTransfer(v)
		return top | word, err
	case instr.SingleTransferSpecial:
		word, err := encodeSingleTransferSpecial(v)
		return top | word, err
	case instr.BlockTransfer:
		return top | encodeBlockTransfer(v), nil
	case instr.Swap:
		return top | encodeSwap(v), nil
	case instr.SoftwareInterrupt:
		return top | encodeSWI(v), nil
	default:
		return 0, newErr(ErrAddressTooComplex, 0, "unrecognised instruction variant")
	}
}
