package assembler

import (
	"github.com/go-arm/arm7tdmi/encoder"
	"github.com/go-arm/arm7tdmi/parser"
)

// encodeKindOf translates an encoder.ErrorKind into its assembler
// equivalent -- the two enumerations name the same failures because the
// assembler is the only caller that can turn an encode failure into a
// diagnostic with a source position.
func encodeKindOf(k encoder.ErrorKind) ErrorKind {
	switch k {
	case encoder.ErrShiftOutOfRange:
		return ShiftOutOfRange
	case encoder.ErrOffsetOutOfRange:
		return OffsetOutOfRange
	case encoder.ErrMisalignedBranchOffset:
		return MisalignedBranchOffset
	case encoder.ErrImmediateOutOfRange:
		return ImmediateOutOfRange
	case encoder.ErrInvalidShiftType:
		return InvalidShiftType
	case encoder.ErrInvalidStoreSize:
		return InvalidStoreSize
	default:
		return AddressTooComplex
	}
}

func (ctx *buildContext) reportEncodeError(pos parser.Position, err error) {
	if ee, ok := err.(*encoder.Error); ok {
		ctx.errs.Add(newValueError(pos, encodeKindOf(ee.Kind), ee.Error(), ee.Value))
		return
	}
	ctx.errs.Add(newError(pos, AddressTooComplex, err.Error()))
}
