package encoder

// Bit field positions and masks shared between Encode and Decode, per the
// ARM7TDMI ARM-state instruction encoding.
const (
	condShift = 28

	opcodeShift = 21
	sBitShift   = 20
	rnShift     = 16
	rdShift     = 12
	rsShift     = 8

	pBitShift = 24
	uBitShift = 23
	bBitShift = 22
	wBitShift = 21
	lBitShift = 20

	shiftAmountShift = 7
	shiftTypeShift   = 5
	iBitShift        = 25

	mask1  = 0x1
	mask2  = 0x3
	mask3  = 0x7
	mask4  = 0xF
	mask5  = 0x1F
	mask8  = 0xFF
	mask12 = 0xFFF
	mask16 = 0xFFFF
	mask24 = 0xFFFFFF

	offset24SignBit = 0x800000
	offset24SignExt = 0xFF000000
)
