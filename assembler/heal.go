package assembler

import "github.com/go-arm/arm7tdmi/instr"

// HealMode selects how an out-of-range data-processing immediate is
// repaired, per the "; HEAL OFF" / "; HEAL SIMPLE" magic comments (default
// Advanced with R12 as scratch).
type HealMode int

const (
	HealAdvanced HealMode = iota
	HealOff
	HealSimple
)

// DefaultScratch is the register Advanced healing materialises unrepresentable
// constants into.
const DefaultScratch = instr.R12

// materializeConstant synthesises the Data-processing sequence that loads v
// into dest, per §4.4: a single MOV if v is directly representable, a single
// MVN if its complement is, otherwise split at the lowest non-zero
// byte-aligned nibble pair, recurse on the high part, and OR in the low
// byte. Recursion terminates because each step clears the lowest set
// bits, so the remaining value has strictly fewer set bits.
func materializeConstant(v uint32, dest instr.Register) []instr.Data {
	if rc, ok := instr.EncodeRotatedConstant(v); ok {
		return []instr.Data{{Op: instr.MOV, Dest: dest, Op2: instr.DataOperand{IsConstant: true, Constant: rc}}}
	}
	if rc, ok := instr.EncodeRotatedConstant(^v); ok {
		return []instr.Data{{Op: instr.MVN, Dest: dest, Op2: instr.DataOperand{IsConstant: true, Constant: rc}}}
	}

	// Find the lowest set byte-pair (even nibble boundary) so the low 8
	// bits and its rotation can be expressed as one rotated immediate.
	lowShift := lowestSetByteShift(v)
	lowByte := (v >> lowShift) & 0xFF
	high := v &^ (0xFF << lowShift)

	seq := materializeConstant(high, dest)
	rot := uint8(((32 - lowShift) % 32) / 2)
	seq = append(seq, instr.Data{
		Op:   instr.ORR,
		Dest: dest,
		Op1:  dest,
		Op2:  instr.DataOperand{IsConstant: true, Constant: instr.RotatedConstant{Imm: uint8(lowByte), HalfRotate: rot}},
	})
	return seq
}

// lowestSetByteShift returns the largest even bit position <= the position
// of v's lowest set bit, clamped so the 8 bits above it stay in range.
func lowestSetByteShift(v uint32) uint {
	if v == 0 {
		return 0
	}
	shift := uint(0)
	for v&1 == 0 {
		v >>= 1
		shift++
	}
	shift &^= 1 // round down to an even (rotate-by-2) boundary
	if shift > 24 {
		shift = 24
	}
	return shift
}
