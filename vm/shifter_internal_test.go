package vm

import (
	"testing"

	"github.com/go-arm/arm7tdmi/instr"
	"github.com/stretchr/testify/assert"
)

func TestShiftLSLEdgeCases(t *testing.T) {
	r, c := shiftLSL(0xFFFFFFFF, 0, true)
	assert.Equal(t, uint32(0xFFFFFFFF), r)
	assert.True(t, c) // LSL #0 is identity with current carry

	r, c = shiftLSL(1, 31, false)
	assert.Equal(t, uint32(0x80000000), r)
	assert.False(t, c) // carry is bit 32-n of the input (bit 1 of 1 is clear)

	r, c = shiftLSL(1, 32, false)
	assert.Equal(t, uint32(0), r)
	assert.True(t, c) // LSL #32 -> 0, carry = old LSB

	r, c = shiftLSL(0x80000000, 33, false)
	assert.Equal(t, uint32(0), r)
	assert.False(t, c) // LSL >= 33 -> 0, carry = 0
}

func TestShiftLSREdgeCases(t *testing.T) {
	r, c := shiftLSR(0x80000000, 32, false)
	assert.Equal(t, uint32(0), r)
	assert.True(t, c) // LSR #32 -> 0, carry = old MSB

	r, c = shiftLSR(0x80000000, 33, false)
	assert.Equal(t, uint32(0), r)
	assert.False(t, c)
}

func TestShiftASRPreservesSign(t *testing.T) {
	r, c := shiftASR(0x80000000, 4, false)
	assert.Equal(t, uint32(0xF8000000), r)
	assert.False(t, c)

	r, c = shiftASR(0x80000000, 32, false)
	assert.Equal(t, uint32(0xFFFFFFFF), r)
	assert.True(t, c) // amount >= 32 with a negative value saturates to all-ones

	r, c = shiftASR(0x7FFFFFFF, 32, false)
	assert.Equal(t, uint32(0), r)
	assert.False(t, c)
}

func TestShiftRORWrapsAndReportsCarry(t *testing.T) {
	r, c := shiftROR(1, 1, false)
	assert.Equal(t, uint32(0x80000000), r)
	assert.True(t, c)

	r, c = shiftROR(0xF0, 0, true)
	assert.Equal(t, uint32(0xF0), r)
	assert.True(t, c) // a register-specified amount of 0 leaves carry unaffected
}

func TestShiftRRXRotatesThroughCarry(t *testing.T) {
	r, c := shift(instr.Shift{Type: instr.RRX}, 0x1, 0, true)
	assert.Equal(t, uint32(0x80000000), r)
	assert.True(t, c) // old LSB becomes the new carry

	r, c = shift(instr.Shift{Type: instr.RRX}, 0x2, 0, false)
	assert.Equal(t, uint32(0x1), r)
	assert.False(t, c)
}
