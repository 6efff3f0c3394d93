package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddWithFlagsCarryAndOverflow(t *testing.T) {
	r, f := addWithFlags(0xFFFFFFFF, 1, false)
	assert.Equal(t, uint32(0), r)
	assert.True(t, f.Z)
	assert.True(t, f.C)
	assert.False(t, f.V)

	// 0x7FFFFFFF + 1 overflows a signed 32-bit add (positive + positive = negative).
	r, f = addWithFlags(0x7FFFFFFF, 1, false)
	assert.Equal(t, uint32(0x80000000), r)
	assert.True(t, f.N)
	assert.True(t, f.V)
	assert.False(t, f.C)
}

func TestSubWithFlagsMatchesCmpLaws(t *testing.T) {
	// CMP a, b computes a - b via subWithFlags(a, b, true): a==b <=> Z,
	// a<b (unsigned) <=> !C.
	_, f := subWithFlags(5, 5, true)
	assert.True(t, f.Z)
	assert.True(t, f.C) // no borrow: a >= b unsigned

	_, f = subWithFlags(3, 5, true)
	assert.False(t, f.Z)
	assert.False(t, f.C) // borrow occurred: a < b unsigned

	// a<b (signed) <=> N != V: -1 (0xFFFFFFFF) compared against 0x7FFFFFFF
	// (the largest positive value) is signed-less; the difference
	// 0x80000000 is negative and does not overflow, so N is set and V clear.
	r, f := subWithFlags(0xFFFFFFFF, 0x7FFFFFFF, true)
	assert.Equal(t, uint32(0x80000000), r)
	assert.NotEqual(t, f.N, f.V)
}

func TestLogicalFlagsLeavesOverflowUntouched(t *testing.T) {
	f := logicalFlags(0x80000000, true, false)
	assert.True(t, f.N)
	assert.False(t, f.Z)
	assert.True(t, f.C)
	assert.False(t, f.V)

	f = logicalFlags(0, false, true)
	assert.False(t, f.N)
	assert.True(t, f.Z)
	assert.False(t, f.C)
	assert.True(t, f.V) // V is carried through from the caller, not recomputed
}
