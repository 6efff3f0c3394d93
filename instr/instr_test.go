package instr_test

import (
	"testing"

	"github.com/go-arm/arm7tdmi/instr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatedConstantValue(t *testing.T) {
	tests := []struct {
		name string
		rc   instr.RotatedConstant
		want uint32
	}{
		{"no rotation", instr.RotatedConstant{Imm: 0xFF, HalfRotate: 0}, 0xFF},
		{"rotate by 8", instr.RotatedConstant{Imm: 0xFF, HalfRotate: 4}, 0xFF000000},
		{"rotate by 2", instr.RotatedConstant{Imm: 0x01, HalfRotate: 1}, 0x40000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rc.Value())
		})
	}
}

func TestEncodeRotatedConstantRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0xFF, 0xFF00, 0xFF000000, 0x000000FF, 0xF000000F, 0x3}
	for _, v := range values {
		rc, ok := instr.EncodeRotatedConstant(v)
		require.True(t, ok, "expected %#x to be representable", v)
		assert.Equal(t, v, rc.Value(), "round trip for %#x", v)
	}
}

func TestEncodeRotatedConstantUnrepresentable(t *testing.T) {
	_, ok := instr.EncodeRotatedConstant(0x101)
	assert.False(t, ok)
}

func TestRegisterPhysicalBanking(t *testing.T) {
	tests := []struct {
		reg  instr.Register
		mode instr.Mode
		want instr.PhysicalRegister
	}{
		{instr.R0, instr.ModeFIQ, instr.PhysR0},
		{instr.R8, instr.ModeFIQ, instr.PhysR8FIQ},
		{instr.R8, instr.ModeUser, instr.PhysR8},
		{instr.R13, instr.ModeUser, instr.PhysR13},
		{instr.R13, instr.ModeSystem, instr.PhysR13},
		{instr.R13, instr.ModeIRQ, instr.PhysR13IRQ},
		{instr.R14, instr.ModeSupervisor, instr.PhysR14SVC},
		{instr.R15, instr.ModeFIQ, instr.PhysR15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.reg.Physical(tt.mode), "R%d in %s", tt.reg, tt.mode)
	}
}

// TestRegisterPhysicalBankingFullTable walks every mode for R8-R14, the
// registers that bank, confirming each resolves to the distinct physical
// slot the ARM7TDMI banking table assigns it and that non-banked modes
// (User, System) always collapse back to the unbanked slot.
func TestRegisterPhysicalBankingFullTable(t *testing.T) {
	unbanked := []instr.Mode{instr.ModeUser, instr.ModeSystem}
	for _, m := range unbanked {
		assert.Equal(t, instr.PhysR8, instr.R8.Physical(m), "R8 in %s", m)
		assert.Equal(t, instr.PhysR13, instr.R13.Physical(m), "R13 in %s", m)
		assert.Equal(t, instr.PhysR14, instr.R14.Physical(m), "R14 in %s", m)
	}

	assert.Equal(t, instr.PhysR8FIQ, instr.R8.Physical(instr.ModeFIQ))
	assert.Equal(t, instr.PhysR12FIQ, instr.R12.Physical(instr.ModeFIQ))
	for _, m := range []instr.Mode{instr.ModeSupervisor, instr.ModeAbort, instr.ModeIRQ, instr.ModeUndefined} {
		assert.Equal(t, instr.PhysR8, instr.R8.Physical(m), "R8-R12 only bank in FIQ, not %s", m)
	}

	r13 := map[instr.Mode]instr.PhysicalRegister{
		instr.ModeFIQ:        instr.PhysR13FIQ,
		instr.ModeSupervisor: instr.PhysR13SVC,
		instr.ModeAbort:      instr.PhysR13ABT,
		instr.ModeIRQ:        instr.PhysR13IRQ,
		instr.ModeUndefined:  instr.PhysR13UND,
	}
	for m, want := range r13 {
		assert.Equal(t, want, instr.R13.Physical(m), "R13 in %s", m)
	}

	r14 := map[instr.Mode]instr.PhysicalRegister{
		instr.ModeFIQ:        instr.PhysR14FIQ,
		instr.ModeSupervisor: instr.PhysR14SVC,
		instr.ModeAbort:      instr.PhysR14ABT,
		instr.ModeIRQ:        instr.PhysR14IRQ,
		instr.ModeUndefined:  instr.PhysR14UND,
	}
	for m, want := range r14 {
		assert.Equal(t, want, instr.R14.Physical(m), "R14 in %s", m)
	}

	// R15 and R0-R7 never bank, in any mode.
	for _, m := range []instr.Mode{instr.ModeUser, instr.ModeFIQ, instr.ModeIRQ, instr.ModeSupervisor, instr.ModeAbort, instr.ModeUndefined, instr.ModeSystem} {
		assert.Equal(t, instr.PhysR15, instr.R15.Physical(m), "R15 in %s", m)
		assert.Equal(t, instr.PhysR0, instr.R0.Physical(m), "R0 in %s", m)
	}
}

// TestPSRPhysicalBankingFullTable walks every privileged mode, confirming
// each has its own distinct SPSR slot and that User/System have none.
func TestPSRPhysicalBankingFullTable(t *testing.T) {
	spsr := map[instr.Mode]instr.PhysicalRegister{
		instr.ModeFIQ:        instr.PhysSPSRFIQ,
		instr.ModeSupervisor: instr.PhysSPSRSVC,
		instr.ModeAbort:      instr.PhysSPSRABT,
		instr.ModeIRQ:        instr.PhysSPSRIRQ,
		instr.ModeUndefined:  instr.PhysSPSRUND,
	}
	for m, want := range spsr {
		phys, ok := instr.SPSR.Physical(m)
		require.True(t, ok, "SPSR should exist in %s", m)
		assert.Equal(t, want, phys, "SPSR in %s", m)
	}
	for _, m := range []instr.Mode{instr.ModeUser, instr.ModeSystem} {
		_, ok := instr.SPSR.Physical(m)
		assert.False(t, ok, "SPSR should not exist in %s", m)
	}
}

func TestPSRPhysicalNoSPSRInUserOrSystem(t *testing.T) {
	_, ok := instr.SPSR.Physical(instr.ModeUser)
	assert.False(t, ok)
	_, ok = instr.SPSR.Physical(instr.ModeSystem)
	assert.False(t, ok)
	phys, ok := instr.SPSR.Physical(instr.ModeFIQ)
	assert.True(t, ok)
	assert.Equal(t, instr.PhysSPSRFIQ, phys)
}

func TestModeFromBitsInvalidDefaultsUser(t *testing.T) {
	m, ok := instr.ModeFromBits(0b10101)
	assert.False(t, ok)
	assert.Equal(t, instr.ModeUser, m)
}

func TestCondTest(t *testing.T) {
	f := instr.Flags{Z: true}
	assert.True(t, instr.CondEQ.Test(f))
	assert.False(t, instr.CondNE.Test(f))
	assert.True(t, instr.CondAL.Test(instr.Flags{}))
}
