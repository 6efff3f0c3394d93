package encoder_test

import (
	"testing"

	"github.com/go-arm/arm7tdmi/encoder"
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, cond instr.Cond, in instr.Instr) {
	t.Helper()
	word, err := encoder.Encode(cond, in)
	require.NoError(t, err)
	gotCond, gotIn, ok := encoder.Decode(word)
	require.True(t, ok, "decode of 0x%08X failed", word)
	assert.Equal(t, cond, gotCond)
	assert.Equal(t, in, gotIn)
}

func TestRoundTripBranchExchange(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.BranchExchange{Reg: instr.R3})
}

func TestRoundTripBranch(t *testing.T) {
	roundTrip(t, instr.CondEQ, instr.Branch{Link: true, Offset: 1024})
	roundTrip(t, instr.CondAL, instr.Branch{Link: false, Offset: -64})
}

func TestRoundTripDataImmediate(t *testing.T) {
	rc, ok := instr.EncodeRotatedConstant(0xFF)
	require.True(t, ok)
	roundTrip(t, instr.CondAL, instr.Data{
		SetFlags: true,
		Op:       instr.ADD,
		Dest:     instr.R1,
		Op1:      instr.R2,
		Op2:      instr.DataOperand{IsConstant: true, Constant: rc},
	})
}

func TestRoundTripDataRegisterShift(t *testing.T) {
	roundTrip(t, instr.CondNE, instr.Data{
		Op:   instr.MOV,
		Dest: instr.R0,
		Op1:  instr.R0,
		Op2: instr.DataOperand{
			Reg:   instr.R5,
			Shift: instr.Shift{Type: instr.LSL, Amount: instr.ConstAmount(4)},
		},
	})
	roundTrip(t, instr.CondAL, instr.Data{
		Op:   instr.MOV,
		Dest: instr.R0,
		Op1:  instr.R0,
		Op2: instr.DataOperand{
			Reg:   instr.R5,
			Shift: instr.Shift{Type: instr.LSR, Amount: instr.RegAmount(instr.R2)},
		},
	})
}

func TestRoundTripDataCompareImplicitSetFlags(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.Data{
		SetFlags: true,
		Op:       instr.CMP,
		Op1:      instr.R7,
		Op2:      instr.DataOperand{Reg: instr.R8, Shift: instr.NoShift},
	})
}

func TestRoundTripMrsMsr(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.Mrs{Psr: instr.CPSR, Target: instr.R4})
	roundTrip(t, instr.CondAL, instr.Mrs{Psr: instr.SPSR, Target: instr.R4})
	roundTrip(t, instr.CondAL, instr.Msr{Psr: instr.CPSR, Source: instr.MsrSource{Kind: instr.MsrSourceRegister, Reg: instr.R1}})
	roundTrip(t, instr.CondAL, instr.Msr{Psr: instr.CPSR, Source: instr.MsrSource{Kind: instr.MsrSourceRegisterFlags, Reg: instr.R1}})

	rc, ok := instr.EncodeRotatedConstant(0xF0000000)
	require.True(t, ok)
	roundTrip(t, instr.CondAL, instr.Msr{Psr: instr.CPSR, Source: instr.MsrSource{Kind: instr.MsrSourceFlags, Imm: rc.Value()}})
}

func TestRoundTripMultiply(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.Multiply{Dest: instr.R0, Op1: instr.R1, Op2: instr.R2})
	roundTrip(t, instr.CondAL, instr.Multiply{SetFlags: true, Dest: instr.R0, Op1: instr.R1, Op2: instr.R2, Addend: instr.R3, HasAddend: true})
}

func TestRoundTripMultiplyLong(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.MultiplyLong{Signed: true, DestHi: instr.R1, DestLo: instr.R0, Op1: instr.R2, Op2: instr.R3})
	roundTrip(t, instr.CondAL, instr.MultiplyLong{Accumulate: true, DestHi: instr.R1, DestLo: instr.R0, Op1: instr.R2, Op2: instr.R3})
}

func TestRoundTripSingleTransfer(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.SingleTransfer{
		Kind: instr.Load, Size: instr.Word, PreIndex: true, OffsetPositive: true,
		DataReg: instr.R0, BaseReg: instr.R1,
		Offset: instr.TransferOperand{IsConstant: true, Constant: 4},
	})
	roundTrip(t, instr.CondAL, instr.SingleTransfer{
		Kind: instr.Store, Size: instr.Byte, PreIndex: false, OffsetPositive: true, WriteBack: true,
		DataReg: instr.R2, BaseReg: instr.R3,
		Offset: instr.TransferOperand{Reg: instr.R4, Shift: instr.Shift{Type: instr.LSL, Amount: instr.ConstAmount(2)}},
	})
}

func TestRoundTripSingleTransferSpecial(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.SingleTransferSpecial{
		Kind: instr.Load, Size: instr.SignedHalfWord, PreIndex: true, OffsetPositive: true,
		DataReg: instr.R0, BaseReg: instr.R1,
		Offset: instr.SpecialOperand{IsConstant: true, Constant: 6},
	})
	roundTrip(t, instr.CondAL, instr.SingleTransferSpecial{
		Kind: instr.Store, Size: instr.HalfWord, PreIndex: true, OffsetPositive: true,
		DataReg: instr.R2, BaseReg: instr.R3,
		Offset: instr.SpecialOperand{Reg: instr.R5},
	})
}

// TestRoundTripSingleTransferSpecialDataRegR15 guards against the decoder
// mistaking a pre-indexed, writeback halfword store through R15 for a
// register-form MSR: both require the word's 15:12 field to read 1111.
func TestRoundTripSingleTransferSpecialDataRegR15(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.SingleTransferSpecial{
		Kind: instr.Store, Size: instr.HalfWord, PreIndex: true, OffsetPositive: false, WriteBack: true,
		DataReg: instr.R15, BaseReg: instr.R1,
		Offset: instr.SpecialOperand{IsConstant: true, Constant: 4},
	})
}

func TestRoundTripBlockTransfer(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.BlockTransfer{
		Kind: instr.Load, PreIndex: false, OffsetPositive: true, WriteBack: true,
		BaseReg: instr.R13, Registers: 0x00FF,
	})
}

func TestRoundTripSwap(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.Swap{Byte: true, Dest: instr.R0, Source: instr.R1, Base: instr.R2})
}

func TestRoundTripSoftwareInterrupt(t *testing.T) {
	roundTrip(t, instr.CondAL, instr.SoftwareInterrupt{Comment: 2})
}

func TestDecodeClosureRejectsCondNone(t *testing.T) {
	_, _, ok := encoder.Decode(0xFF000000)
	assert.False(t, ok)
}

func TestEncodeBranchMisalignedOffset(t *testing.T) {
	_, err := encoder.Encode(instr.CondAL, instr.Branch{Offset: 3})
	require.Error(t, err)
	var e *encoder.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, encoder.ErrMisalignedBranchOffset, e.Kind)
}

func TestEncodeBranchOffsetOutOfRange(t *testing.T) {
	_, err := encoder.Encode(instr.CondAL, instr.Branch{Offset: 1 << 26})
	require.Error(t, err)
	var e *encoder.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, encoder.ErrOffsetOutOfRange, e.Kind)
}

func TestEncodeTransferOffsetOutOfRange(t *testing.T) {
	_, err := encoder.Encode(instr.CondAL, instr.SingleTransfer{
		Kind: instr.Load, BaseReg: instr.R0, DataReg: instr.R1,
		Offset: instr.TransferOperand{IsConstant: true, Constant: 0xFFF + 1},
	})
	require.Error(t, err)
	var e *encoder.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, encoder.ErrOffsetOutOfRange, e.Kind)
}

func TestEncodeSpecialTransferInvalidStoreSize(t *testing.T) {
	_, err := encoder.Encode(instr.CondAL, instr.SingleTransferSpecial{
		Kind: instr.Store, Size: instr.SignedByte, BaseReg: instr.R0, DataReg: instr.R1,
		Offset: instr.SpecialOperand{Reg: instr.R2},
	})
	require.Error(t, err)
	var e *encoder.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, encoder.ErrInvalidStoreSize, e.Kind)
}

func TestEncodeShiftOutOfRange(t *testing.T) {
	_, err := encoder.Encode(instr.CondAL, instr.Data{
		Op: instr.MOV, Dest: instr.R0, Op1: instr.R0,
		Op2: instr.DataOperand{Reg: instr.R1, Shift: instr.Shift{Type: instr.LSL, Amount: instr.ConstAmount(33)}},
	})
	require.Error(t, err)
	var e *encoder.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, encoder.ErrShiftOutOfRange, e.Kind)
}
