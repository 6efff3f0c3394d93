package parser

import (
	"testing"

	"github.com/go-arm/arm7tdmi/instr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) []*AsmLine {
	t.Helper()
	p := NewParser(src, "test.s")
	lines, errs := p.Parse()
	require.False(t, errs.HasErrors(), "unexpected parse errors: %s", errs.Error())
	return lines
}

func TestParseLabelAndMnemonic(t *testing.T) {
	lines := parseOK(t, "loop: MOVEQS R0, R1\n")
	require.Len(t, lines, 1)
	l := lines[0]
	assert.Equal(t, "loop", l.Label)
	require.Equal(t, LineInstruction, l.Kind)
	require.NotNil(t, l.Instr)
	assert.Equal(t, "MOV", l.Instr.Mnemonic)
	assert.Equal(t, instr.CondEQ, l.Instr.Cond)
	assert.True(t, l.Instr.SetFlags)
	require.Len(t, l.Instr.Args, 2)
	assert.Equal(t, ArgRegister, l.Instr.Args[0].Kind)
	assert.Equal(t, instr.R0, l.Instr.Args[0].Reg.Reg)
	assert.Equal(t, instr.R1, l.Instr.Args[1].Reg.Reg)
}

func TestParseDataWithShiftedRegisterOperand(t *testing.T) {
	lines := parseOK(t, "ADD R0, R1, R2, LSL #2\n")
	instrNode := lines[0].Instr
	require.Len(t, instrNode.Args, 4)
	shiftArg := instrNode.Args[3]
	require.Equal(t, ArgShift, shiftArg.Kind)
	assert.Equal(t, instr.LSL, shiftArg.Shift.Type)
	require.NotNil(t, shiftArg.Shift.AmountExpr)
	assert.Equal(t, uint32(2), shiftArg.Shift.AmountExpr.Constant)
}

func TestParseAddressingModePreAndPostIndexed(t *testing.T) {
	lines := parseOK(t, "LDR R0, [R1, #4]!\nSTR R2, [R3], #-4\n")
	require.Len(t, lines, 2)

	pre := lines[0].Instr.Args[1]
	require.Equal(t, ArgAddress, pre.Kind)
	assert.Equal(t, instr.R1, pre.Address.Base)
	assert.True(t, pre.Address.PreIndex)
	assert.True(t, pre.Address.WriteBack)
	require.True(t, pre.Address.HasOffset)

	post := lines[1].Instr.Args[1]
	require.Equal(t, ArgAddress, post.Kind)
	assert.Equal(t, instr.R3, post.Address.Base)
	assert.False(t, post.Address.PreIndex)
	require.True(t, post.Address.HasOffset)
}

func TestParseRegisterListRangeAndSingles(t *testing.T) {
	lines := parseOK(t, "STMFD SP!, {R0-R3, LR}\n")
	arg := lines[0].Instr.Args[1]
	require.Equal(t, ArgRegisterList, arg.Kind)
	want := uint16(1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<14)
	assert.Equal(t, want, arg.RegList)
	assert.Equal(t, "STM", lines[0].Instr.Mnemonic)
	assert.Equal(t, "IA", lines[0].Instr.Variant)
}

func TestParseExpressionPrecedence(t *testing.T) {
	lines := parseOK(t, "MOV R0, #1 + 2 * 3\n")
	expr := lines[0].Instr.Args[1].Expr
	require.Equal(t, ExprBinary, expr.Kind)
	assert.Equal(t, OpAdd, expr.Op)
	assert.Equal(t, ExprConstant, expr.Left.Kind)
	assert.Equal(t, uint32(1), expr.Left.Constant)
	require.Equal(t, ExprBinary, expr.Right.Kind)
	assert.Equal(t, OpMul, expr.Right.Op)
}

func TestParseEquDirective(t *testing.T) {
	lines := parseOK(t, "MAXVAL EQU 100\n")
	require.Len(t, lines, 1)
	assert.Equal(t, LineEqu, lines[0].Kind)
	assert.Equal(t, "MAXVAL", lines[0].EquName)
	assert.Equal(t, uint32(100), lines[0].EquExpr.Constant)
}

func TestParseDefineWordList(t *testing.T) {
	lines := parseOK(t, "table DEFW 1, 2, 0x10\n")
	require.Equal(t, LineDefineWord, lines[0].Kind)
	require.Len(t, lines[0].Words, 3)
	assert.Equal(t, uint32(0x10), lines[0].Words[2].Constant)
}

func TestParseHarnessDirectiveComment(t *testing.T) {
	lines := parseOK(t, "MOV R0, #1 ;! STEPS 1\n")
	assert.Equal(t, " STEPS 1", lines[0].Directive)
}

func TestParseLiteralPoolLoad(t *testing.T) {
	lines := parseOK(t, "LDR R0, =0x12345678\n")
	args := lines[0].Instr.Args
	require.Len(t, args, 2)
	assert.Equal(t, ArgExpression, args[1].Kind)
	assert.Equal(t, uint32(0x12345678), args[1].Expr.Constant)
}

func TestParseUnrecognisedMnemonicRecordsError(t *testing.T) {
	p := NewParser("FROBNICATE R0\nMOV R1, R2\n", "test.s")
	lines, errs := p.Parse()
	require.True(t, errs.HasErrors())
	require.Len(t, lines, 2)
	assert.Equal(t, LineInstruction, lines[1].Kind)
	assert.Equal(t, "MOV", lines[1].Instr.Mnemonic)
}

func TestParseMrsMsrPsrOperands(t *testing.T) {
	lines := parseOK(t, "MRS R0, CPSR\nMSR CPSR_flg, R1\n")
	mrs := lines[0].Instr
	assert.Equal(t, "MRS", mrs.Mnemonic)
	assert.Equal(t, ArgPSR, mrs.Args[1].Kind)
	assert.Equal(t, instr.CPSR, mrs.Args[1].PSR)

	msr := lines[1].Instr
	assert.Equal(t, ArgPSR, msr.Args[0].Kind)
	assert.True(t, msr.Args[0].PSRFlagOnly)
}
