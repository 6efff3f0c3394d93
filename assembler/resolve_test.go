package assembler_test

import (
	"testing"

	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/parser"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, src string, heal assembler.HealMode) (*assembler.Program, *assembler.ErrorList) {
	t.Helper()
	lines, perrs := parser.NewParser(src, "t.s").Parse()
	require.False(t, perrs.HasErrors(), "parse errors: %v", perrs)
	return assembler.NewAssembler(lines, "t.s", heal).Assemble()
}

func TestForwardLabelReferenceResolves(t *testing.T) {
	prog, errs := assemble(t, "b target\ntarget: swi #2\n", assembler.HealAdvanced)
	require.Nil(t, errs)
	require.Len(t, prog.Words, 2)
	v, ok := prog.Symbols.Lookup("target")
	require.True(t, ok)
	require.Equal(t, uint32(4), v)
	require.Greater(t, prog.PassCount, 0)
}

func TestEquDefinesAConstant(t *testing.T) {
	prog, errs := assemble(t, "FOO EQU 42\nmov r0, #FOO\nswi #2\n", assembler.HealAdvanced)
	require.Nil(t, errs)
	v, ok := prog.Symbols.Lookup("FOO")
	require.True(t, ok)
	require.Equal(t, uint32(42), v)
	require.Len(t, prog.Words, 2)
}

func TestDefineWordEmitsLiteralData(t *testing.T) {
	prog, errs := assemble(t, "defw 1, 2, 3\n", assembler.HealAdvanced)
	require.Nil(t, errs)
	require.Equal(t, []uint32{1, 2, 3}, prog.Words)
}

func TestHealingMovMaterialisesUnrepresentableConstant(t *testing.T) {
	prog, errs := assemble(t, "mov r0, #0xDEADBEEF\n", assembler.HealAdvanced)
	require.Nil(t, errs)
	require.Greater(t, len(prog.Words), 1)
}

func TestHealOffRejectsUnrepresentableImmediate(t *testing.T) {
	_, errs := assemble(t, "add r0, r0, #0x101\n", assembler.HealOff)
	require.NotNil(t, errs)
	require.Equal(t, assembler.ImmediateOutOfRange, errs.Errors[0].Kind)
}

func TestMisalignedBranchOffsetFails(t *testing.T) {
	// mid EQU 5 stands in for a label that lands mid-word: the resolver
	// has no sub-word directive, so an odd constant target is the
	// reproducible way to force a non-multiple-of-4 branch offset.
	_, errs := assemble(t, "mid EQU 5\ndefw 0\nb mid\n", assembler.HealAdvanced)
	require.NotNil(t, errs)
	require.Equal(t, assembler.MisalignedBranchOffset, errs.Errors[0].Kind)
}

func TestHealDirectiveCommentSelectsMode(t *testing.T) {
	_, errs := assemble(t, "; HEAL OFF\nadd r0, r0, #0x101\n", assembler.HealAdvanced)
	require.NotNil(t, errs)
	require.Equal(t, assembler.ImmediateOutOfRange, errs.Errors[0].Kind)
}

func TestUndefinedLabelReportsLabelNotFound(t *testing.T) {
	_, errs := assemble(t, "b nowhere\n", assembler.HealAdvanced)
	require.NotNil(t, errs)
	require.Equal(t, assembler.LabelNotFound, errs.Errors[0].Kind)
}

func TestLiteralPoolLoadMaterialisesTheConstant(t *testing.T) {
	prog, errs := assemble(t, "LDR r0, =0x12345678\n", assembler.HealAdvanced)
	require.Nil(t, errs)
	require.Greater(t, len(prog.Words), 0)
}

func TestBlockTransferWritebackParsesThroughToEncode(t *testing.T) {
	prog, errs := assemble(t, "stmfd sp!, {r0-r3, lr}\n", assembler.HealAdvanced)
	require.Nil(t, errs)
	require.Len(t, prog.Words, 1)
	require.NotEqual(t, uint32(0), prog.Words[0]&(1<<21)) // writeback bit set
}

func TestTooManyPassesIsUnreachableForAcyclicLabels(t *testing.T) {
	// A long chain of forward references still converges well within the
	// pass cap since every address is a deterministic function of line
	// order, not of other labels' resolved values.
	src := ""
	for i := 0; i < 20; i++ {
		src += "b next" + string(rune('a'+i)) + "\n"
		src += "next" + string(rune('a'+i)) + ": nop\n"
	}
	_, errs := assemble(t, src, assembler.HealAdvanced)
	require.Nil(t, errs)
}
