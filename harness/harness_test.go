package harness_test

import (
	"testing"

	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/harness"
	"github.com/go-arm/arm7tdmi/parser"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, src string) ([]*parser.AsmLine, *assembler.Program) {
	t.Helper()
	lines, perrs := parser.NewParser(src, "test.s").Parse()
	require.False(t, perrs.HasErrors(), "parse errors: %v", perrs)
	prog, aerrs := assembler.NewAssembler(lines, "test.s", assembler.HealAdvanced).Assemble()
	require.Nil(t, aerrs, "assemble errors: %v", aerrs)
	return lines, prog
}

func TestHaltsWithinStepBudget(t *testing.T) {
	src := ";! STEPS 5\n;! HALTS 2\n;! R0 1\nmov r0, #1\nswi #2\n"
	lines, prog := assemble(t, src)
	d, err := harness.ParseDirectives(lines)
	require.NoError(t, err)

	res, err := harness.Run(prog, d, 0xAAAAAAAA)
	require.NoError(t, err)
	require.True(t, res.Halted)
	require.Empty(t, res.Failures)
}

func TestHealingMovExpectedRegisterValue(t *testing.T) {
	src := ";! STEPS 10\n;! R0 0xDEADBEEF\nmov r0, #0xDEADBEEF\nswi #2\n"
	lines, prog := assemble(t, src)
	d, err := harness.ParseDirectives(lines)
	require.NoError(t, err)

	res, err := harness.Run(prog, d, 0)
	require.NoError(t, err)
	require.Empty(t, res.Failures)
}

func TestExpectationAgainstLabelValue(t *testing.T) {
	src := ";! STEPS 10\n;! R1 target\nmov r1, #target\ntarget: swi #2\n"
	lines, prog := assemble(t, src)
	d, err := harness.ParseDirectives(lines)
	require.NoError(t, err)

	res, err := harness.Run(prog, d, 0)
	require.NoError(t, err)
	require.Empty(t, res.Failures)
}

func TestMismatchedExpectationIsReported(t *testing.T) {
	src := ";! STEPS 5\n;! R0 99\nmov r0, #1\nswi #2\n"
	lines, prog := assemble(t, src)
	d, err := harness.ParseDirectives(lines)
	require.NoError(t, err)

	res, err := harness.Run(prog, d, 0)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
}

// TestUnsignedDivisionRoutine runs the 15-instruction unsigned division
// routine from the ARM7TDMI data sheet (37 / 6): after 48 steps R3 holds
// the quotient, R1 the remainder, and R0/R2 are left at their final
// normalised (shifted-out) values.
func TestUnsignedDivisionRoutine(t *testing.T) {
	src := ";! STEPS 48\n" +
		";! R0 0\n" +
		";! R1 1\n" +
		";! R2 6\n" +
		";! R3 6\n" +
		";! PC 60\n" +
		"mov r1, #37\n" +
		"mov r2, #6\n" +
		"mov r0, #1\n" +
		"div1: cmp r2, #0x80000000\n" +
		"cmpcc r2, r1\n" +
		"movcc r2, r2, lsl #1\n" +
		"movcc r0, r0, lsl #1\n" +
		"bcc div1\n" +
		"mov r3, #0\n" +
		"div2: cmp r1, r2\n" +
		"subcs r1, r1, r2\n" +
		"addcs r3, r3, r0\n" +
		"movs r0, r0, lsr #1\n" +
		"movne r2, r2, lsr #1\n" +
		"bne div2\n"
	lines, prog := assemble(t, src)
	d, err := harness.ParseDirectives(lines)
	require.NoError(t, err)

	res, err := harness.Run(prog, d, 0)
	require.NoError(t, err)
	require.Empty(t, res.Failures)
}

func TestUnrecognisedDirectiveIsAParseError(t *testing.T) {
	lines, _ := parser.NewParser(";! BOGUS 1\nswi #2\n", "test.s").Parse()
	_, err := harness.ParseDirectives(lines)
	require.Error(t, err)
}
