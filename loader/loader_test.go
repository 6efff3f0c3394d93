package loader_test

import (
	"testing"

	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/go-arm/arm7tdmi/loader"
	"github.com/go-arm/arm7tdmi/parser"
	"github.com/go-arm/arm7tdmi/vm"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, src string) *assembler.Program {
	t.Helper()
	lines, perrs := parser.NewParser(src, "test.s").Parse()
	require.False(t, perrs.HasErrors(), "parse errors: %v", perrs)
	prog, aerrs := assembler.NewAssembler(lines, "test.s", assembler.HealAdvanced).Assemble()
	require.Nil(t, aerrs, "assemble errors: %v", aerrs)
	return prog
}

func TestLoadWritesWordsFromAddressZero(t *testing.T) {
	prog := assemble(t, "mov r0, #1\nswi #2\n")
	require.Len(t, prog.Words, 2)

	cpu := loader.Load(prog, 0xAAAAAAAA)
	require.Equal(t, prog.Words[0], cpu.Mem.ReadWord(0))
	require.Equal(t, prog.Words[1], cpu.Mem.ReadWord(4))
	require.Equal(t, uint32(0), cpu.Regs.Get(instr.PC))
}

func TestLoadLeavesUnmappedMemoryAtDefaultFill(t *testing.T) {
	prog := assemble(t, "swi #2\n")
	cpu := loader.Load(prog, 0xAAAAAAAA)
	require.Equal(t, uint32(0xAAAAAAAA), cpu.Mem.ReadWord(0x1000))
}

func TestLoadedProgramRunsToHalt(t *testing.T) {
	prog := assemble(t, "mov r0, #1\nswi #2\n")
	cpu := loader.Load(prog, 0)
	for i := 0; i < 10 && cpu.State != vm.Stopped; i++ {
		require.NoError(t, cpu.Step())
	}
	require.Equal(t, uint32(1), cpu.Regs.Get(instr.R0))
}
