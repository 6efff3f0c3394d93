// Package loader builds a runnable vm.CPU from an assembled program.
package loader

import (
	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/vm"
)

// Load writes prog.Words into a fresh memory image starting at address
// zero and returns a CPU parked at the first instruction. The resolver
// always lays a program out from zero, so there is no separate
// entry-point concept to carry through here.
func Load(prog *assembler.Program, defaultWord uint32) *vm.CPU {
	mem := vm.NewMemory(defaultWord)
	for i, w := range prog.Words {
		mem.WriteWord(uint32(i*4), w)
	}
	return vm.NewCPU(mem)
}
