package vm

import "github.com/go-arm/arm7tdmi/instr"

// addWithFlags computes a+b+carryIn and the NZCV flags that result,
// per the ARM7TDMI integer ALU.
func addWithFlags(a, b uint32, carryIn bool) (result uint32, flags instr.Flags) {
	wide := uint64(a) + uint64(b)
	if carryIn {
		wide++
	}
	result = uint32(wide)
	flags.C = wide > 0xFFFFFFFF
	flags.V = (a^result)&(b^result)&0x80000000 != 0
	flags.N = result&0x80000000 != 0
	flags.Z = result == 0
	return
}

// subWithFlags computes a-b-borrowIn (borrowIn=!carryIn, so plain
// subtraction passes carryIn=true) and the resulting NZCV flags.
func subWithFlags(a, b uint32, carryIn bool) (result uint32, flags instr.Flags) {
	return addWithFlags(a, ^b, carryIn)
}

// logicalFlags derives N/Z from a logical result, leaving C to whatever
// the barrel shifter produced and V untouched per the data-processing
// flag-update rule.
func logicalFlags(result uint32, shifterCarry bool, oldV bool) instr.Flags {
	return instr.Flags{
		N: result&0x80000000 != 0,
		Z: result == 0,
		C: shifterCarry,
		V: oldV,
	}
}
