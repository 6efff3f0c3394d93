package vm

import "github.com/go-arm/arm7tdmi/instr"

// shift applies sh to value, returning the shifted result and the carry
// bit it produces. carryIn is the current CPSR carry flag, used by
// LSL/LSR/ASR/ROR #0 (register-specified, runtime amount 0) and by RRX.
func shift(sh instr.Shift, value uint32, amount uint8, carryIn bool) (result uint32, carryOut bool) {
	switch sh.Type {
	case instr.LSL:
		return shiftLSL(value, amount, carryIn)
	case instr.LSR:
		return shiftLSR(value, amount, carryIn)
	case instr.ASR:
		return shiftASR(value, amount, carryIn)
	case instr.ROR:
		return shiftROR(value, amount, carryIn)
	case instr.RRX:
		result = value>>1 | b32(carryIn)<<31
		return result, value&1 != 0
	default:
		return value, carryIn
	}
}

func b32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func shiftLSL(value uint32, amount uint8, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return value, carryIn
	case amount < 32:
		carryOut := value&(1<<(32-amount)) != 0
		return value << amount, carryOut
	case amount == 32:
		return 0, value&1 != 0
	default:
		return 0, false
	}
}

func shiftLSR(value uint32, amount uint8, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return value, carryIn
	case amount < 32:
		carryOut := value&(1<<(amount-1)) != 0
		return value >> amount, carryOut
	case amount == 32:
		return 0, value&(1<<31) != 0
	default:
		return 0, false
	}
}

func shiftASR(value uint32, amount uint8, carryIn bool) (uint32, bool) {
	signed := int32(value)
	switch {
	case amount == 0:
		return value, carryIn
	case amount < 32:
		carryOut := value&(1<<(amount-1)) != 0
		return uint32(signed >> amount), carryOut
	default:
		if signed < 0 {
			return 0xFFFFFFFF, true
		}
		return 0, false
	}
}

func shiftROR(value uint32, amount uint8, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}
	n := amount % 32
	if n == 0 {
		return value, value&(1<<31) != 0
	}
	result := value>>n | value<<(32-n)
	return result, result&(1<<31) != 0
}
