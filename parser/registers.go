package parser

import (
	"strconv"
	"strings"

	"github.com/go-arm/arm7tdmi/instr"
)

// registerFromLiteral converts a lexed register literal ("R7", "SP",
// "LR", "PC") into its instr.Register value.
func registerFromLiteral(lit string) instr.Register {
	switch lit {
	case "SP":
		return instr.SP
	case "LR":
		return instr.LR
	case "PC":
		return instr.PC
	default:
		n, _ := strconv.Atoi(lit[1:])
		return instr.Register(n)
	}
}

// shiftTypeFromIdent recognises a shift mnemonic used as a standalone
// operator after an operand (LSL, LSR, ASR, ROR, RRX, and the legacy
// alias ASL for LSL).
func shiftTypeFromIdent(ident string) (instr.ShiftType, bool) {
	switch strings.ToUpper(ident) {
	case "LSL", "ASL":
		return instr.LSL, true
	case "LSR":
		return instr.LSR, true
	case "ASR":
		return instr.ASR, true
	case "ROR":
		return instr.ROR, true
	case "RRX":
		return instr.RRX, true
	default:
		return 0, false
	}
}
