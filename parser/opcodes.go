package parser

import "github.com/go-arm/arm7tdmi/instr"

// condSuffixes maps the two-letter condition mnemonic suffix to its Cond
// value. HS/LO are the unsigned-comparison aliases for CS/CC.
var condSuffixes = map[string]instr.Cond{
	"EQ": instr.CondEQ, "NE": instr.CondNE,
	"CS": instr.CondCS, "HS": instr.CondCS,
	"CC": instr.CondCC, "LO": instr.CondCC,
	"MI": instr.CondMI, "PL": instr.CondPL,
	"VS": instr.CondVS, "VC": instr.CondVC,
	"HI": instr.CondHI, "LS": instr.CondLS,
	"GE": instr.CondGE, "LT": instr.CondLT,
	"GT": instr.CondGT, "LE": instr.CondLE,
	"AL": instr.CondAL,
}

// parseCondTail parses the condition-code portion of a mnemonic left over
// after stripping its prefix and suffix: empty means CondAL.
func parseCondTail(tail string) (instr.Cond, bool) {
	if tail == "" {
		return instr.CondAL, true
	}
	c, ok := condSuffixes[tail]
	return c, ok
}

// opcodeEntry is one row of the (prefix, suffix) -> canonical-mnemonic
// table. A mnemonic token is classified by stripping prefix and suffix and
// parsing whatever is left over as a condition code.
type opcodeEntry struct {
	Prefix   string
	Suffix   string
	Mnemonic string // canonical base used by the grammar driver and tests
	SetFlags bool
	Variant  string
}

var opcodeTable = []opcodeEntry{
	{"BX", "", "BX", false, ""},
	{"BL", "", "B", true, ""},
	{"B", "", "B", false, ""},
	{"ADR", "", "ADR", false, ""},
	{"NOP", "", "NOP", false, ""},

	{"AND", "", "AND", false, ""}, {"AND", "S", "AND", true, ""},
	{"EOR", "", "EOR", false, ""}, {"EOR", "S", "EOR", true, ""},
	{"SUB", "", "SUB", false, ""}, {"SUB", "S", "SUB", true, ""},
	{"RSB", "", "RSB", false, ""}, {"RSB", "S", "RSB", true, ""},
	{"ADD", "", "ADD", false, ""}, {"ADD", "S", "ADD", true, ""},
	{"ADC", "", "ADC", false, ""}, {"ADC", "S", "ADC", true, ""},
	{"SBC", "", "SBC", false, ""}, {"SBC", "S", "SBC", true, ""},
	{"RSC", "", "RSC", false, ""}, {"RSC", "S", "RSC", true, ""},
	{"TST", "", "TST", true, ""},
	{"TEQ", "", "TEQ", true, ""},
	{"CMP", "", "CMP", true, ""},
	{"CMN", "", "CMN", true, ""},
	{"ORR", "", "ORR", false, ""}, {"ORR", "S", "ORR", true, ""},
	{"MOV", "", "MOV", false, ""}, {"MOV", "S", "MOV", true, ""},
	{"BIC", "", "BIC", false, ""}, {"BIC", "S", "BIC", true, ""},
	{"MVN", "", "MVN", false, ""}, {"MVN", "S", "MVN", true, ""},

	// Shift mnemonics compile down to MOV Rd, Rm, <shift> Rs/#n.
	{"LSL", "", "MOV", false, "LSL"}, {"LSL", "S", "MOV", true, "LSL"},
	{"ASL", "", "MOV", false, "LSL"}, {"ASL", "S", "MOV", true, "LSL"},
	{"LSR", "", "MOV", false, "LSR"}, {"LSR", "S", "MOV", true, "LSR"},
	{"ASR", "", "MOV", false, "ASR"}, {"ASR", "S", "MOV", true, "ASR"},
	{"ROR", "", "MOV", false, "ROR"}, {"ROR", "S", "MOV", true, "ROR"},
	{"RRX", "", "MOV", false, "RRX"}, {"RRX", "S", "MOV", true, "RRX"},

	{"MRS", "", "MRS", false, ""},
	{"MSR", "", "MSR", false, ""},

	{"MUL", "", "MUL", false, ""}, {"MUL", "S", "MUL", true, ""},
	{"MLA", "", "MLA", false, ""}, {"MLA", "S", "MLA", true, ""},
	{"UMULL", "", "UMULL", false, ""}, {"UMULL", "S", "UMULL", true, ""},
	{"UMLAL", "", "UMLAL", false, ""}, {"UMLAL", "S", "UMLAL", true, ""},
	{"SMULL", "", "SMULL", false, ""}, {"SMULL", "S", "SMULL", true, ""},
	{"SMLAL", "", "SMLAL", false, ""}, {"SMLAL", "S", "SMLAL", true, ""},

	{"LDR", "", "LDR", false, ""},
	{"LDR", "B", "LDR", false, "B"},
	{"LDR", "H", "LDR", false, "H"},
	{"LDR", "SH", "LDR", false, "SH"},
	{"LDR", "SB", "LDR", false, "SB"},
	{"STR", "", "STR", false, ""},
	{"STR", "B", "STR", false, "B"},
	{"STR", "H", "STR", false, "H"},

	{"LDM", "FD", "LDM", false, "IA"}, {"LDM", "IA", "LDM", false, "IA"},
	{"LDM", "ED", "LDM", false, "IB"}, {"LDM", "IB", "LDM", false, "IB"},
	{"LDM", "FA", "LDM", false, "DA"}, {"LDM", "DA", "LDM", false, "DA"},
	{"LDM", "EA", "LDM", false, "DB"}, {"LDM", "DB", "LDM", false, "DB"},
	{"STM", "FD", "STM", false, "IA"}, {"STM", "IA", "STM", false, "IA"},
	{"STM", "ED", "STM", false, "IB"}, {"STM", "IB", "STM", false, "IB"},
	{"STM", "FA", "STM", false, "DA"}, {"STM", "DA", "STM", false, "DA"},
	{"STM", "EA", "STM", false, "DB"}, {"STM", "DB", "STM", false, "DB"},

	{"SWP", "", "SWP", false, ""},
	{"SWP", "B", "SWP", false, "B"},
	{"SWI", "", "SWI", false, ""},
}

// classifyMnemonic looks up ident (already uppercased) against the
// (prefix, suffix) table, returning the canonical mnemonic, condition,
// S-suffix and variant. The longest suffix match wins so that, e.g.,
// "LDRSH" is not misread as prefix "LDR" with a bogus middle "SH" parsed
// as a condition code before the "SH" entry is tried; on a tie the
// earlier table entry is kept.
func classifyMnemonic(ident string) (mnemonic string, cond instr.Cond, setFlags bool, variant string, ok bool) {
	var best *opcodeEntry
	var bestCond instr.Cond
	for i := range opcodeTable {
		e := &opcodeTable[i]
		if len(ident) < len(e.Prefix)+len(e.Suffix) {
			continue
		}
		if ident[:len(e.Prefix)] != e.Prefix {
			continue
		}
		if ident[len(ident)-len(e.Suffix):] != e.Suffix {
			continue
		}
		tail := ident[len(e.Prefix) : len(ident)-len(e.Suffix)]
		c, condOk := parseCondTail(tail)
		if !condOk {
			continue
		}
		if best == nil || len(e.Prefix)+len(e.Suffix) > len(best.Prefix)+len(best.Suffix) {
			best, bestCond = e, c
		}
	}
	if best == nil {
		return "", 0, false, "", false
	}
	return best.Mnemonic, bestCond, best.SetFlags, best.Variant, true
}
