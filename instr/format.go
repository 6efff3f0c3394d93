package instr

import (
	"fmt"
	"strings"
)

// Format renders (cond, in) as canonical assembler text, e.g.
// "ADDEQ R0, R1, #4" or "LDR R0, [R1, #+4]!". Used by disassembly output.
func Format(cond Cond, in Instr) string {
	suffix := ""
	if cond != CondAL {
		suffix = cond.String()
	}
	switch v := in.(type) {
	case BranchExchange:
		return fmt.Sprintf("BX%s %s", suffix, v.Reg)
	case Branch:
		mnem := "B"
		if v.Link {
			mnem = "BL"
		}
		return fmt.Sprintf("%s%s #%d", mnem, suffix, v.Offset)
	case Data:
		s := ""
		if v.SetFlags && v.Op.WritesDest() {
			s = "S"
		}
		op2 := formatDataOperand(v.Op2)
		if !v.Op.WritesDest() {
			return fmt.Sprintf("%s%s %s, %s", v.Op, suffix, v.Op1, op2)
		}
		if v.Op == MOV || v.Op == MVN {
			return fmt.Sprintf("%s%s%s %s, %s", v.Op, s, suffix, v.Dest, op2)
		}
		return fmt.Sprintf("%s%s%s %s, %s, %s", v.Op, s, suffix, v.Dest, v.Op1, op2)
	case Mrs:
		return fmt.Sprintf("MRS%s %s, %s", suffix, v.Target, psrName(v.Psr))
	case Msr:
		return fmt.Sprintf("MSR%s %s, %s", suffix, psrName(v.Psr), formatMsrSource(v.Source))
	case Multiply:
		mnem := "MUL"
		if v.HasAddend {
			mnem = "MLA"
		}
		s := ""
		if v.SetFlags {
			s = "S"
		}
		if v.HasAddend {
			return fmt.Sprintf("%s%s%s %s, %s, %s, %s", mnem, s, suffix, v.Dest, v.Op1, v.Op2, v.Addend)
		}
		return fmt.Sprintf("%s%s%s %s, %s, %s", mnem, s, suffix, v.Dest, v.Op1, v.Op2)
	case MultiplyLong:
		mnem := "UMULL"
		switch {
		case v.Signed && v.Accumulate:
			mnem = "SMLAL"
		case v.Signed:
			mnem = "SMULL"
		case v.Accumulate:
			mnem = "UMLAL"
		}
		s := ""
		if v.SetFlags {
			s = "S"
		}
		return fmt.Sprintf("%s%s%s %s, %s, %s, %s", mnem, s, suffix, v.DestLo, v.DestHi, v.Op1, v.Op2)
	case SingleTransfer:
		return fmt.Sprintf("%s%s %s", transferMnemonic(v.Kind, v.Size), suffix, formatSingleTransfer(v))
	case SingleTransferSpecial:
		return fmt.Sprintf("%s%s %s", specialMnemonic(v.Kind, v.Size), suffix, formatSpecialTransfer(v))
	case BlockTransfer:
		return fmt.Sprintf("%s%s %s%s, {%s}%s",
			blockMnemonic(v.Kind), suffix, v.BaseReg, wbMark(v.WriteBack), formatRegList(v.Registers), psrMark(v.PSRAndForceUser))
	case Swap:
		b := ""
		if v.Byte {
			b = "B"
		}
		return fmt.Sprintf("SWP%s%s %s, %s, [%s]", b, suffix, v.Dest, v.Source, v.Base)
	case SoftwareInterrupt:
		return fmt.Sprintf("SWI%s #%d", suffix, v.Comment)
	default:
		return "???"
	}
}

func psrName(p PSR) string {
	if p == CPSR {
		return "CPSR"
	}
	return "SPSR"
}

func formatDataOperand(op DataOperand) string {
	if op.IsConstant {
		return fmt.Sprintf("#%d", op.Constant.Value())
	}
	if s := op.Shift.String(); s != "" {
		return fmt.Sprintf("%s, %s", op.Reg, s)
	}
	return op.Reg.String()
}

func formatMsrSource(s MsrSource) string {
	switch s.Kind {
	case MsrSourceRegister:
		return s.Reg.String()
	case MsrSourceRegisterFlags:
		return s.Reg.String() + "_flg"
	default:
		return fmt.Sprintf("#0x%08X", s.Imm)
	}
}

func transferMnemonic(k TransferKind, sz TransferSize) string {
	m := "LDR"
	if k == Store {
		m = "STR"
	}
	if sz == Byte {
		m += "B"
	}
	return m
}

func specialMnemonic(k TransferKind, sz TransferSizeSpecial) string {
	m := "LDR"
	if k == Store {
		m = "STR"
	}
	switch sz {
	case HalfWord:
		m += "H"
	case SignedByte:
		m += "SB"
	case SignedHalfWord:
		m += "SH"
	}
	return m
}

func blockMnemonic(k TransferKind) string {
	if k == Load {
		return "LDM"
	}
	return "STM"
}

func wbMark(wb bool) string {
	if wb {
		return "!"
	}
	return ""
}

func psrMark(set bool) string {
	if set {
		return "^"
	}
	return ""
}

func formatRegList(regs uint16) string {
	var parts []string
	for i := 0; i < 16; i++ {
		if regs&(1<<uint(i)) != 0 {
			parts = append(parts, Register(i).String())
		}
	}
	return strings.Join(parts, ", ")
}

func formatSingleTransfer(v SingleTransfer) string {
	sign := "+"
	if !v.OffsetPositive {
		sign = "-"
	}
	var off string
	if v.Offset.IsConstant {
		off = fmt.Sprintf(", #%s%d", sign, v.Offset.Constant)
	} else if s := v.Offset.Shift.String(); s != "" {
		off = fmt.Sprintf(", %s%s, %s", sign, v.Offset.Reg, s)
	} else {
		off = fmt.Sprintf(", %s%s", sign, v.Offset.Reg)
	}
	if v.PreIndex {
		return fmt.Sprintf("%s, [%s%s]%s", v.DataReg, v.BaseReg, off, wbMark(v.WriteBack))
	}
	return fmt.Sprintf("%s, [%s]%s", v.DataReg, v.BaseReg, off)
}

func formatSpecialTransfer(v SingleTransferSpecial) string {
	sign := "+"
	if !v.OffsetPositive {
		sign = "-"
	}
	var off string
	if v.Offset.IsConstant {
		off = fmt.Sprintf(", #%s%d", sign, v.Offset.Constant)
	} else {
		off = fmt.Sprintf(", %s%s", sign, v.Offset.Reg)
	}
	if v.PreIndex {
		return fmt.Sprintf("%s, [%s%s]%s", v.DataReg, v.BaseReg, off, wbMark(v.WriteBack))
	}
	return fmt.Sprintf("%s, [%s]%s", v.DataReg, v.BaseReg, off)
}
