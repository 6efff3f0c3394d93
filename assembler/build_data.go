package assembler

import (
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/go-arm/arm7tdmi/parser"
)

var dataOps = map[string]instr.DataOp{
	"AND": instr.AND, "EOR": instr.EOR, "SUB": instr.SUB, "RSB": instr.RSB,
	"ADD": instr.ADD, "ADC": instr.ADC, "SBC": instr.SBC, "RSC": instr.RSC,
	"TST": instr.TST, "TEQ": instr.TEQ, "CMP": instr.CMP, "CMN": instr.CMN,
	"ORR": instr.ORR, "MOV": instr.MOV, "BIC": instr.BIC, "MVN": instr.MVN,
}

func buildData(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	op, ok := dataOps[ai.Mnemonic]
	if !ok {
		return ctx.fail(ai.Pos, ParseError, "unknown mnemonic "+ai.Mnemonic)
	}

	args := ai.Args

	// Shift mnemonics (LSL/LSR/ASR/ROR/RRX) classify down to MOV with
	// Variant set; the second operand here is the shift amount, not an
	// ordinary data-processing Op2.
	if ai.Variant != "" {
		if len(args) < 2 || args[0].Kind != parser.ArgRegister || args[1].Kind != parser.ArgRegister {
			return ctx.fail(ai.Pos, ParseError, "expected Rd, Rm for shift mnemonic")
		}
		dest, rm := regAt(args, 0), regAt(args, 1)
		st, _ := shiftTypeFromVariant(ai.Variant)
		var sh instr.Shift
		switch {
		case st == instr.RRX:
			sh = instr.Shift{Type: instr.RRX, Amount: instr.ConstAmount(1)}
		case len(args) >= 3 && args[2].Kind == parser.ArgRegister:
			sh = instr.Shift{Type: st, Amount: instr.RegAmount(regAt(args, 2))}
		case len(args) >= 3 && args[2].Kind == parser.ArgExpression:
			v, ok := evalExpression(args[2].Expr, ctx.syms, ctx.errs)
			if !ok {
				v = 0
			}
			if v > 31 {
				return ctx.fail(ai.Pos, ShiftOutOfRange, "shift amount out of range")
			}
			sh = instr.Shift{Type: st, Amount: instr.ConstAmount(uint8(v))}
		default:
			return ctx.fail(ai.Pos, ParseError, "missing shift amount")
		}
		return []instr.Instr{instr.Data{SetFlags: ai.SetFlags, Op: instr.MOV, Dest: dest, Op2: instr.DataOperand{Reg: rm, Shift: sh}}}
	}

	if !op.WritesDest() {
		if len(args) < 2 || args[0].Kind != parser.ArgRegister {
			return ctx.fail(ai.Pos, ParseError, "expected Rn, operand2")
		}
		operand, extra := resolveDataOperand(ctx, ai, args[1:])
		return append(extra, instr.Data{SetFlags: true, Op: op, Op1: regAt(args, 0), Op2: operand})
	}

	if len(args) < 2 || args[0].Kind != parser.ArgRegister {
		return ctx.fail(ai.Pos, ParseError, "expected a destination register")
	}
	dest := regAt(args, 0)

	if op == instr.MOV || op == instr.MVN {
		operand, extra := resolveDataOperand(ctx, ai, args[1:])
		return append(extra, instr.Data{SetFlags: ai.SetFlags, Op: op, Dest: dest, Op2: operand})
	}

	if len(args) < 3 || args[1].Kind != parser.ArgRegister {
		return ctx.fail(ai.Pos, ParseError, "expected Rd, Rn, operand2")
	}
	operand, extra := resolveDataOperand(ctx, ai, args[2:])
	return append(extra, instr.Data{SetFlags: ai.SetFlags, Op: op, Dest: dest, Op1: regAt(args, 1), Op2: operand})
}

func shiftTypeFromVariant(variant string) (instr.ShiftType, bool) {
	switch variant {
	case "LSL":
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

// resolveDataOperand reads a register-with-optional-shift or an immediate
// expression from args (already positioned at the operand) into a
// DataOperand, healing an out-of-range immediate per ctx.heal. extra holds
// the materialisation sequence Advanced healing emits ahead of the real
// instruction; it is empty in every other case.
func resolveDataOperand(ctx *buildContext, ai *parser.AsmInstr, args []parser.Arg) (instr.DataOperand, []instr.Instr) {
	if len(args) == 0 {
		ctx.errs.Add(newError(ai.Pos, ParseError, "missing operand2"))
		return instr.DataOperand{}, nil
	}
	first := args[0]
	if first.Kind == parser.ArgRegister {
		sh := instr.NoShift
		if len(args) > 1 && args[1].Kind == parser.ArgShift {
			sh = resolveShift(ctx, ai, args[1].Shift)
		}
		return instr.DataOperand{Reg: first.Reg.Reg, Shift: sh}, nil
	}
	if first.Kind != parser.ArgExpression {
		ctx.errs.Add(newError(ai.Pos, ParseError, "expected register or immediate operand2"))
		return instr.DataOperand{}, nil
	}
	v, ok := evalExpression(first.Expr, ctx.syms, ctx.errs)
	if !ok {
		return instr.DataOperand{IsConstant: true}, nil
	}
	return healImmediateOperand(ctx, ai, v)
}

func resolveShift(ctx *buildContext, ai *parser.AsmInstr, s parser.Shift) instr.Shift {
	if s.Type == instr.RRX {
		return instr.Shift{Type: instr.RRX, Amount: instr.ConstAmount(1)}
	}
	if s.IsRegister {
		return instr.Shift{Type: s.Type, Amount: instr.RegAmount(s.AmountReg)}
	}
	v, ok := evalExpression(s.AmountExpr, ctx.syms, ctx.errs)
	if !ok {
		return instr.NoShift
	}
	if v > 31 {
		ctx.errs.Add(newValueError(ai.Pos, ShiftOutOfRange, "shift amount out of range", v))
		return instr.NoShift
	}
	return instr.Shift{Type: s.Type, Amount: instr.ConstAmount(uint8(v))}
}

// healImmediateOperand turns a raw 32-bit constant into a DataOperand,
// applying the active healing mode when v isn't directly representable as
// a rotated 8-bit immediate. Advanced healing always materialises into
// ctx.scratch, never into the instruction's own destination register, so
// that register can still be read as a source operand during the sequence.
func healImmediateOperand(ctx *buildContext, ai *parser.AsmInstr, v uint32) (instr.DataOperand, []instr.Instr) {
	if rc, ok := instr.EncodeRotatedConstant(v); ok {
		return instr.DataOperand{IsConstant: true, Constant: rc}, nil
	}
	switch ctx.heal {
	case HealOff, HealSimple:
		ctx.errs.Add(newValueError(ai.Pos, ImmediateOutOfRange, "immediate is not representable", v))
		return instr.DataOperand{IsConstant: true}, nil
	default: // HealAdvanced
		seq := materializeConstant(v, ctx.scratch)
		extra := make([]instr.Instr, len(seq))
		for i, d := range seq {
			extra[i] = d
		}
		return instr.DataOperand{Reg: ctx.scratch}, extra
	}
}
