package assembler

import (
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/go-arm/arm7tdmi/parser"
)

func buildTransfer(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if ai.Mnemonic == "LDR" && len(ai.Args) == 2 && ai.Args[1].Kind == parser.ArgExpression {
		return buildLiteralLoad(ctx, ai)
	}
	if len(ai.Args) != 2 || ai.Args[0].Kind != parser.ArgRegister || ai.Args[1].Kind != parser.ArgAddress {
		return ctx.fail(ai.Pos, ParseError, "expected Rd, [address]")
	}
	dataReg := regAt(ai.Args, 0)
	addr := ai.Args[1].Address
	kind := instr.Load
	if ai.Mnemonic == "STR" {
		kind = instr.Store
	}

	switch ai.Variant {
	case "", "B":
		size := instr.Word
		if ai.Variant == "B" {
			size = instr.Byte
		}
		operand, positive, extra, ok := resolveTransferOffset(ctx, ai, addr)
		if !ok {
			return []instr.Instr{instr.SingleTransfer{}}
		}
		return append(extra, instr.SingleTransfer{
			Kind: kind, Size: size, WriteBack: addr.WriteBack,
			OffsetPositive: positive, PreIndex: addr.PreIndex,
			DataReg: dataReg, BaseReg: addr.Base, Offset: operand,
		})
	case "H", "SH", "SB":
		if kind == instr.Store && ai.Variant != "H" {
			return ctx.fail(ai.Pos, InvalidStoreSize, "store only supports the halfword size")
		}
		sizes := map[string]instr.TransferSizeSpecial{"H": instr.HalfWord, "SH": instr.SignedHalfWord, "SB": instr.SignedByte}
		operand, positive, extra, ok := resolveSpecialOffset(ctx, ai, addr)
		if !ok {
			return []instr.Instr{instr.SingleTransferSpecial{}}
		}
		return append(extra, instr.SingleTransferSpecial{
			Kind: kind, Size: sizes[ai.Variant], WriteBack: addr.WriteBack,
			OffsetPositive: positive, PreIndex: addr.PreIndex,
			DataReg: dataReg, BaseReg: addr.Base, Offset: operand,
		})
	default:
		return ctx.fail(ai.Pos, ParseError, "unknown transfer variant "+ai.Variant)
	}
}

// buildLiteralLoad resolves "LDR Rd, =expr", the literal-pool pseudo-op,
// against the same constant-materialisation machinery ADR uses rather than
// a true pool placement: emitting a real nearby data word and a PC-relative
// load would need its own address-allocation pass ahead of the resolver's
// label fixpoint, which is more machinery than a pseudo-op like this earns.
// A directly representable value is loaded with a single MOV into Rd.
// Otherwise Advanced healing builds the value in the scratch register
// (R12) with a MOV/MVN/ORR sequence and then moves it into Rd, so R12 is
// overwritten too; under Off or Simple healing such a value is an
// ImmediateOutOfRange error.
func buildLiteralLoad(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	dest := regAt(ai.Args, 0)
	v, ok := evalExpression(ai.Args[1].Expr, ctx.syms, ctx.errs)
	if !ok {
		return []instr.Instr{instr.Data{}}
	}
	operand, extra := healImmediateOperand(ctx, ai, v)
	mov := instr.Data{Op: instr.MOV, Dest: dest, Op1: dest, Op2: operand}
	return append(extra, mov)
}

// splitSignedMagnitude treats v as a wrapped int32 (the representation a
// synthesised "0 - expr" unary minus produces) and separates it into a
// sign and an unsigned magnitude.
func splitSignedMagnitude(v uint32) (positive bool, magnitude uint32) {
	sv := int32(v)
	if sv < 0 {
		return false, uint32(-sv)
	}
	return true, uint32(sv)
}

func resolveTransferOffset(ctx *buildContext, ai *parser.AsmInstr, addr *parser.AddressArg) (instr.TransferOperand, bool, []instr.Instr, bool) {
	if !addr.HasOffset {
		return instr.TransferOperand{IsConstant: true}, true, nil, true
	}
	off := addr.Offset
	if off.Kind == parser.ArgRegister {
		sh := instr.NoShift
		if off.Shift.Type != 0 || off.Shift.AmountExpr != nil || off.Shift.IsRegister {
			if off.Shift.IsRegister {
				ctx.errs.Add(newError(ai.Pos, InvalidShiftType, "transfer offset shift may not be register-specified"))
				return instr.TransferOperand{}, true, nil, false
			}
			sh = resolveShift(ctx, ai, off.Shift)
		}
		return instr.TransferOperand{Reg: off.Reg.Reg, Shift: sh}, !off.Reg.Negative, nil, true
	}
	v, ok := evalExpression(off.Expr, ctx.syms, ctx.errs)
	if !ok {
		return instr.TransferOperand{IsConstant: true}, true, nil, false
	}
	positive, magnitude := splitSignedMagnitude(v)
	if magnitude <= 0xFFF {
		return instr.TransferOperand{IsConstant: true, Constant: uint16(magnitude)}, positive, nil, true
	}
	switch ctx.heal {
	case HealOff, HealSimple:
		ctx.errs.Add(newValueError(ai.Pos, OffsetOutOfRange, "transfer offset does not fit in 12 bits", magnitude))
		return instr.TransferOperand{IsConstant: true}, true, nil, false
	default:
		seq := materializeConstant(magnitude, ctx.scratch)
		extra := make([]instr.Instr, len(seq))
		for i, d := range seq {
			extra[i] = d
		}
		return instr.TransferOperand{Reg: ctx.scratch}, positive, extra, true
	}
}

func resolveSpecialOffset(ctx *buildContext, ai *parser.AsmInstr, addr *parser.AddressArg) (instr.SpecialOperand, bool, []instr.Instr, bool) {
	if !addr.HasOffset {
		return instr.SpecialOperand{IsConstant: true}, true, nil, true
	}
	off := addr.Offset
	if off.Kind == parser.ArgRegister {
		return instr.SpecialOperand{Reg: off.Reg.Reg}, !off.Reg.Negative, nil, true
	}
	v, ok := evalExpression(off.Expr, ctx.syms, ctx.errs)
	if !ok {
		return instr.SpecialOperand{IsConstant: true}, true, nil, false
	}
	positive, magnitude := splitSignedMagnitude(v)
	if magnitude <= 0xFF {
		return instr.SpecialOperand{IsConstant: true, Constant: uint8(magnitude)}, positive, nil, true
	}
	switch ctx.heal {
	case HealOff, HealSimple:
		ctx.errs.Add(newValueError(ai.Pos, OffsetOutOfRange, "transfer offset does not fit in 8 bits", magnitude))
		return instr.SpecialOperand{IsConstant: true}, true, nil, false
	default:
		seq := materializeConstant(magnitude, ctx.scratch)
		extra := make([]instr.Instr, len(seq))
		for i, d := range seq {
			extra[i] = d
		}
		return instr.SpecialOperand{Reg: ctx.scratch}, positive, extra, true
	}
}

func buildBlockTransfer(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) < 2 || ai.Args[0].Kind != parser.ArgRegister || ai.Args[1].Kind != parser.ArgRegisterList {
		return ctx.fail(ai.Pos, ParseError, "expected Rn{!}, {register list}")
	}
	kind := instr.Load
	if ai.Mnemonic == "STM" {
		kind = instr.Store
	}
	var ascending, preIndex bool
	switch ai.Variant {
	case "IA":
		ascending, preIndex = true, false
	case "IB":
		ascending, preIndex = true, true
	case "DA":
		ascending, preIndex = false, false
	case "DB":
		ascending, preIndex = false, true
	default:
		return ctx.fail(ai.Pos, ParseError, "unknown block-transfer addressing mode "+ai.Variant)
	}
	return []instr.Instr{instr.BlockTransfer{
		Kind: kind, WriteBack: ai.Args[0].WriteBack, OffsetPositive: ascending, PreIndex: preIndex,
		BaseReg: regAt(ai.Args, 0), Registers: ai.Args[1].RegList,
	}}
}
