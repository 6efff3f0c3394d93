package assembler

import (
	"github.com/go-arm/arm7tdmi/encoder"
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/go-arm/arm7tdmi/parser"
)

// buildContext is the per-instruction state threaded through every builder:
// the address the instruction starts at, the symbol table, the active
// healing mode, and the error sink the whole pass shares.
type buildContext struct {
	pc      uint32
	syms    *SymbolTable
	heal    HealMode
	errs    *ErrorList
	scratch instr.Register
}

// buildInstruction turns one parsed instruction into its encoded words,
// applying healing where the mode allows it. The returned slice always has
// the length that was actually emitted (or, on an unrecoverable error, a
// single placeholder word) so pass-to-pass address accounting stays
// consistent.
func buildInstruction(ctx *buildContext, ai *parser.AsmInstr) []uint32 {
	ops := buildInstrs(ctx, ai)
	words := make([]uint32, len(ops))
	for i, op := range ops {
		w, err := encoder.Encode(ai.Cond, op)
		if err != nil {
			ctx.reportEncodeError(ai.Pos, err)
			continue
		}
		words[i] = w
	}
	return words
}

func buildInstrs(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	switch ai.Mnemonic {
	case "BX":
		return buildBranchExchange(ctx, ai)
	case "B":
		return buildBranch(ctx, ai)
	case "ADR":
		return buildAdr(ctx, ai)
	case "MRS":
		return buildMrs(ctx, ai)
	case "MSR":
		return buildMsr(ctx, ai)
	case "MUL":
		return buildMultiply(ctx, ai, false)
	case "MLA":
		return buildMultiply(ctx, ai, true)
	case "UMULL":
		return buildMultiplyLong(ctx, ai, false, false)
	case "UMLAL":
		return buildMultiplyLong(ctx, ai, false, true)
	case "SMULL":
		return buildMultiplyLong(ctx, ai, true, false)
	case "SMLAL":
		return buildMultiplyLong(ctx, ai, true, true)
	case "SWP":
		return buildSwap(ctx, ai)
	case "SWI":
		return buildSwi(ctx, ai)
	case "LDR", "STR":
		return buildTransfer(ctx, ai)
	case "LDM", "STM":
		return buildBlockTransfer(ctx, ai)
	case "NOP":
		return []instr.Instr{instr.Data{Op: instr.MOV, Dest: instr.R0, Op1: instr.R0, Op2: instr.DataOperand{Reg: instr.R0}}}
	default:
		return buildData(ctx, ai)
	}
}

func regAt(args []parser.Arg, i int) instr.Register { return args[i].Reg.Reg }

func (ctx *buildContext) fail(pos parser.Position, kind ErrorKind, msg string) []instr.Instr {
	ctx.errs.Add(newError(pos, kind, msg))
	return []instr.Instr{instr.Data{}}
}

func buildBranchExchange(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) != 1 || ai.Args[0].Kind != parser.ArgRegister {
		return ctx.fail(ai.Pos, ParseError, "BX expects a single register operand")
	}
	return []instr.Instr{instr.BranchExchange{Reg: regAt(ai.Args, 0)}}
}

func buildBranch(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) != 1 || ai.Args[0].Kind != parser.ArgExpression {
		return ctx.fail(ai.Pos, ParseError, "B/BL expects a single target expression")
	}
	target, ok := evalExpression(ai.Args[0].Expr, ctx.syms, ctx.errs)
	if !ok {
		return []instr.Instr{instr.Branch{Link: ai.SetFlags}}
	}
	offset := int64(target) - int64(ctx.pc+8)
	if offset%4 != 0 {
		return ctx.fail(ai.Pos, MisalignedBranchOffset, "branch target is not word-aligned")
	}
	shifted := offset / 4
	if shifted < -(1<<23) || shifted >= (1<<23) {
		return ctx.fail(ai.Pos, OffsetOutOfRange, "branch offset does not fit in 24 bits")
	}
	return []instr.Instr{instr.Branch{Link: ai.SetFlags, Offset: int32(offset)}}
}

// buildAdr resolves "ADR Rd, label" to a PC-relative ADD/SUB against the
// same materialisation machinery used for data-processing immediates: ADR
// has no dedicated encoding here, so it compiles to whichever of
// ADD Rd, PC, #delta / SUB Rd, PC, #delta the sign of the displacement
// calls for, healing the immediate exactly as any other Data instruction
// would.
func buildAdr(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) != 2 || ai.Args[0].Kind != parser.ArgRegister || ai.Args[1].Kind != parser.ArgExpression {
		return ctx.fail(ai.Pos, ParseError, "ADR expects Rd, expr")
	}
	dest := regAt(ai.Args, 0)
	target, ok := evalExpression(ai.Args[1].Expr, ctx.syms, ctx.errs)
	if !ok {
		return []instr.Instr{instr.Data{}}
	}
	pcVal := int64(ctx.pc + 8)
	delta := int64(target) - pcVal
	op := instr.ADD
	magnitude := uint32(delta)
	if delta < 0 {
		op = instr.SUB
		magnitude = uint32(-delta)
	}
	operand, extra := healImmediateOperand(ctx, ai, magnitude)
	d := instr.Data{Op: op, Dest: dest, Op1: instr.PC, Op2: operand}
	return append(extra, d)
}

func buildMrs(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) != 2 || ai.Args[0].Kind != parser.ArgRegister || ai.Args[1].Kind != parser.ArgPSR {
		return ctx.fail(ai.Pos, ParseError, "MRS expects Rd, {C,S}PSR")
	}
	return []instr.Instr{instr.Mrs{Target: regAt(ai.Args, 0), Psr: ai.Args[1].PSR}}
}

func buildMsr(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) != 2 || ai.Args[0].Kind != parser.ArgPSR {
		return ctx.fail(ai.Pos, ParseError, "MSR expects {C,S}PSR{_flg}, operand")
	}
	psrArg := ai.Args[0]
	second := ai.Args[1]

	var src instr.MsrSource
	switch {
	case second.Kind == parser.ArgRegister && !psrArg.PSRFlagOnly:
		src = instr.MsrSource{Kind: instr.MsrSourceRegister, Reg: second.Reg.Reg}
	case second.Kind == parser.ArgRegister && psrArg.PSRFlagOnly:
		src = instr.MsrSource{Kind: instr.MsrSourceRegisterFlags, Reg: second.Reg.Reg}
	case second.Kind == parser.ArgExpression:
		v, ok := evalExpression(second.Expr, ctx.syms, ctx.errs)
		if !ok {
			return []instr.Instr{instr.Msr{}}
		}
		src = instr.MsrSource{Kind: instr.MsrSourceFlags, Imm: v}
	default:
		return ctx.fail(ai.Pos, ParseError, "unsupported MSR source operand")
	}
	return []instr.Instr{instr.Msr{Psr: psrArg.PSR, Source: src}}
}

func buildSwap(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	byteSize := ai.Variant == "B"
	if len(ai.Args) != 3 {
		return ctx.fail(ai.Pos, ParseError, "SWP expects Rd, Rm, [Rn]")
	}
	base := ai.Args[2]
	if base.Kind != parser.ArgAddress || base.Address.HasOffset {
		return ctx.fail(ai.Pos, ParseError, "SWP's third operand must be [Rn]")
	}
	return []instr.Instr{instr.Swap{
		Byte:   byteSize,
		Dest:   regAt(ai.Args, 0),
		Source: regAt(ai.Args, 1),
		Base:   base.Address.Base,
	}}
}

func buildSwi(ctx *buildContext, ai *parser.AsmInstr) []instr.Instr {
	if len(ai.Args) != 1 || ai.Args[0].Kind != parser.ArgExpression {
		return ctx.fail(ai.Pos, ParseError, "SWI expects a single comment-field expression")
	}
	v, ok := evalExpression(ai.Args[0].Expr, ctx.syms, ctx.errs)
	if !ok {
		v = 0
	}
	return []instr.Instr{instr.SoftwareInterrupt{Comment: v & 0xFFFFFF}}
}

func buildMultiply(ctx *buildContext, ai *parser.AsmInstr, withAddend bool) []instr.Instr {
	want := 3
	if withAddend {
		want = 4
	}
	if len(ai.Args) != want {
		return ctx.fail(ai.Pos, ParseError, "wrong operand count for multiply")
	}
	m := instr.Multiply{
		SetFlags: ai.SetFlags,
		Dest:     regAt(ai.Args, 0),
		Op1:      regAt(ai.Args, 1),
		Op2:      regAt(ai.Args, 2),
	}
	if withAddend {
		m.HasAddend = true
		m.Addend = regAt(ai.Args, 3)
	}
	return []instr.Instr{m}
}

func buildMultiplyLong(ctx *buildContext, ai *parser.AsmInstr, signed, accumulate bool) []instr.Instr {
	if len(ai.Args) != 4 {
		return ctx.fail(ai.Pos, ParseError, "wrong operand count for long multiply")
	}
	return []instr.Instr{instr.MultiplyLong{
		SetFlags:   ai.SetFlags,
		Signed:     signed,
		Accumulate: accumulate,
		DestLo:     regAt(ai.Args, 0),
		DestHi:     regAt(ai.Args, 1),
		Op1:        regAt(ai.Args, 2),
		Op2:        regAt(ai.Args, 3),
	}}
}
