package parser

import (
	"fmt"
	"strings"

	"github.com/go-arm/arm7tdmi/instr"
)

// Parser drives the line grammar over a token stream, recovering at line
// boundaries so one bad line doesn't abort the whole file.
type Parser struct {
	lex    *Lexer
	cur    Token
	peek   Token
	errors *ErrorList
}

// NewParser builds a parser over source text from filename.
func NewParser(input, filename string) *Parser {
	p := &Parser{lex: NewLexer(input, filename), errors: &ErrorList{}}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...any) {
	p.errors.Add(NewError(p.cur.Pos, kind, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(tt TokenType) bool {
	if p.cur.Type == tt {
		p.next()
		return true
	}
	p.errorf(ErrorSyntax, "expected %s, found %s", tt, p.cur.Type)
	return false
}

func (p *Parser) atLineEnd() bool {
	switch p.cur.Type {
	case TokenNewline, TokenEOF, TokenComment, TokenDirectiveComment:
		return true
	}
	return false
}

func (p *Parser) skipToEndOfLine() {
	for !p.atLineEnd() {
		p.next()
	}
}

// Parse consumes the whole token stream, returning one AsmLine per source
// line plus the lexer's and parser's accumulated errors.
func (p *Parser) Parse() ([]*AsmLine, *ErrorList) {
	var lines []*AsmLine
	for p.cur.Type != TokenEOF {
		lines = append(lines, p.parseLine())
		for p.cur.Type == TokenNewline {
			p.next()
		}
	}
	if lexErrs := p.lex.Errors(); lexErrs.HasErrors() {
		p.errors.Errors = append(lexErrs.Errors, p.errors.Errors...)
	}
	return lines, p.errors
}

func (p *Parser) parseLine() *AsmLine {
	line := &AsmLine{LineNo: p.cur.Pos.Line}

	if p.cur.Type == TokenIdentifier && p.peek.Type == TokenIdentifier &&
		strings.ToUpper(p.peek.Literal) == "EQU" {
		name := p.cur.Literal
		p.next()
		p.next()
		line.Kind = LineEqu
		line.EquName = name
		line.EquExpr = p.parseExpression()
		p.finishLine(line)
		return line
	}

	if p.cur.Type == TokenIdentifier && p.peek.Type == TokenColon {
		line.Label = p.cur.Literal
		p.next()
		p.next()
	}

	// A bare name directly before DEFW/DW labels the data words.
	if line.Label == "" && p.cur.Type == TokenIdentifier && p.peek.Type == TokenIdentifier {
		switch strings.ToUpper(p.peek.Literal) {
		case "DEFW", "DW":
			line.Label = p.cur.Literal
			p.next()
		}
	}

	switch p.cur.Type {
	case TokenNewline, TokenEOF, TokenComment, TokenDirectiveComment:
		// label-only or blank line
	case TokenIdentifier:
		p.parseLineContent(line)
	default:
		p.errorf(ErrorSyntax, "unexpected %s at start of line", p.cur.Type)
		p.skipToEndOfLine()
	}

	p.finishLine(line)
	return line
}

func (p *Parser) finishLine(line *AsmLine) {
	for p.cur.Type == TokenComment || p.cur.Type == TokenDirectiveComment {
		if p.cur.Type == TokenDirectiveComment {
			line.Directive = p.cur.Literal
		} else {
			line.Comment = p.cur.Literal
		}
		p.next()
	}
	if p.cur.Type != TokenNewline && p.cur.Type != TokenEOF {
		p.errorf(ErrorSyntax, "unexpected %s at end of line", p.cur.Type)
		p.skipToEndOfLine()
	}
}

func (p *Parser) parseLineContent(line *AsmLine) {
	identTok := p.cur
	upper := strings.ToUpper(identTok.Literal)

	switch upper {
	case "DEFW", "DW":
		p.next()
		line.Kind = LineDefineWord
		line.Words = append(line.Words, p.parseExpression())
		for p.cur.Type == TokenComma {
			p.next()
			line.Words = append(line.Words, p.parseExpression())
		}
		return
	}

	mnemonic, cond, setFlags, variant, ok := classifyMnemonic(upper)
	if !ok {
		p.errorf(ErrorInvalidOpcode, "unrecognised mnemonic %q", identTok.Literal)
		p.next()
		p.skipToEndOfLine()
		return
	}
	p.next()

	inst := &AsmInstr{
		Mnemonic: mnemonic,
		Cond:     cond,
		SetFlags: setFlags,
		Variant:  variant,
		Pos:      identTok.Pos,
	}

	// "LDR Rd, =expr" is the literal-load pseudo-op: the destination
	// register parses normally, then a bare '=' introduces the constant
	// expression, which the assembler materialises with data-processing
	// instructions rather than placing in a literal pool. Any other second
	// operand (an address, typically) parses as for an ordinary LDR.
	if mnemonic == "LDR" && p.cur.Type == TokenRegister {
		inst.Args = p.parseLiteralPoolOrNormalArgs()
	} else {
		inst.Args = p.parseArgs()
	}

	line.Kind = LineInstruction
	line.Instr = inst
}

func (p *Parser) parseLiteralPoolOrNormalArgs() []Arg {
	destPos := p.cur.Pos
	dest := registerFromLiteral(p.cur.Literal)
	p.next()
	args := []Arg{{Kind: ArgRegister, Pos: destPos, Reg: Register{Reg: dest}}}
	if !p.expect(TokenComma) {
		return args
	}
	if p.cur.Type == TokenEqual {
		eqPos := p.cur.Pos
		p.next()
		args = append(args, Arg{Kind: ArgExpression, Pos: eqPos, Expr: p.parseExpression()})
		return args
	}
	for {
		args = append(args, p.parseArg())
		if p.cur.Type != TokenComma {
			break
		}
		p.next()
	}
	return args
}

func (p *Parser) parseArgs() []Arg {
	var args []Arg
	if p.atLineEnd() {
		return args
	}
	for {
		args = append(args, p.parseArg())
		if p.cur.Type != TokenComma {
			break
		}
		p.next()
	}
	return args
}

func (p *Parser) parseArg() Arg {
	pos := p.cur.Pos
	switch p.cur.Type {
	case TokenRegister:
		reg := registerFromLiteral(p.cur.Literal)
		p.next()
		wb := false
		if p.cur.Type == TokenBang {
			wb = true
			p.next()
		}
		return Arg{Kind: ArgRegister, Pos: pos, Reg: Register{Reg: reg}, WriteBack: wb}
	case TokenPSR:
		lit := p.cur.Literal
		psr := instr.CPSR
		if strings.HasPrefix(lit, "SPSR") {
			psr = instr.SPSR
		}
		flagOnly := strings.HasSuffix(lit, "_FLG")
		p.next()
		return Arg{Kind: ArgPSR, Pos: pos, PSR: psr, PSRFlagOnly: flagOnly}
	case TokenLBracket:
		return p.parseAddressArg()
	case TokenLBrace:
		return p.parseRegisterListArg()
	case TokenIdentifier:
		if st, ok := shiftTypeFromIdent(p.cur.Literal); ok {
			return p.parseShiftArg(st, pos)
		}
		return Arg{Kind: ArgExpression, Pos: pos, Expr: p.parseOperandExpression()}
	case TokenHash, TokenNumber, TokenMinus, TokenLParen:
		return Arg{Kind: ArgExpression, Pos: pos, Expr: p.parseOperandExpression()}
	default:
		p.errorf(ErrorInvalidOperand, "unexpected %s in operand", p.cur.Type)
		p.next()
		return Arg{Kind: ArgExpression, Pos: pos, Expr: ConstExpr(0, pos)}
	}
}

func (p *Parser) parseOperandExpression() *Expression {
	if p.cur.Type == TokenHash {
		p.next()
	}
	return p.parseExpression()
}

func (p *Parser) parseShiftArg(st instr.ShiftType, pos Position) Arg {
	p.next() // consume the shift mnemonic
	if st == instr.RRX {
		return Arg{Kind: ArgShift, Pos: pos, Shift: Shift{Type: instr.RRX}}
	}
	if p.cur.Type == TokenRegister {
		reg := registerFromLiteral(p.cur.Literal)
		p.next()
		return Arg{Kind: ArgShift, Pos: pos, Shift: Shift{Type: st, IsRegister: true, AmountReg: reg}}
	}
	amt := p.parseOperandExpression()
	return Arg{Kind: ArgShift, Pos: pos, Shift: Shift{Type: st, AmountExpr: amt}}
}

func (p *Parser) parseAddressArg() Arg {
	pos := p.cur.Pos
	p.next() // consume '['
	addr := &AddressArg{PreIndex: true}

	if p.cur.Type != TokenRegister {
		p.errorf(ErrorInvalidOperand, "expected base register, found %s", p.cur.Type)
	} else {
		addr.Base = registerFromLiteral(p.cur.Literal)
		p.next()
	}

	if p.cur.Type == TokenComma {
		p.next()
		addr.HasOffset = true
		addr.Offset = p.parseAddressOffset()
	}
	p.expect(TokenRBracket)

	if p.cur.Type == TokenBang {
		addr.WriteBack = true
		p.next()
	} else if p.cur.Type == TokenComma {
		p.next()
		addr.PreIndex = false
		addr.HasOffset = true
		addr.Offset = p.parseAddressOffset()
	}

	return Arg{Kind: ArgAddress, Pos: pos, Address: addr}
}

// parseAddressOffset parses the offset field of an addressing mode: a
// "#expr" immediate, a signed bare register with an optional trailing
// shift, or (rarely) a bare label expression used as a displacement.
func (p *Parser) parseAddressOffset() Arg {
	if p.cur.Type == TokenHash {
		p.next()
		pos := p.cur.Pos
		return Arg{Kind: ArgExpression, Pos: pos, Expr: p.parseExpression()}
	}

	pos := p.cur.Pos
	negative := false
	switch p.cur.Type {
	case TokenMinus:
		negative = true
		p.next()
	case TokenPlus:
		p.next()
	}

	if p.cur.Type == TokenRegister {
		reg := registerFromLiteral(p.cur.Literal)
		p.next()
		arg := Arg{Kind: ArgRegister, Pos: pos, Reg: Register{Reg: reg, Negative: negative}}
		if p.cur.Type == TokenComma {
			p.next()
			shiftPos := p.cur.Pos
			if st, ok := shiftTypeFromIdent(p.cur.Literal); ok && p.cur.Type == TokenIdentifier {
				shiftArg := p.parseShiftArg(st, shiftPos)
				arg.Shift = shiftArg.Shift
			} else {
				p.errorf(ErrorInvalidOperand, "expected shift after register offset")
			}
		}
		return arg
	}

	expr := p.parseExpression()
	if negative {
		expr = BinExpr(OpSub, ConstExpr(0, pos), expr)
	}
	return Arg{Kind: ArgExpression, Pos: pos, Expr: expr}
}

func (p *Parser) parseRegisterListArg() Arg {
	pos := p.cur.Pos
	p.next() // consume '{'
	var mask uint16
	for p.cur.Type != TokenRBrace && p.cur.Type != TokenEOF {
		if p.cur.Type != TokenRegister {
			p.errorf(ErrorInvalidOperand, "expected register in register list, found %s", p.cur.Type)
			break
		}
		lo := registerFromLiteral(p.cur.Literal)
		p.next()
		hi := lo
		if p.cur.Type == TokenMinus {
			p.next()
			if p.cur.Type != TokenRegister {
				p.errorf(ErrorInvalidOperand, "expected register after '-' in register list")
			} else {
				hi = registerFromLiteral(p.cur.Literal)
				p.next()
			}
		}
		for r := lo; r <= hi; r++ {
			mask |= 1 << uint(r)
		}
		if p.cur.Type == TokenComma {
			p.next()
		}
	}
	p.expect(TokenRBrace)
	return Arg{Kind: ArgRegisterList, Pos: pos, RegList: mask}
}
