package parser

import "github.com/go-arm/arm7tdmi/instr"

// BinOp is an expression-level binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpOr
	OpLSL
	OpLSR
	OpASR
	OpROR
)

// ExprKind tags the three expression node shapes.
type ExprKind int

const (
	ExprConstant ExprKind = iota
	ExprLabel
	ExprBinary
)

// Expression is the AST of a constant expression: literals, label
// references resolved against the assembler's label table, and binary
// operators evaluated with wrapping u32 arithmetic.
type Expression struct {
	Kind     ExprKind
	Constant uint32
	Label    string
	Op       BinOp
	Left     *Expression
	Right    *Expression
	Pos      Position
}

func ConstExpr(v uint32, pos Position) *Expression {
	return &Expression{Kind: ExprConstant, Constant: v, Pos: pos}
}

func LabelExpr(name string, pos Position) *Expression {
	return &Expression{Kind: ExprLabel, Label: name, Pos: pos}
}

func BinExpr(op BinOp, l, r *Expression) *Expression {
	return &Expression{Kind: ExprBinary, Op: op, Left: l, Right: r, Pos: l.Pos}
}

// ArgKind discriminates the shapes an instruction argument can take.
type ArgKind int

const (
	ArgRegister ArgKind = iota
	ArgPSR
	ArgShift
	ArgExpression
	ArgAddress
	ArgRegisterList
)

// Arg is one parsed instruction operand.
type Arg struct {
	Kind ArgKind
	Pos  Position

	Reg Register // ArgRegister, and the base/offset registers elsewhere

	PSR         instr.PSR // ArgPSR
	PSRFlagOnly bool

	Shift Shift // ArgShift, and the optional shift on an ArgAddress offset

	Expr *Expression // ArgExpression

	Address *AddressArg // ArgAddress

	RegList uint16 // ArgRegisterList: bit i set means Ri is in the list

	// WriteBack is set on a bare ArgRegister that was followed by '!' --
	// the block-transfer base register form (e.g. "STMFD SP!, {...}").
	WriteBack bool
}

// Register pairs the virtual register with whether a leading sign was
// given in an addressing-mode offset position (+Rm / -Rm).
type Register struct {
	Reg      instr.Register
	Negative bool
}

// Shift is a parsed shift operator: a type plus either a constant amount
// expression or a register.
type Shift struct {
	Type       instr.ShiftType
	AmountExpr *Expression
	AmountReg  instr.Register
	IsRegister bool
}

// AddressArg is a bracketed addressing-mode operand: [base {, offset}] {!}.
type AddressArg struct {
	Base      instr.Register
	HasOffset bool
	Offset    Arg // ArgExpression or ArgRegister(+sign), possibly with Shift
	WriteBack bool
	PreIndex  bool // false when the offset appears after the closing bracket (post-indexed)
}

// AsmInstr is one parsed instruction: canonical mnemonic, condition,
// variant-specific flags, and its argument list.
type AsmInstr struct {
	Mnemonic string // canonical base, e.g. "MOV", "LDR", "SWI"
	Cond     instr.Cond
	SetFlags bool   // the S suffix, where the mnemonic admits one
	Variant  string // size suffix "B","H","SB","SH"; block mode "IA","IB","DA","DB"; shift "LSL".."RRX"; empty otherwise
	Args     []Arg
	Pos      Position
}

// LineKind tags what an AsmLine carries besides its optional label.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineInstruction
	LineEqu
	LineDefineWord
)

// AsmLine is one line of source: an optional label, then optional
// instruction/directive content, then an optional comment.
type AsmLine struct {
	LineNo  int
	Label   string
	Kind    LineKind
	Instr   *AsmInstr
	EquName string
	EquExpr *Expression
	Words   []*Expression
	Comment string

	// Directive holds the text of a ";!" harness directive on this line,
	// with the "!" stripped and any following space kept, e.g. " STEPS 10"
	// or " R0 5". Empty when absent.
	Directive string
}
