package assembler

import "github.com/go-arm/arm7tdmi/parser"

// evalExpression folds a parsed expression tree to a concrete uint32,
// resolving label references against syms. Wrapping arithmetic throughout
// matches the word-size semantics the assembled program itself runs under.
func evalExpression(expr *parser.Expression, syms *SymbolTable, errs *ErrorList) (uint32, bool) {
	switch expr.Kind {
	case parser.ExprConstant:
		return expr.Constant, true
	case parser.ExprLabel:
		v, ok := syms.Lookup(expr.Label)
		if !ok {
			errs.Add(newError(expr.Pos, LabelNotFound, "undefined label "+expr.Label))
			return 0, false
		}
		return v, true
	case parser.ExprBinary:
		l, lok := evalExpression(expr.Left, syms, errs)
		r, rok := evalExpression(expr.Right, syms, errs)
		if !lok || !rok {
			return 0, false
		}
		return evalBinOp(expr, l, r, errs)
	default:
		return 0, false
	}
}

func evalBinOp(expr *parser.Expression, l, r uint32, errs *ErrorList) (uint32, bool) {
	switch expr.Op {
	case parser.OpAdd:
		return l + r, true
	case parser.OpSub:
		return l - r, true
	case parser.OpMul:
		return l * r, true
	case parser.OpDiv:
		if r == 0 {
			errs.Add(newError(expr.Pos, ParseError, "division by zero"))
			return 0, false
		}
		return l / r, true
	case parser.OpOr:
		return l | r, true
	case parser.OpLSL:
		return l << (r & 31), true
	case parser.OpLSR:
		return l >> (r & 31), true
	case parser.OpASR:
		return uint32(int32(l) >> (r & 31)), true
	case parser.OpROR:
		n := r & 31
		if n == 0 {
			return l, true
		}
		return (l >> n) | (l << (32 - n)), true
	default:
		return 0, false
	}
}
