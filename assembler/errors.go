package assembler

import (
	"fmt"

	"github.com/go-arm/arm7tdmi/parser"
)

// ErrorKind categorises an assembly-time failure.
type ErrorKind int

const (
	ParseError ErrorKind = iota
	LabelNotFound
	ShiftOutOfRange
	MisalignedBranchOffset
	OffsetOutOfRange
	ImmediateOutOfRange
	InvalidShiftType
	InvalidStoreSize
	AddressTooComplex
	TooManyPasses
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case LabelNotFound:
		return "LabelNotFound"
	case ShiftOutOfRange:
		return "ShiftOutOfRange"
	case MisalignedBranchOffset:
		return "MisalignedBranchOffset"
	case OffsetOutOfRange:
		return "OffsetOutOfRange"
	case ImmediateOutOfRange:
		return "ImmediateOutOfRange"
	case InvalidShiftType:
		return "InvalidShiftType"
	case InvalidStoreSize:
		return "InvalidStoreSize"
	case AddressTooComplex:
		return "AddressTooComplex"
	case TooManyPasses:
		return "TooManyPasses"
	default:
		return "UnknownError"
	}
}

// Error is one assembly-time failure, carrying the source position and an
// optional offending value (e.g. the immediate ImmediateOutOfRange rejected).
type Error struct {
	Pos     parser.Position
	Kind    ErrorKind
	Message string
	Value   uint32
	HasValue bool
}

func (e *Error) Error() string {
	if e.HasValue {
		return fmt.Sprintf("%s: %s: %s (0x%X)", e.Pos, e.Kind, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

func newError(pos parser.Position, kind ErrorKind, message string) *Error {
	return &Error{Pos: pos, Kind: kind, Message: message}
}

func newValueError(pos parser.Position, kind ErrorKind, message string, value uint32) *Error {
	return &Error{Pos: pos, Kind: kind, Message: message, Value: value, HasValue: true}
}

// ErrorList collects every error a pass over a program accumulates.
type ErrorList struct {
	Errors []*Error
}

func (el *ErrorList) Add(err *Error) { el.Errors = append(el.Errors, err) }

func (el *ErrorList) HasErrors() bool { return len(el.Errors) > 0 }

func (el *ErrorList) Error() string {
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}
