package assembler

import "github.com/go-arm/arm7tdmi/parser"

// Symbol is a label or EQU name bound to an address or constant value.
type Symbol struct {
	Name    string
	Value   uint32
	Defined bool
	Pos     parser.Position
}

// SymbolTable holds every label and EQU binding seen across a resolver
// pass. The resolver seeds each declared name as a defined entry with
// value 0 before the first pass, and passes update entries in place as
// they compute real addresses, mirroring the fixed-point resolution §4.3
// describes. A name with no entry is reported as not found.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Set records value for name, reporting whether it differs from the
// previous value recorded for name (used to detect pass-to-pass movement).
func (st *SymbolTable) Set(name string, value uint32, pos parser.Position) (changed bool) {
	sym, ok := st.symbols[name]
	if !ok {
		st.symbols[name] = &Symbol{Name: name, Value: value, Defined: true, Pos: pos}
		return true
	}
	changed = !sym.Defined || sym.Value != value
	sym.Value, sym.Defined, sym.Pos = value, true, pos
	return changed
}

func (st *SymbolTable) Lookup(name string) (uint32, bool) {
	sym, ok := st.symbols[name]
	if !ok || !sym.Defined {
		return 0, false
	}
	return sym.Value, true
}

// Reset clears every symbol's Defined flag so a resolve-from-scratch run
// can tell a first pass's "not yet known" from a later pass's real zero.
func (st *SymbolTable) Reset() {
	for _, sym := range st.symbols {
		sym.Defined = false
		sym.Value = 0
	}
}
