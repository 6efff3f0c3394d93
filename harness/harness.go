// Package harness runs an assembled program under the ";!" directive
// assertions a test source file declares: a step cap, an optional halt
// deadline, an optional initial mode, and expected final register values.
package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/go-arm/arm7tdmi/loader"
	"github.com/go-arm/arm7tdmi/parser"
	"github.com/go-arm/arm7tdmi/vm"
)

// defaultStepCap bounds execution when a source declares no STEPS
// directive. The test directives in SPEC_FULL.md section 4.7 describe
// STEPS as a hard cap a file is expected to declare; this is the fallback
// for a file without one. The `run` command takes its cap from the config
// file's default_step_cap instead.
const defaultStepCap = 100000

// Expectation is one register-name directive: the physical register or
// PSR it names and the raw text of its expected value (a signed integer
// literal or a label resolved against the assembled symbol table).
type Expectation struct {
	Name      string
	Reg       instr.Register
	IsPSR     bool
	PSR       instr.PSR
	ValueText string
}

// Directives is every ";!" assertion declared in a source file.
type Directives struct {
	Steps        int
	HasHalts     bool
	Halts        int
	HasMode      bool
	Mode         instr.Mode
	Expectations []Expectation
}

// ParseDirectives scans every line's harness-directive comment and
// builds the declared assertion set. An unrecognised keyword or a
// malformed value is a parse error, matching the closed keyword set
// §4.7 specifies.
func ParseDirectives(lines []*parser.AsmLine) (*Directives, error) {
	d := &Directives{}
	for _, line := range lines {
		if line.Directive == "" {
			continue
		}
		fields := strings.Fields(line.Directive)
		if len(fields) == 0 {
			continue
		}
		kw := strings.ToUpper(fields[0])
		switch kw {
		case "STEPS":
			n, err := directiveInt(fields, kw)
			if err != nil {
				return nil, err
			}
			d.Steps = n
		case "HALTS":
			n, err := directiveInt(fields, kw)
			if err != nil {
				return nil, err
			}
			d.HasHalts, d.Halts = true, n
		case "MODE":
			if len(fields) < 2 {
				return nil, fmt.Errorf("MODE directive requires a mode name")
			}
			m, ok := modeFromName(fields[1])
			if !ok {
				return nil, fmt.Errorf("unrecognised mode %q", fields[1])
			}
			d.HasMode, d.Mode = true, m
		default:
			reg, isPSR, psr, ok := registerFromName(kw)
			if !ok {
				return nil, fmt.Errorf("unrecognised directive %q", kw)
			}
			if len(fields) < 2 {
				return nil, fmt.Errorf("%s directive requires an expected value", kw)
			}
			d.Expectations = append(d.Expectations, Expectation{
				Name: kw, Reg: reg, IsPSR: isPSR, PSR: psr, ValueText: fields[1],
			})
		}
	}
	return d, nil
}

func directiveInt(fields []string, kw string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s directive requires a count", kw)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%s directive has a non-numeric count %q", kw, fields[1])
	}
	return n, nil
}

func modeFromName(name string) (instr.Mode, bool) {
	switch strings.ToUpper(name) {
	case "USR", "USER":
		return instr.ModeUser, true
	case "FIQ":
		return instr.ModeFIQ, true
	case "IRQ":
		return instr.ModeIRQ, true
	case "SVC", "SUPERVISOR":
		return instr.ModeSupervisor, true
	case "ABT", "ABORT":
		return instr.ModeAbort, true
	case "SYS", "SYSTEM":
		return instr.ModeSystem, true
	case "UND", "UNDEFINED":
		return instr.ModeUndefined, true
	default:
		return 0, false
	}
}

func registerFromName(name string) (reg instr.Register, isPSR bool, psr instr.PSR, ok bool) {
	switch name {
	case "R0":
		return instr.R0, false, 0, true
	case "R1":
		return instr.R1, false, 0, true
	case "R2":
		return instr.R2, false, 0, true
	case "R3":
		return instr.R3, false, 0, true
	case "R4":
		return instr.R4, false, 0, true
	case "R5":
		return instr.R5, false, 0, true
	case "R6":
		return instr.R6, false, 0, true
	case "R7":
		return instr.R7, false, 0, true
	case "R8":
		return instr.R8, false, 0, true
	case "R9":
		return instr.R9, false, 0, true
	case "R10":
		return instr.R10, false, 0, true
	case "R11":
		return instr.R11, false, 0, true
	case "R12":
		return instr.R12, false, 0, true
	case "R13", "SP":
		return instr.SP, false, 0, true
	case "R14", "LR":
		return instr.LR, false, 0, true
	case "R15", "PC":
		return instr.PC, false, 0, true
	case "CPSR":
		return 0, true, instr.CPSR, true
	case "SPSR":
		return 0, true, instr.SPSR, true
	default:
		return 0, false, 0, false
	}
}

// Result is what happened running the program: how many steps actually
// ran, whether it halted (SWI #2), and every expectation that didn't hold.
type Result struct {
	StepsRun int
	Halted   bool
	Failures []string
}

// Run assembles nothing itself -- prog and syms come from the assembler
// -- loads the program and executes it under d's cap and initial mode,
// then checks every declared expectation against the final register
// state, reporting failures rather than stopping at the first one (the
// same collect-don't-abort shape as the assembler and parser error lists).
func Run(prog *assembler.Program, d *Directives, defaultWord uint32) (*Result, error) {
	stepCap := d.Steps
	if stepCap <= 0 {
		stepCap = defaultStepCap
	}

	cpu := loader.Load(prog, defaultWord)
	if d.HasMode {
		cpu.Regs.SetMode(d.Mode)
	}

	res := &Result{}
	for res.StepsRun < stepCap {
		if cpu.State == vm.Stopped {
			res.Halted = true
			break
		}
		if err := cpu.Step(); err != nil {
			return nil, fmt.Errorf("step %d: %w", res.StepsRun, err)
		}
		res.StepsRun++
	}
	if cpu.State == vm.Stopped {
		res.Halted = true
	}

	if d.HasHalts && (!res.Halted || res.StepsRun > d.Halts) {
		res.Failures = append(res.Failures, fmt.Sprintf("expected halt within %d steps, got halted=%v after %d steps", d.Halts, res.Halted, res.StepsRun))
	}

	for _, exp := range d.Expectations {
		want, err := resolveExpectedValue(exp.ValueText, prog.Symbols)
		if err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("%s: %s", exp.Name, err))
			continue
		}
		var got uint32
		if exp.IsPSR {
			v, ok := cpu.Regs.GetPSR(exp.PSR)
			if !ok {
				res.Failures = append(res.Failures, fmt.Sprintf("%s: no SPSR banked in mode %s", exp.Name, cpu.Regs.Mode()))
				continue
			}
			got = v
		} else {
			got = cpu.Regs.Get(exp.Reg)
		}
		if got != want {
			res.Failures = append(res.Failures, fmt.Sprintf("%s: expected 0x%08X, got 0x%08X\n%s", exp.Name, want, got, cpu.Regs.String()))
		}
	}

	return res, nil
}

func resolveExpectedValue(text string, syms *assembler.SymbolTable) (uint32, error) {
	if strings.HasPrefix(text, "-") {
		v, err := parser.ParseNumber(text[1:])
		if err != nil {
			return 0, fmt.Errorf("invalid expected value %q: %w", text, err)
		}
		return uint32(-int32(v)), nil
	}
	if v, err := parser.ParseNumber(text); err == nil {
		return v, nil
	}
	if v, ok := syms.Lookup(text); ok {
		return v, nil
	}
	return 0, fmt.Errorf("expected value %q is neither a number nor a known label", text)
}
