package vm

import (
	"github.com/go-arm/arm7tdmi/encoder"
	"github.com/go-arm/arm7tdmi/instr"
)

// ProcessorState is Running until a SWI #2 halts execution.
type ProcessorState int

const (
	Running ProcessorState = iota
	Stopped
)

func (s ProcessorState) String() string {
	if s == Stopped {
		return "Stopped"
	}
	return "Running"
}

// CPU is the fetch/decode/execute loop over a register bank and a paged
// memory. A failed Step leaves all processor state -- registers, memory
// and cycle counters -- unchanged; the caller decides whether to retry.
type CPU struct {
	Regs     *Registers
	Mem      *Memory
	State    ProcessorState
	Listener Listener

	pc uint32 // address of the instruction currently dispatching
}

// NewCPU returns a CPU reset to the initial register state with a fresh
// memory image and no-op listener.
func NewCPU(mem *Memory) *CPU {
	return &CPU{Regs: NewRegisters(), Mem: mem, State: Running, Listener: NopListener{}}
}

func (c *CPU) charge(kind CycleKind, n int) {
	if n <= 0 {
		return
	}
	c.Listener.OnCycles(kind, n)
}

func (c *CPU) notifyFlush() {
	c.charge(NonSeq, 1)
	c.charge(Seq, 1)
	c.Listener.OnPipelineFlush()
}

// writePC stores target into R15, pre-decremented by 4 to compensate
// the unconditional +4 the Step driver applies once dispatch returns.
func (c *CPU) writePC(target uint32) {
	c.Regs.Set(instr.PC, target-4)
}

// readReg reads a register for use as a data-processing or transfer
// operand. Reading R15 returns c.pc+pcOffset (8 for immediate-shift
// operands and base/data registers, 12 for register-specified-shift
// operands) instead of the raw stored program counter.
func (c *CPU) readReg(reg instr.Register, pcOffset uint32) uint32 {
	if reg == instr.PC {
		return c.pc + pcOffset
	}
	return c.Regs.Get(reg)
}

func shiftRuntimeAmount(sh instr.Shift, c *CPU, pcOffset uint32) uint8 {
	if sh.Amount.IsRegister {
		return uint8(c.readReg(sh.Amount.Reg, pcOffset) & 0xFF)
	}
	return sh.Amount.Const
}

// Step fetches, decodes and executes one instruction, advancing PC by
// four unless the instruction itself redirected control flow (in which
// case the redirection already accounted for the auto-increment).
func (c *CPU) Step() error {
	pc := c.Regs.Get(instr.PC)
	if pc%4 != 0 {
		return stepErr(UnalignedPc, pc, "program counter is not word-aligned")
	}
	word := c.Mem.ReadWord(pc)
	cond, in, ok := encoder.Decode(word)
	if !ok {
		return stepErr(UnrecognisedInstruction, pc, "word does not decode to a known instruction")
	}

	c.pc = pc

	if !cond.Test(c.Regs.Flags()) {
		c.charge(Seq, 1)
		c.Regs.Set(instr.PC, pc+4)
		return nil
	}

	if err := c.dispatch(in); err != nil {
		return err
	}
	c.Regs.Set(instr.PC, c.Regs.Get(instr.PC)+4)
	return nil
}

func (c *CPU) dispatch(in instr.Instr) error {
	switch v := in.(type) {
	case instr.BranchExchange:
		return c.execBranchExchange(v)
	case instr.Branch:
		return c.execBranch(v)
	case instr.Data:
		return c.execData(v)
	case instr.Mrs:
		return c.execMrs(v)
	case instr.Msr:
		return c.execMsr(v)
	case instr.Multiply:
		return c.execMultiply(v)
	case instr.MultiplyLong:
		return c.execMultiplyLong(v)
	case instr.SingleTransfer:
		return c.execSingleTransfer(v)
	case instr.SingleTransferSpecial:
		return c.execSingleTransferSpecial(v)
	case instr.BlockTransfer:
		return c.execBlockTransfer(v)
	case instr.Swap:
		return c.execSwap(v)
	case instr.SoftwareInterrupt:
		return c.execSoftwareInterrupt(v)
	default:
		return stepErr(UnrecognisedInstruction, c.pc, "decoded instruction has no execution handler")
	}
}

func (c *CPU) execBranchExchange(v instr.BranchExchange) error {
	c.charge(Seq, 1)
	if v.Reg == instr.PC {
		// Undefined by the data sheet; this model treats it as a no-op.
		return nil
	}
	target := c.Regs.Get(v.Reg) &^ 1
	c.writePC(target)
	c.notifyFlush()
	return nil
}

func (c *CPU) execBranch(v instr.Branch) error {
	c.charge(Seq, 1)
	if v.Link {
		c.Regs.Set(instr.R14, c.pc+4)
	}
	target := uint32(int64(c.pc) + 8 + int64(v.Offset))
	c.writePC(target)
	c.notifyFlush()
	return nil
}
