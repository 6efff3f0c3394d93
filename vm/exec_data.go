package vm

import "github.com/go-arm/arm7tdmi/instr"

func (c *CPU) execData(v instr.Data) error {
	pcOffset := uint32(8)
	if !v.Op2.IsConstant && v.Op2.Shift.Amount.IsRegister {
		pcOffset = 12
		if v.Op2.Shift.Amount.Reg == instr.PC {
			return stepErr(PcUsedInShift, c.pc, "PC may not be the shift-amount register")
		}
	}

	op1 := c.readReg(v.Op1, pcOffset)
	carryIn := c.Regs.Flags().C

	var op2 uint32
	var shifterCarry bool
	if v.Op2.IsConstant {
		op2 = v.Op2.Constant.Value()
		shifterCarry = carryIn
		if v.Op2.Constant.HalfRotate != 0 {
			shifterCarry = op2&0x80000000 != 0
		}
	} else {
		amount := shiftRuntimeAmount(v.Op2.Shift, c, pcOffset)
		regVal := c.readReg(v.Op2.Reg, pcOffset)
		op2, shifterCarry = shift(v.Op2.Shift, regVal, amount, carryIn)
	}

	var result uint32
	var flags instr.Flags
	oldFlags := c.Regs.Flags()

	switch v.Op {
	case instr.AND:
		result = op1 & op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.EOR:
		result = op1 ^ op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.SUB:
		result, flags = subWithFlags(op1, op2, true)
	case instr.RSB:
		result, flags = subWithFlags(op2, op1, true)
	case instr.ADD:
		result, flags = addWithFlags(op1, op2, false)
	case instr.ADC:
		result, flags = addWithFlags(op1, op2, carryIn)
	case instr.SBC:
		result, flags = subWithFlags(op1, op2, carryIn)
	case instr.RSC:
		result, flags = subWithFlags(op2, op1, carryIn)
	case instr.TST:
		result = op1 & op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.TEQ:
		result = op1 ^ op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.CMP:
		result, flags = subWithFlags(op1, op2, true)
	case instr.CMN:
		result, flags = addWithFlags(op1, op2, false)
	case instr.ORR:
		result = op1 | op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.MOV:
		result = op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.BIC:
		result = op1 &^ op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	case instr.MVN:
		result = ^op2
		flags = logicalFlags(result, shifterCarry, oldFlags.V)
	}

	writesDest := v.Op.WritesDest()
	setFlags := v.SetFlags || !writesDest
	restoreCPSR := setFlags && writesDest && v.Dest == instr.PC
	var spsr uint32
	if restoreCPSR {
		var ok bool
		if spsr, ok = c.Regs.GetPSR(instr.SPSR); !ok {
			return stepErr(NoSpsr, c.pc, "S-bit write to PC requires an SPSR in the current mode")
		}
	}

	if writesDest {
		if v.Dest == instr.PC {
			c.writePC(result)
		} else {
			c.Regs.Set(v.Dest, result)
		}
	}

	if restoreCPSR {
		c.Regs.SetPSR(instr.CPSR, spsr)
	} else if setFlags {
		c.Regs.SetFlags(flags)
	}

	c.charge(Seq, 1)
	if !v.Op2.IsConstant && v.Op2.Shift.Amount.IsRegister {
		c.charge(Internal, 1)
	}
	if writesDest && v.Dest == instr.PC {
		c.notifyFlush()
	}
	return nil
}

func (c *CPU) execMrs(v instr.Mrs) error {
	value, ok := c.Regs.GetPSR(v.Psr)
	if !ok {
		return stepErr(NoSpsr, c.pc, "MRS from SPSR requires a mode that banks one")
	}
	c.Regs.Set(v.Target, value)
	c.charge(Seq, 1)
	return nil
}

func (c *CPU) execMsr(v instr.Msr) error {
	if v.Psr == instr.SPSR && !c.Regs.Mode().HasSPSR() {
		return stepErr(NoSpsr, c.pc, "MSR to SPSR requires a mode that banks one")
	}

	var value uint32
	switch v.Source.Kind {
	case instr.MsrSourceRegister, instr.MsrSourceRegisterFlags:
		value = c.Regs.Get(v.Source.Reg)
	case instr.MsrSourceFlags:
		value = v.Source.Imm
	}

	flagsOnly := v.Source.Kind != instr.MsrSourceRegister
	if c.Regs.Mode() == instr.ModeUser {
		flagsOnly = true
	}

	cur, _ := c.Regs.GetPSR(v.Psr)
	if flagsOnly {
		cur = (cur &^ 0xF0000000) | (value & 0xF0000000)
	} else {
		cur = value
	}
	c.Regs.SetPSR(v.Psr, cur)
	c.charge(Seq, 1)
	return nil
}

func multiplyCycles(multiplier uint32, base, floor int) int {
	cycles := base
	for shift := 24; shift >= 8; shift -= 8 {
		b := byte(multiplier >> uint(shift))
		if b == 0x00 || b == 0xFF {
			cycles--
		} else {
			break
		}
	}
	if cycles < floor {
		cycles = floor
	}
	return cycles
}

func (c *CPU) execMultiply(v instr.Multiply) error {
	op1 := c.Regs.Get(v.Op1)
	op2 := c.Regs.Get(v.Op2)
	result := op1 * op2
	if v.HasAddend {
		result += c.Regs.Get(v.Addend)
	}
	c.Regs.Set(v.Dest, result)
	if v.SetFlags {
		f := c.Regs.Flags()
		f.N = result&0x80000000 != 0
		f.Z = result == 0
		c.Regs.SetFlags(f)
	}
	cycles := multiplyCycles(op2, 4, 1)
	if v.HasAddend {
		cycles++
	}
	c.charge(Internal, cycles)
	return nil
}

func (c *CPU) execMultiplyLong(v instr.MultiplyLong) error {
	op1 := c.Regs.Get(v.Op1)
	op2 := c.Regs.Get(v.Op2)

	var result uint64
	if v.Signed {
		result = uint64(int64(int32(op1)) * int64(int32(op2)))
	} else {
		result = uint64(op1) * uint64(op2)
	}
	if v.Accumulate {
		acc := uint64(c.Regs.Get(v.DestHi))<<32 | uint64(c.Regs.Get(v.DestLo))
		result += acc
	}
	hi := uint32(result >> 32)
	lo := uint32(result)
	c.Regs.Set(v.DestHi, hi)
	c.Regs.Set(v.DestLo, lo)
	if v.SetFlags {
		f := c.Regs.Flags()
		f.N = hi&0x80000000 != 0
		f.Z = result == 0
		c.Regs.SetFlags(f)
	}
	cycles := multiplyCycles(op2, 5, 2)
	if v.Accumulate {
		cycles++
	}
	c.charge(Internal, cycles)
	return nil
}
