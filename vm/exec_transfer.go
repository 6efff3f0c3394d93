package vm

import "github.com/go-arm/arm7tdmi/instr"

func transferOffsetValue(op instr.TransferOperand, regs *Registers) uint32 {
	if op.IsConstant {
		return uint32(op.Constant)
	}
	val := regs.Get(op.Reg)
	result, _ := shift(op.Shift, val, op.Shift.Amount.Const, regs.Flags().C)
	return result
}

// effectiveAddress computes (effective, addrUsed) for a pre/post-indexed
// transfer: effective is always base +/- offset; addrUsed is effective
// for pre-indexed forms and base for post-indexed ones, which always
// write back regardless of the instruction's write_back bit.
func effectiveAddress(base, offset uint32, positive, preIndex bool) (effective, addrUsed uint32) {
	if positive {
		effective = base + offset
	} else {
		effective = base - offset
	}
	if preIndex {
		addrUsed = effective
	} else {
		addrUsed = base
	}
	return
}

func (c *CPU) execSingleTransfer(v instr.SingleTransfer) error {
	base := c.readReg(v.BaseReg, 8)
	offsetVal := transferOffsetValue(v.Offset, c.Regs)
	effective, addr := effectiveAddress(base, offsetVal, v.OffsetPositive, v.PreIndex)

	switch v.Kind {
	case instr.Load:
		var value uint32
		if v.Size == instr.Byte {
			value = uint32(c.Mem.ReadByte(addr))
		} else {
			value = c.Mem.ReadWord(addr)
		}
		if v.DataReg == instr.PC {
			c.writePC(value)
			c.notifyFlush()
		} else {
			c.Regs.Set(v.DataReg, value)
		}
		c.charge(Seq, 1)
		c.charge(NonSeq, 1)
		c.charge(Internal, 1)
	case instr.Store:
		value := c.readReg(v.DataReg, 8)
		if v.Size == instr.Byte {
			c.Mem.WriteByte(addr, uint8(value))
		} else {
			c.Mem.WriteWord(addr, value)
		}
		c.charge(NonSeq, 2)
	}

	if !v.PreIndex || v.WriteBack {
		c.Regs.Set(v.BaseReg, effective)
	}
	return nil
}

func (c *CPU) execSingleTransferSpecial(v instr.SingleTransferSpecial) error {
	base := c.readReg(v.BaseReg, 8)
	var offsetVal uint32
	if v.Offset.IsConstant {
		offsetVal = uint32(v.Offset.Constant)
	} else {
		offsetVal = c.Regs.Get(v.Offset.Reg)
	}
	effective, addr := effectiveAddress(base, offsetVal, v.OffsetPositive, v.PreIndex)

	switch v.Kind {
	case instr.Load:
		var value uint32
		switch v.Size {
		case instr.HalfWord:
			value = uint32(c.Mem.ReadHalfword(addr))
		case instr.SignedByte:
			value = uint32(int32(int8(c.Mem.ReadByte(addr))))
		case instr.SignedHalfWord:
			value = uint32(int32(int16(c.Mem.ReadHalfword(addr))))
		}
		if v.DataReg == instr.PC {
			c.writePC(value)
			c.notifyFlush()
		} else {
			c.Regs.Set(v.DataReg, value)
		}
		c.charge(Seq, 1)
		c.charge(NonSeq, 1)
		c.charge(Internal, 1)
	case instr.Store:
		if addr%2 != 0 {
			return stepErr(UnalignedTransfer, c.pc, "half-word store requires a 2-aligned address")
		}
		value := c.readReg(v.DataReg, 8)
		c.Mem.WriteHalfword(addr, uint16(value))
		c.charge(NonSeq, 2)
	}

	if !v.PreIndex || v.WriteBack {
		c.Regs.Set(v.BaseReg, effective)
	}
	return nil
}

func popcount16(v uint16) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

func (c *CPU) execBlockTransfer(v instr.BlockTransfer) error {
	base := c.Regs.Get(v.BaseReg)
	count := popcount16(v.Registers)

	var start uint32
	if v.OffsetPositive {
		start = base
		if v.PreIndex {
			start += 4
		}
	} else {
		start = base - 4*uint32(count)
		if !v.PreIndex {
			start += 4
		}
	}

	addr := start
	var last instr.Register
	loadedPC := false
	for r := 0; r < 16; r++ {
		if v.Registers&(1<<uint(r)) == 0 {
			continue
		}
		reg := instr.Register(r)
		last = reg
		switch v.Kind {
		case instr.Load:
			value := c.Mem.ReadWord(addr)
			if reg == instr.PC {
				c.writePC(value)
				loadedPC = true
			} else {
				c.Regs.Set(reg, value)
			}
		case instr.Store:
			c.Mem.WriteWord(addr, c.readReg(reg, 8))
		}
		addr += 4
	}
	_ = last

	if v.WriteBack {
		if v.OffsetPositive {
			c.Regs.Set(v.BaseReg, base+4*uint32(count))
		} else {
			c.Regs.Set(v.BaseReg, base-4*uint32(count))
		}
	}

	if v.Kind == instr.Load && loadedPC {
		if v.PSRAndForceUser {
			if spsr, ok := c.Regs.GetPSR(instr.SPSR); ok {
				c.Regs.SetPSR(instr.CPSR, spsr)
			}
		}
		c.notifyFlush()
	}

	if v.Kind == instr.Load {
		c.charge(Seq, count-1)
		c.charge(NonSeq, 1)
		c.charge(Internal, 1)
	} else {
		c.charge(NonSeq, count)
	}
	return nil
}

func (c *CPU) execSwap(v instr.Swap) error {
	addr := c.Regs.Get(v.Base)
	if v.Byte {
		old := c.Mem.ReadByte(addr)
		c.Mem.WriteByte(addr, uint8(c.Regs.Get(v.Source)))
		c.Regs.Set(v.Dest, uint32(old))
	} else {
		old := c.Mem.ReadWord(addr)
		c.Mem.WriteWord(addr, c.Regs.Get(v.Source))
		c.Regs.Set(v.Dest, old)
	}
	c.charge(Seq, 1)
	c.charge(NonSeq, 2)
	c.charge(Internal, 1)
	return nil
}

func (c *CPU) execSoftwareInterrupt(v instr.SoftwareInterrupt) error {
	switch v.Comment {
	case 2:
		c.State = Stopped
	case 0:
		c.Listener.PutChar(uint8(c.Regs.Get(instr.R0)))
	case 1:
		ch, ok := c.Listener.GetChar()
		if ok {
			c.Regs.Set(instr.R0, uint32(ch))
		}
	default:
		return stepErr(InvalidSwi, c.pc, "unrecognised software interrupt comment")
	}
	c.notifyFlush()
	return nil
}
