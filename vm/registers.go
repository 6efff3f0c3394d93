package vm

import "github.com/go-arm/arm7tdmi/instr"

// cpsrNBit etc. are the CPSR bit positions shared by flag and control
// field accessors.
const (
	cpsrNBit = 31
	cpsrZBit = 30
	cpsrCBit = 29
	cpsrVBit = 28
	cpsrIBit = 7
	cpsrFBit = 6
	cpsrTBit = 5
)

// initialCPSR starts the processor in supervisor mode with IRQ and FIQ
// both disabled, matching power-on reset behaviour.
const initialCPSR = uint32(0b10011) | 1<<cpsrIBit | 1<<cpsrFBit

// Registers is the physical bank of 37 register slots (CPSR and the five
// banked SPSRs included), addressed through instr.Register.Physical and
// instr.PSR.Physical so callers never see the banking indirection.
type Registers struct {
	slots [instr.PhysicalRegisterCount]uint32
}

// NewRegisters returns a register bank reset to supervisor mode, IRQ/FIQ
// disabled, all general-purpose registers zero.
func NewRegisters() *Registers {
	r := &Registers{}
	r.slots[instr.PhysCPSR] = initialCPSR
	return r
}

// Mode reads the processor mode encoded in the CPSR's low 5 bits,
// falling back to ModeUser for a reserved bit pattern.
func (r *Registers) Mode() instr.Mode {
	m, ok := instr.ModeFromBits(r.slots[instr.PhysCPSR])
	if !ok {
		return instr.ModeUser
	}
	return m
}

// Get reads the virtual register banked for the current mode. Reading
// R15 returns the raw stored program counter; callers needing the
// PC+8/PC+12 read-side offset apply it themselves.
func (r *Registers) Get(reg instr.Register) uint32 {
	return r.slots[reg.Physical(r.Mode())]
}

// Set writes the virtual register banked for the current mode.
func (r *Registers) Set(reg instr.Register, value uint32) {
	r.slots[reg.Physical(r.Mode())] = value
}

// GetPSR reads CPSR, or the SPSR banked for the current mode. ok is
// false when reading SPSR in User or System mode, where none exists.
func (r *Registers) GetPSR(p instr.PSR) (value uint32, ok bool) {
	phys, ok := p.Physical(r.Mode())
	if !ok {
		return 0, false
	}
	return r.slots[phys], true
}

// SetPSR writes CPSR, or the SPSR banked for the current mode. ok is
// false (no write performed) when writing SPSR in User or System mode.
func (r *Registers) SetPSR(p instr.PSR, value uint32) (ok bool) {
	phys, ok := p.Physical(r.Mode())
	if !ok {
		return false
	}
	r.slots[phys] = value
	return true
}

func bit(word uint32, n uint) bool { return word&(1<<n) != 0 }

func setBit(word uint32, n uint, v bool) uint32 {
	if v {
		return word | 1<<n
	}
	return word &^ (1 << n)
}

// Flags returns the N/Z/C/V condition flags from CPSR.
func (r *Registers) Flags() instr.Flags {
	c := r.slots[instr.PhysCPSR]
	return instr.Flags{
		N: bit(c, cpsrNBit),
		Z: bit(c, cpsrZBit),
		C: bit(c, cpsrCBit),
		V: bit(c, cpsrVBit),
	}
}

// SetFlags writes the N/Z/C/V condition flags into CPSR.
func (r *Registers) SetFlags(f instr.Flags) {
	c := r.slots[instr.PhysCPSR]
	c = setBit(c, cpsrNBit, f.N)
	c = setBit(c, cpsrZBit, f.Z)
	c = setBit(c, cpsrCBit, f.C)
	c = setBit(c, cpsrVBit, f.V)
	r.slots[instr.PhysCPSR] = c
}

// IRQDisabled, FIQDisabled and Thumb read the corresponding CPSR control
// bits. Thumb reports the stored T bit; the interpreter executes ARM
// state regardless of it.
func (r *Registers) IRQDisabled() bool { return bit(r.slots[instr.PhysCPSR], cpsrIBit) }
func (r *Registers) FIQDisabled() bool { return bit(r.slots[instr.PhysCPSR], cpsrFBit) }
func (r *Registers) Thumb() bool       { return bit(r.slots[instr.PhysCPSR], cpsrTBit) }

// SetMode rewrites the CPSR mode field in place, leaving flags and
// control bits untouched. It does not bank register contents: the
// banking is implicit in every subsequent Get/Set via Physical.
func (r *Registers) SetMode(m instr.Mode) {
	c := r.slots[instr.PhysCPSR]
	c = (c &^ 0x1F) | m.Bits()
	r.slots[instr.PhysCPSR] = c
}

// EnterMode switches to m and, if it banks an SPSR, copies the current
// CPSR into it -- the exception-entry convention. The SWI handler does
// not call it; SWIs run without a mode change.
func (r *Registers) EnterMode(m instr.Mode) {
	old := r.slots[instr.PhysCPSR]
	r.SetMode(m)
	if phys, ok := instr.SPSR.Physical(m); ok {
		r.slots[phys] = old
	}
}

// String renders a human-readable register and flag dump: mode, NZCVIFT
// flags, and R0-R15. Used by the harness on assertion failure and by
// the run command's verbose trace.
func (r *Registers) String() string {
	f := r.Flags()
	flagChar := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}
	buf := make([]byte, 0, 256)
	buf = append(buf, "mode="...)
	buf = append(buf, r.Mode().String()...)
	buf = append(buf, " flags="...)
	buf = append(buf, flagChar(f.N, 'N'), flagChar(f.Z, 'Z'), flagChar(f.C, 'C'), flagChar(f.V, 'V'))
	buf = append(buf, flagChar(r.IRQDisabled(), 'I'), flagChar(r.FIQDisabled(), 'F'), flagChar(r.Thumb(), 'T'))
	for i := instr.R0; i <= instr.R15; i++ {
		buf = append(buf, ' ')
		buf = append(buf, i.String()...)
		buf = append(buf, '=')
		buf = appendHex32(buf, r.Get(i))
	}
	return string(buf)
}

func appendHex32(buf []byte, v uint32) []byte {
	const hexDigits = "0123456789abcdef"
	buf = append(buf, "0x"...)
	for shift := 28; shift >= 0; shift -= 4 {
		buf = append(buf, hexDigits[(v>>uint(shift))&0xF])
	}
	return buf
}
