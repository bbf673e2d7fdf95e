package cpu

import "fmt"

// Flag identifies one of the four bits of F that carry meaning; the low
// nibble of F is always zero.
type Flag = uint8

const (
	FlagZero      Flag = 1 << 7
	FlagSubtract  Flag = 1 << 6
	FlagHalfCarry Flag = 1 << 5
	FlagCarry     Flag = 1 << 4
)

// Registers is the canonical processor state: six 16-bit fields with
// addressable 8-bit halves. F's low nibble is always masked to zero on
// both read and write.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16
}

// AF, BC, DE, HL return the 16-bit view of a register pair.
func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// SetAF, SetBC, SetDE, SetHL write the 16-bit view of a register pair.
// SetAF masks the low nibble of F to zero, per the invariant in §4.1.
func (r *Registers) SetAF(v uint16) {
	r.A = uint8(v >> 8)
	r.F = uint8(v) & 0xF0
}
func (r *Registers) SetBC(v uint16) { r.B = uint8(v >> 8); r.C = uint8(v) }
func (r *Registers) SetDE(v uint16) { r.D = uint8(v >> 8); r.E = uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H = uint8(v >> 8); r.L = uint8(v) }

// GetF reads F with its low nibble masked to zero.
func (r *Registers) GetF() uint8 { return r.F & 0xF0 }

// SetF writes F, masking the low nibble to zero.
func (r *Registers) SetF(v uint8) { r.F = v & 0xF0 }

// Zero, Subtract, HalfCarry, Carry are the flag predicate readers.
func (r *Registers) Zero() bool      { return r.F&FlagZero != 0 }
func (r *Registers) Subtract() bool  { return r.F&FlagSubtract != 0 }
func (r *Registers) HalfCarry() bool { return r.F&FlagHalfCarry != 0 }
func (r *Registers) Carry() bool     { return r.F&FlagCarry != 0 }

// SetFlag assigns a single flag bit to the given value, leaving the others
// untouched (and the low nibble of F masked to zero).
func (r *Registers) SetFlag(flag Flag, on bool) {
	if on {
		r.F |= flag
	} else {
		r.F &^= flag
	}
	r.F &= 0xF0
}

// String renders a single-line register dump for debugging.
func (r *Registers) String() string {
	return fmt.Sprintf(
		"AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X [%s]",
		r.AF(), r.BC(), r.DE(), r.HL(), r.SP, r.PC, flagString(r.GetF()),
	)
}

func flagString(f uint8) string {
	b := [4]byte{'-', '-', '-', '-'}
	if f&FlagZero != 0 {
		b[0] = 'Z'
	}
	if f&FlagSubtract != 0 {
		b[1] = 'N'
	}
	if f&FlagHalfCarry != 0 {
		b[2] = 'H'
	}
	if f&FlagCarry != 0 {
		b[3] = 'C'
	}
	return string(b[:])
}

// registerIndex maps the 3-bit register-select field embedded in many
// opcodes to a pointer at the corresponding 8-bit register. Index 6 is not
// a register — it selects (HL) indirection and must be special-cased by
// the caller.
func (c *CPU) registerIndex(idx uint8) *uint8 {
	switch idx & 0x7 {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("cpu: registerIndex(%d) has no direct register (use (HL))", idx))
}

// registerPairIndex maps the 2-bit register-pair-select field (bits 4-5 of
// many opcodes) to a getter/setter pair for BC/DE/HL/SP.
func (c *CPU) registerPairIndex(idx uint8) (get func() uint16, set func(uint16)) {
	switch idx & 0x3 {
	case 0:
		return c.BC, c.SetBC
	case 1:
		return c.DE, c.SetDE
	case 2:
		return c.HL, c.SetHL
	default:
		return func() uint16 { return c.SP }, func(v uint16) { c.SP = v }
	}
}

// registerPairIndexSTK is the PUSH/POP variant of registerPairIndex, which
// uses AF in place of SP for index 3.
func (c *CPU) registerPairIndexSTK(idx uint8) (get func() uint16, set func(uint16)) {
	switch idx & 0x3 {
	case 0:
		return c.BC, c.SetBC
	case 1:
		return c.DE, c.SetDE
	case 2:
		return c.HL, c.SetHL
	default:
		return c.AF, c.SetAF
	}
}
