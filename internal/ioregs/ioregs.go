// Package ioregs implements the slice of the memory-mapped I/O register
// file that the CPU core talks to directly: the IF/IE interrupt registers
// and the priority-ordered interrupt dispatch the core's interrupt
// controller client depends on. The rest of the I/O dispatcher (timer,
// serial, joypad, PPU/APU register windows) is out of scope for this
// module and lives in whatever embeds it.
package ioregs

// Reg names the handful of registers this file exposes by name, per the
// external-interfaces contract in §6 of the spec.
type Reg uint8

const (
	// REG_IF is the interrupt flag register (which interrupts are pending).
	REG_IF Reg = iota
	// REG_IE is the interrupt enable register (which interrupts are armed).
	REG_IE
)

// Handle identifies one of the five standard interrupt sources, in
// hardware priority order (lowest value serviced first).
type Handle struct {
	Name   string
	Bit    uint8
	Vector uint16
}

// Standard interrupt sources, declared in their fixed priority order:
// VBlank > LCD STAT > Timer > Serial > Joypad.
var (
	VBlank  = Handle{Name: "vblank", Bit: 0x01, Vector: 0x40}
	LCDStat = Handle{Name: "lcd", Bit: 0x02, Vector: 0x48}
	Timer   = Handle{Name: "timer", Bit: 0x04, Vector: 0x50}
	Serial  = Handle{Name: "serial", Bit: 0x08, Vector: 0x58}
	Joypad  = Handle{Name: "joypad", Bit: 0x10, Vector: 0x60}

	// Debug is a non-standard sixth source with no IF bit and no vector.
	// It is not in Ordered and nothing in this module services it; the
	// debug console's `debug` command calls File.DebugCallback instead.
	Debug = Handle{Name: "debug", Bit: 0x00, Vector: 0x0}

	// Ordered lists every standard source, in priority order.
	Ordered = []Handle{VBlank, LCDStat, Timer, Serial, Joypad}
)

// PushAndJump is supplied by the CPU core at wiring time; Interrupt calls
// it to perform the actual stack push + PC redirect, keeping the register
// file from needing to know anything about CPU internals beyond this one
// callback.
type PushAndJump func(vector uint16) int

// File is the IF/IE register pair plus interrupt servicing. It is
// intentionally minimal: no timer, serial, or joypad logic lives here,
// only the bits the CPU core's interrupt client needs to see.
type File struct {
	IF uint8 // REG_IF, low 5 bits meaningful
	IE uint8 // REG_IE

	PushAndJump PushAndJump

	// DebugCallback is invoked by the console's `debug` command; it is
	// optional and has no effect on IF/IE.
	DebugCallback func()
}

// New returns an empty register file. Wire PushAndJump before running the
// CPU, or Interrupt will panic on the first serviced interrupt.
func New() *File {
	return &File{}
}

// ReadIO reads one of the named registers.
func (f *File) ReadIO(reg Reg) uint8 {
	switch reg {
	case REG_IF:
		return f.IF | 0xE0 // upper 3 bits always read high
	case REG_IE:
		return f.IE
	default:
		return 0xFF
	}
}

// Request sets the pending bit for the given interrupt source. Embedders
// (timer, serial, joypad, PPU) call this when their condition fires.
func (f *File) Request(h Handle) {
	f.IF |= h.Bit
}

// InterruptMask returns IF & IE & 0x1F, the raw pending-and-enabled mask
// the CPU's interrupt controller client consults every step.
func (f *File) InterruptMask() uint8 {
	return f.IF & f.IE & 0x1F
}

// Interrupt services the given standard interrupt source: it clears the
// source's IF bit and asks the CPU to push PC and jump to the vector. It
// returns the additional cycles reported by push_and_jump.
func (f *File) Interrupt(h Handle) int {
	f.IF &^= h.Bit
	if f.PushAndJump == nil {
		panic("ioregs: Interrupt called before PushAndJump was wired")
	}
	return f.PushAndJump(h.Vector)
}
