// Package bus defines the memory interface the CPU core talks to, plus a
// flat RAM implementation suitable for standalone use and tests. Real
// cartridge mapping, VRAM banking, and the rest of the memory fabric live
// outside this module.
package bus

import "fmt"

// Memory is the narrow interface the CPU core depends on. Implementations
// may map addresses however they like (cartridge ROM/RAM banking, echo RAM,
// unmapped regions that return 0xFF); the CPU never assumes a flat layout.
type Memory interface {
	Read8(addr uint16) uint8
	Read16(addr uint16) uint16
	Write8(addr uint16, value uint8)
	Write16(addr uint16, value uint16)
}

// Fault is a recoverable memory-access failure. Only the debug harness is
// expected to observe this (via a panic/recover around speculative reads);
// normal CPU execution never triggers one against Flat.
type Fault struct {
	Addr uint16
	Op   string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("bus: %s at 0x%04X failed", f.Op, f.Addr)
}

// Flat is a 64KiB flat RAM bus with no mapping logic. It never faults; it
// exists so the CPU core and its tests can run without a real memory
// fabric. Embedders that need cartridge/IO mapping implement Memory
// themselves.
type Flat struct {
	Data [0x10000]uint8
}

// NewFlat returns a zeroed Flat bus.
func NewFlat() *Flat {
	return &Flat{}
}

func (f *Flat) Read8(addr uint16) uint8 {
	return f.Data[addr]
}

func (f *Flat) Read16(addr uint16) uint16 {
	lo := uint16(f.Data[addr])
	hi := uint16(f.Data[addr+1])
	return lo | hi<<8
}

func (f *Flat) Write8(addr uint16, value uint8) {
	f.Data[addr] = value
}

func (f *Flat) Write16(addr uint16, value uint16) {
	f.Data[addr] = uint8(value)
	f.Data[addr+1] = uint8(value >> 8)
}

// LoadAt copies data into the bus starting at addr, truncating at the end
// of the address space.
func (f *Flat) LoadAt(addr uint16, data []byte) {
	n := copy(f.Data[addr:], data)
	_ = n
}
