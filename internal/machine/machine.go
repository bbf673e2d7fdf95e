// Package machine wires a CPU core to a memory bus, I/O register file, and
// GPU collaborator, and drives the fetch-execute loop. It is the narrow
// equivalent of a full emulator's top-level GameBoy type, scoped to what
// this module actually owns.
package machine

import (
	"github.com/kestrelgb/dmgcpu/internal/bus"
	"github.com/kestrelgb/dmgcpu/internal/cpu"
	"github.com/kestrelgb/dmgcpu/internal/ioregs"
	"github.com/kestrelgb/dmgcpu/pkg/log"
)

// Machine is a runnable CPU plus its collaborators.
type Machine struct {
	CPU *cpu.CPU
	Bus bus.Memory
	IO  *ioregs.File

	log.Logger

	gpu     cpu.GPU
	cpuOpts []cpu.Option
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithGPU supplies a non-default GPU collaborator (debug `vblank` target).
func WithGPU(g cpu.GPU) Option {
	return func(m *Machine) { m.gpu = g }
}

// WithCPUOptions forwards functional options to the underlying cpu.New call.
func WithCPUOptions(opts ...cpu.Option) Option {
	return func(m *Machine) { m.cpuOpts = append(m.cpuOpts, opts...) }
}

// New constructs a Machine over the given memory bus, building a fresh
// ioregs.File and cpu.CPU and wiring them together.
func New(m bus.Memory, opts ...Option) *Machine {
	mm := &Machine{Bus: m, IO: ioregs.New(), Logger: log.New()}
	for _, opt := range opts {
		opt(mm)
	}
	mm.CPU = cpu.New(m, mm.IO, mm.gpu, mm.cpuOpts...)
	return mm
}

// Step runs exactly one CPU step.
func (m *Machine) Step() { m.CPU.Simulate() }

// Run steps the CPU until it stops (via the debug console's quit command,
// or a caller-triggered cpu.CPU.Stop()).
func (m *Machine) Run() {
	for m.CPU.Running() {
		m.Step()
	}
}
