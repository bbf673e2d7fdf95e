// Package cpu implements the fetch-decode-execute engine, interrupt
// servicing, power-state machine, and debug harness for a Game Boy
// (DMG / Sharp LR35902) CPU core. The audio unit, graphics unit, memory
// fabric, and cartridge mapping are external collaborators reached only
// through the narrow interfaces in bus.Memory, ioregs.File, and GPU.
package cpu

import (
	"github.com/kestrelgb/dmgcpu/internal/bus"
	"github.com/kestrelgb/dmgcpu/internal/ioregs"
	"github.com/kestrelgb/dmgcpu/pkg/log"
)

// GPU is the debug-only collaborator the console's `vblank` command talks
// to. The real graphics unit is out of scope for this module.
type GPU interface {
	RenderAndVBlank()
}

// NoopGPU satisfies GPU without doing anything, for standalone/demo use.
type NoopGPU struct{}

func (NoopGPU) RenderAndVBlank() {}

// CPU is the processor core. It owns its register file and debug tables
// exclusively; it holds only a non-owning reference to the memory bus, the
// I/O register file, and (for debug purposes) the GPU. It must never be
// re-entered from a handler: Simulate is not reentrant.
type CPU struct {
	Registers

	bus bus.Memory
	io  *ioregs.File
	gpu GPU

	cyclesTotal uint64
	curOpcode   uint8

	running bool
	asleep  bool

	haltBugSkip int

	ime        bool
	imePending int

	lastFlags uint8

	breakpoints           map[uint16]*Breakpoint
	breakPeriod           int
	breakRemain           int
	breakNow              bool
	Verbose               bool
	BreakpointFile        string
	breakpointFingerprint uint64

	logger log.Logger
	trace  *traceRing
	remote *RemoteHub
}

// Option configures a CPU at construction time, following the same
// functional-options pattern the rest of this codebase uses for its
// top-level types.
type Option func(*CPU)

// WithLogger overrides the default stdout logger.
func WithLogger(l log.Logger) Option {
	return func(c *CPU) { c.logger = l }
}

// WithVerbose starts the CPU with per-instruction logging already on.
func WithVerbose(v bool) Option {
	return func(c *CPU) { c.Verbose = v }
}

// New returns a CPU wired to the given memory bus, I/O register file, and
// (optionally nil) GPU. It wires ioregs.File.PushAndJump to this CPU's
// PushAndJump so that serviced interrupts can redirect execution, then
// calls Reset.
func New(m bus.Memory, io *ioregs.File, gpu GPU, opts ...Option) *CPU {
	if gpu == nil {
		gpu = NoopGPU{}
	}
	c := &CPU{
		bus:         m,
		io:          io,
		gpu:         gpu,
		breakpoints: make(map[uint16]*Breakpoint),
		trace:       newTraceRing(512),
		logger:      log.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	io.PushAndJump = c.PushAndJump
	c.Reset()
	return c
}

// bootWithBootstrap is false in this module: no bootstrap ROM loader is in
// scope, so Reset always uses the post-bootstrap register values.
const bootWithBootstrap = false

// Reset restores the documented Game Boy boot register values and clears
// all transient CPU state. It does not touch the breakpoint table.
func (c *CPU) Reset() {
	if bootWithBootstrap {
		c.PC = 0x0000
	} else {
		c.SetAF(0x01B0)
		c.SetBC(0x0013)
		c.SetDE(0x00D8)
		c.SetHL(0x014D)
		c.SP = 0xFFFE
		c.PC = 0x0100
	}
	c.cyclesTotal = 0
	c.curOpcode = 0
	c.running = true
	c.asleep = false
	c.haltBugSkip = 0
	c.ime = false
	c.imePending = 0
	c.lastFlags = c.GetF()
}

// Running reports whether the machine has not been stopped by a debug
// "quit" command.
func (c *CPU) Running() bool { return c.running }

// Halted reports whether the CPU is asleep awaiting an interrupt.
func (c *CPU) Halted() bool { return c.asleep }

// CyclesTotal returns the monotone T-state counter.
func (c *CPU) CyclesTotal() uint64 { return c.cyclesTotal }

// IME reports the current interrupt master enable state.
func (c *CPU) IME() bool { return c.ime }

// Bus exposes the memory bus for debug/console use.
func (c *CPU) Bus() bus.Memory { return c.bus }

// IO exposes the I/O register file for debug/console use.
func (c *CPU) IO() *ioregs.File { return c.io }

// incrCycles advances the T-state counter. count must be non-negative;
// a negative count is an InvariantBreach and panics, since it can only
// arise from a programming error in a handler.
func (c *CPU) incrCycles(count int) {
	if count < 0 {
		panic("cpu: incrCycles called with a negative count")
	}
	c.cyclesTotal += uint64(count)
}

// Simulate runs exactly one step: fetch/decode/execute (or a quiescent
// tick while asleep), then interrupt servicing. It is the one atomic unit
// of CPU execution visible to the surrounding Machine loop.
func (c *CPU) Simulate() {
	if !c.asleep {
		c.curOpcode = c.bus.Read8(c.PC)
		cycles := c.dispatch(c.curOpcode)
		c.incrCycles(cycles)
	} else {
		c.incrCycles(4)
	}
	c.handleInterrupts()
}

// dispatch runs the debug-check / decode / execute subprotocol described
// in §4.2. It returns the number of T-states the instruction consumed (or
// 0 if the console requested an immediate quit).
func (c *CPU) dispatch(opcode uint8) int {
	if c.breakTime() {
		c.breakNow = false
		c.enterConsole(opcode)
		if !c.running {
			return 0
		}
	} else if bp, ok := c.breakpoints[c.PC]; ok {
		c.runBreakpoint(bp, opcode)
		if !c.running {
			return 0
		}
	}

	instr := c.decode(opcode)

	if c.Verbose {
		c.logInstruction(instr, opcode)
	}

	if c.haltBugSkip > 0 {
		c.haltBugSkip--
	} else {
		c.PC++
	}

	ret := instr.Handler(c, opcode)

	if c.Verbose {
		c.logFlagsIfChanged()
	}

	return ret
}

// runBreakpoint fires an installed breakpoint. It first adopts the
// breakpoint's BreakOnSteps as the step period and its VerboseInstr as the
// verbose flag. A breakpoint with a custom Callback then runs it instead
// of opening the console (the embedding use case: observe or mutate state
// and decide programmatically whether to keep running; the callback may
// override the adopted settings). A breakpoint with no Callback falls
// back to the console, matching the `break <addr>` command's default
// pause-and-print behaviour.
func (c *CPU) runBreakpoint(bp *Breakpoint, opcode uint8) {
	c.breakOnSteps(bp.BreakOnSteps)
	c.Verbose = bp.VerboseInstr
	if bp.Callback != nil {
		bp.Callback(c, opcode)
		return
	}
	c.enterConsole(opcode)
}

// readOperand reads the byte at the current PC and advances PC by one. It
// is used by handlers that consume immediate operands after the opcode
// byte itself has already been accounted for by dispatch's PC increment.
func (c *CPU) readOperand() uint8 {
	v := c.bus.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) readOperand16() uint16 {
	v := c.bus.Read16(c.PC)
	c.PC += 2
	return v
}

// ReadHL, WriteHL are the (HL)-indirection accessors shared by most of the
// opcode groups.
func (c *CPU) ReadHL() uint8           { return c.bus.Read8(c.HL()) }
func (c *CPU) WriteHL(value uint8)     { c.bus.Write8(c.HL(), value) }

// PushAndJump implements §4.7: decrement SP by 2, write PC to [SP]
// little-endian, set PC to vector. Returns 8 T-states.
func (c *CPU) PushAndJump(vector uint16) int {
	c.SP -= 2
	c.bus.Write16(c.SP, c.PC)
	c.PC = vector
	return 8
}

// Stop implements the debug "quit" command: the machine is terminal until
// Reset is called again.
func (c *CPU) Stop() {
	c.running = false
}

// Wait puts the CPU to sleep (HALT instruction handler calls this).
func (c *CPU) Wait() {
	c.asleep = true
}

// EnableInterrupts and DisableInterrupts are the EI/DI entry points. Both
// schedule a toggle two steps in the future: the countdown runs once at
// the end of the current step and once more at the end of the next,
// matching "EI/DI take effect after the instruction following them".
func (c *CPU) EnableInterrupts()  { c.imePending = 2 }
func (c *CPU) DisableInterrupts() { c.imePending = -2 }
