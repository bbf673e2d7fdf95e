package cpu

import (
	"testing"

	"github.com/kestrelgb/dmgcpu/internal/bus"
	"github.com/kestrelgb/dmgcpu/internal/ioregs"
	"github.com/kestrelgb/dmgcpu/pkg/log"
)

func newTestCPU() (*CPU, *bus.Flat) {
	m := bus.NewFlat()
	io := ioregs.New()
	c := New(m, io, nil, WithLogger(log.Discard()))
	return c, m
}

func TestNOPAdvancesPCAndCycles(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x0100
	m.Data[0x0100] = 0x00

	c.Simulate()

	if c.PC != 0x0101 {
		t.Fatalf("PC = 0x%04X, want 0x0101", c.PC)
	}
	if c.CyclesTotal() != 4 {
		t.Fatalf("cycles = %d, want 4", c.CyclesTotal())
	}
}

func TestHaltedStepAdvancesFourCycles(t *testing.T) {
	c, _ := newTestCPU()
	c.Wait()
	before := c.CyclesTotal()
	c.Simulate()
	if c.CyclesTotal()-before != 4 {
		t.Fatalf("halted step advanced %d cycles, want 4", c.CyclesTotal()-before)
	}
	if !c.Halted() {
		t.Fatal("expected CPU to remain halted with no pending interrupt")
	}
}

// EI deferred: EI then NOP; the pending VBlank interrupt fires at the end
// of the step following EI (the NOP step), matching spec scenario 2.
func TestEIDeferredThenInterruptServices(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x0100
	m.Data[0x0100] = 0xFB // EI
	m.Data[0x0101] = 0x00 // NOP
	c.io.IF = 0x01
	c.io.IE = 0x01

	c.Simulate() // executes EI; ime still false after this step
	if c.IME() {
		t.Fatal("IME should still be false immediately after EI retires")
	}

	c.Simulate() // executes NOP; ime becomes true, then VBlank services
	if c.IME() {
		t.Fatal("IME should be false again: the VBlank interrupt just serviced")
	}
	if c.PC != 0x40 {
		t.Fatalf("PC = 0x%04X, want 0x0040 (VBlank vector)", c.PC)
	}
	if c.io.IF&0x01 != 0 {
		t.Fatal("VBlank IF bit should have been cleared by servicing")
	}
	top := m.Read16(c.SP)
	if top != 0x0102 {
		t.Fatalf("pushed return address = 0x%04X, want 0x0102", top)
	}
}

// HALT with a pending interrupt but IME=false arms the halt bug and puts
// the CPU to sleep without servicing the interrupt (spec scenario 3).
func TestHaltBugArmedWithIMEFalse(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x0100
	m.Data[0x0100] = 0x76 // HALT
	c.io.IF = 0x01
	c.io.IE = 0x01

	c.Simulate()

	if !c.Halted() {
		t.Fatal("expected CPU asleep after HALT")
	}
	if c.haltBugSkip != 2 {
		t.Fatalf("haltBugSkip = %d, want 2", c.haltBugSkip)
	}
	if c.IME() {
		t.Fatal("IME should remain false: HALT does not implicitly enable interrupts")
	}
}

// Breakpoint with period=1 at 0x0150 fires its callback exactly once; the
// callback runs in place of the console and disarms the step counter.
func TestBreakpointStepCounter(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x014F
	m.Data[0x014F] = 0x00
	m.Data[0x0150] = 0x00

	hits := 0
	c.SetBreakpoint(0x0150, &Breakpoint{
		Callback:     func(cc *CPU, opcode uint8) { hits++; cc.breakOnSteps(0) },
		BreakOnSteps: 1,
	})

	c.Simulate() // runs the NOP at 0x014F, does not yet hit the breakpoint
	c.Simulate() // PC is now 0x0150: breakpoint fires before this opcode runs

	if hits != 1 {
		t.Fatalf("breakpoint callback ran %d times, want 1", hits)
	}
}

func TestDecoderGroupCheck(t *testing.T) {
	c, _ := newTestCPU()
	if got := c.decode(0x47); got != iLD_r_r {
		t.Fatalf("decode(0x47) = %q, want LD r,r'", got.Name)
	}
	if got := c.decode(0x76); got != iHALT {
		t.Fatalf("decode(0x76) = %q, want HALT", got.Name)
	}
	if got := c.decode(0xD3); got != iUnused {
		t.Fatalf("decode(0xD3) = %q, want UNUSED", got.Name)
	}
}

func TestUnusedOpcodeIsHarmlessNoOp(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x0100
	m.Data[0x0100] = 0xD3

	c.Simulate()

	if c.PC != 0x0101 {
		t.Fatalf("PC = 0x%04X, want 0x0101", c.PC)
	}
	if c.CyclesTotal() != 4 {
		t.Fatalf("cycles = %d, want 4", c.CyclesTotal())
	}
}

func TestIncrCyclesPanicsOnNegative(t *testing.T) {
	c, _ := newTestCPU()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative cycle count")
		}
	}()
	c.incrCycles(-1)
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.SetBC(0xBEEF)
	c.SP = 0xFFFE
	c.PC = 0x0100

	iPUSH_POP.Handler(c, 0xC5) // PUSH BC
	c.SetBC(0x0000)
	iPUSH_POP.Handler(c, 0xC1) // POP BC

	if c.BC() != 0xBEEF {
		t.Fatalf("BC = 0x%04X after PUSH/POP round-trip, want 0xBEEF", c.BC())
	}
	if c.SP != 0xFFFE {
		t.Fatalf("SP = 0x%04X after round-trip, want 0xFFFE", c.SP)
	}
}

func TestEIThenDICollapses(t *testing.T) {
	c, _ := newTestCPU()
	c.EnableInterrupts()
	c.tickIMEPending()
	c.DisableInterrupts()
	c.tickIMEPending()
	c.tickIMEPending()
	if c.IME() {
		t.Fatal("EI immediately followed by DI should leave IME false")
	}
}
