package cpu

import "github.com/kestrelgb/dmgcpu/internal/ioregs"

// handleInterrupts is the interrupt controller client's per-step entry
// point (§4.4). It runs after instruction retire (or after the quiescent
// tick while asleep).
func (c *CPU) handleInterrupts() {
	c.tickIMEPending()

	imask := c.io.InterruptMask()
	if c.ime && imask != 0 {
		c.asleep = false

		c.ime = false
		c.imePending = 0

		handle, ok := highestPriority(imask)
		if !ok {
			// defensive: imask != 0 but none of the low 5 bits matched,
			// which cannot happen with correctly masked IF/IE.
			c.breakNow = true
		} else {
			extra := c.io.Interrupt(handle)
			c.incrCycles(extra)
		}
	}

	if !c.asleep && c.haltBugSkip > 0 {
		c.haltBugSkip--
	}
}

// tickIMEPending advances the delayed enable/disable countdown. A
// positive value counts down to an enable, a negative value counts down
// to a disable; reaching zero flips IME exactly once.
func (c *CPU) tickIMEPending() {
	if c.imePending > 0 {
		c.imePending--
		if c.imePending == 0 {
			c.ime = true
		}
	} else if c.imePending < 0 {
		c.imePending++
		if c.imePending == 0 {
			c.ime = false
		}
	}
}

// highestPriority selects the single highest-priority pending interrupt
// from a mask already ANDed with IE, in the fixed order
// VBlank > LCD STAT > Timer > Serial > Joypad.
func highestPriority(mask uint8) (ioregs.Handle, bool) {
	for _, h := range ioregs.Ordered {
		if mask&h.Bit != 0 {
			return h, true
		}
	}
	return ioregs.Handle{}, false
}
