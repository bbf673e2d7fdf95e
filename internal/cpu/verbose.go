package cpu

import "fmt"

// logInstruction records the about-to-execute instruction to the trace
// ring, the logger, and any attached remote hub. dispatch calls it only
// when verbose logging is enabled, so the trace ring holds only
// instructions executed in verbose mode.
func (c *CPU) logInstruction(instr *Instruction, opcode uint8) {
	text := instr.Printer(c, opcode)
	c.trace.push(traceLine{PC: c.PC, Op: opcode, Text: text})
	c.logger.Debugf("[%04X] %02X  %s", c.PC, opcode, text)
	if c.remote != nil {
		c.remote.Broadcast([]byte(fmt.Sprintf("%04X %02X %s", c.PC, opcode, text)))
	}
}

// logFlagsIfChanged logs the register dump only when F actually changed
// as a result of the instruction just executed, to keep verbose traces
// from drowning in repeated no-op flag lines.
func (c *CPU) logFlagsIfChanged() {
	f := c.GetF()
	if f != c.lastFlags {
		c.logger.Debugf("  %s", c.Registers.String())
		c.lastFlags = f
	}
}
