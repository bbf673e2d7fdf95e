package cpu

// Each var below is a process-wide Instruction descriptor for one opcode
// group. Handlers receive the already-fetched opcode (PC has already been
// advanced past it, modulo the halt-bug skip) and return the T-states the
// group consumes, including the implicit 4-cycle fetch.

var iNOP = &Instruction{
	Name:    "NOP",
	Handler: func(c *CPU, op uint8) int { return 4 },
	Printer: defaultPrinter("NOP"),
}

var iLD_a16_SP = &Instruction{
	Name: "LD (a16),SP",
	Handler: func(c *CPU, op uint8) int {
		addr := c.readOperand16()
		c.bus.Write16(addr, c.SP)
		return 20
	},
	Printer: defaultPrinter("LD (a16),SP"),
}

// operand8Get resolves the 3-bit register-select field to a readable value,
// special-casing index 6 as (HL).
func (c *CPU) operand8Get(idx uint8) uint8 {
	if idx&0x7 == 6 {
		return c.ReadHL()
	}
	return *c.registerIndex(idx)
}

func (c *CPU) operand8Set(idx uint8, v uint8) {
	if idx&0x7 == 6 {
		c.WriteHL(v)
		return
	}
	*c.registerIndex(idx) = v
}

var iLD_r_r = &Instruction{
	Name: "LD r,r'",
	Handler: func(c *CPU, op uint8) int {
		dst := (op >> 3) & 0x7
		src := op & 0x7
		v := c.operand8Get(src)
		c.operand8Set(dst, v)
		if dst == 6 || src == 6 {
			return 8
		}
		return 4
	},
	Printer: defaultPrinter("LD r,r'"),
}

var iHALT = &Instruction{
	Name: "HALT",
	Handler: func(c *CPU, op uint8) int {
		c.applyHaltBug()
		c.Wait()
		return 4
	},
	Printer: defaultPrinter("HALT"),
}

var iLD_rr_nn = &Instruction{
	Name: "LD rr,nn",
	Handler: func(c *CPU, op uint8) int {
		_, set := c.registerPairIndex((op >> 4) & 0x3)
		set(c.readOperand16())
		return 12
	},
	Printer: defaultPrinter("LD rr,nn"),
}

var iLD_indBC_DE_A = &Instruction{
	Name: "LD (BC/DE),A / LD A,(BC/DE)",
	Handler: func(c *CPU, op uint8) int {
		var addr uint16
		switch op & 0x30 {
		case 0x00:
			addr = c.BC()
		default:
			addr = c.DE()
		}
		if op&0x08 == 0 {
			c.bus.Write8(addr, c.A)
		} else {
			c.A = c.bus.Read8(addr)
		}
		return 8
	},
	Printer: defaultPrinter("LD (rr),A"),
}

var iADD_HL_rr = &Instruction{
	Name: "ADD HL,rr",
	Handler: func(c *CPU, op uint8) int {
		get, _ := c.registerPairIndex((op >> 4) & 0x3)
		c.SetHL(c.add16(c.HL(), get()))
		return 8
	},
	Printer: defaultPrinter("ADD HL,rr"),
}

var iINC_DEC_rr = &Instruction{
	Name: "INC/DEC rr",
	Handler: func(c *CPU, op uint8) int {
		get, set := c.registerPairIndex((op >> 4) & 0x3)
		if op&0x08 == 0 {
			set(get() + 1)
		} else {
			set(get() - 1)
		}
		return 8
	},
	Printer: defaultPrinter("INC/DEC rr"),
}

var iINC_r = &Instruction{
	Name: "INC r",
	Handler: func(c *CPU, op uint8) int {
		idx := (op >> 3) & 0x7
		v := c.operand8Get(idx)
		c.operand8Set(idx, c.inc8(v))
		if idx == 6 {
			return 12
		}
		return 4
	},
	Printer: defaultPrinter("INC r"),
}

var iDEC_r = &Instruction{
	Name: "DEC r",
	Handler: func(c *CPU, op uint8) int {
		idx := (op >> 3) & 0x7
		v := c.operand8Get(idx)
		c.operand8Set(idx, c.dec8(v))
		if idx == 6 {
			return 12
		}
		return 4
	},
	Printer: defaultPrinter("DEC r"),
}

var iRLCA = &Instruction{
	Name: "RLCA",
	Handler: func(c *CPU, op uint8) int {
		c.A = c.rlc(c.A)
		c.SetFlag(FlagZero, false)
		return 4
	},
	Printer: defaultPrinter("RLCA"),
}

var iRRCA = &Instruction{
	Name: "RRCA",
	Handler: func(c *CPU, op uint8) int {
		c.A = c.rrc(c.A)
		c.SetFlag(FlagZero, false)
		return 4
	},
	Printer: defaultPrinter("RRCA"),
}

var iRLA = &Instruction{
	Name: "RLA",
	Handler: func(c *CPU, op uint8) int {
		c.A = c.rl(c.A)
		c.SetFlag(FlagZero, false)
		return 4
	},
	Printer: defaultPrinter("RLA"),
}

var iRRA = &Instruction{
	Name: "RRA",
	Handler: func(c *CPU, op uint8) int {
		c.A = c.rr(c.A)
		c.SetFlag(FlagZero, false)
		return 4
	},
	Printer: defaultPrinter("RRA"),
}

// iSTOP treats STOP as a quiescent sleep, same as HALT without the halt
// bug. Full STOP semantics (speed-switch handshake, button wake) are out
// of scope.
var iSTOP = &Instruction{
	Name: "STOP",
	Handler: func(c *CPU, op uint8) int {
		c.Wait()
		return 4
	},
	Printer: defaultPrinter("STOP"),
}

var iJR = &Instruction{
	Name: "JR",
	Handler: func(c *CPU, op uint8) int {
		n := int8(c.readOperand())
		if op == 0x18 || c.condTrue((op>>3)&0x3) {
			c.PC = uint16(int32(c.PC) + int32(n))
			return 12
		}
		return 8
	},
	Printer: defaultPrinter("JR"),
}

// condTrue reads the 2-bit condition-code field shared by JR/JP/CALL/RET
// conditionals: 0=NZ,1=Z,2=NC,3=C.
func (c *CPU) condTrue(cc uint8) bool {
	switch cc & 0x3 {
	case 0:
		return !c.Zero()
	case 1:
		return c.Zero()
	case 2:
		return !c.Carry()
	default:
		return c.Carry()
	}
}

var iLD_r_n = &Instruction{
	Name: "LD r,n",
	Handler: func(c *CPU, op uint8) int {
		idx := (op >> 3) & 0x7
		n := c.readOperand()
		c.operand8Set(idx, n)
		if idx == 6 {
			return 12
		}
		return 8
	},
	Printer: defaultPrinter("LD r,n"),
}

var iLDI_LDD = &Instruction{
	Name: "LDI/LDD",
	Handler: func(c *CPU, op uint8) int {
		hl := c.HL()
		switch op {
		case 0x22:
			c.bus.Write8(hl, c.A)
			c.SetHL(hl + 1)
		case 0x2A:
			c.A = c.bus.Read8(hl)
			c.SetHL(hl + 1)
		case 0x32:
			c.bus.Write8(hl, c.A)
			c.SetHL(hl - 1)
		case 0x3A:
			c.A = c.bus.Read8(hl)
			c.SetHL(hl - 1)
		}
		return 8
	},
	Printer: defaultPrinter("LDI/LDD"),
}

var iDAA = &Instruction{
	Name:    "DAA",
	Handler: func(c *CPU, op uint8) int { c.daa(); return 4 },
	Printer: defaultPrinter("DAA"),
}

var iCPL = &Instruction{
	Name: "CPL",
	Handler: func(c *CPU, op uint8) int {
		c.A = ^c.A
		c.SetFlag(FlagSubtract, true)
		c.SetFlag(FlagHalfCarry, true)
		return 4
	},
	Printer: defaultPrinter("CPL"),
}

var iSCF = &Instruction{
	Name: "SCF",
	Handler: func(c *CPU, op uint8) int {
		c.SetFlag(FlagSubtract, false)
		c.SetFlag(FlagHalfCarry, false)
		c.SetFlag(FlagCarry, true)
		return 4
	},
	Printer: defaultPrinter("SCF"),
}

var iCCF = &Instruction{
	Name: "CCF",
	Handler: func(c *CPU, op uint8) int {
		c.SetFlag(FlagSubtract, false)
		c.SetFlag(FlagHalfCarry, false)
		c.SetFlag(FlagCarry, !c.Carry())
		return 4
	},
	Printer: defaultPrinter("CCF"),
}

var iCBPrefix = &Instruction{
	Name: "CB prefix",
	Handler: func(c *CPU, op uint8) int {
		cb := c.readOperand()
		instr := c.decodeCB(cb)
		return instr.Handler(c, cb)
	},
	Printer: defaultPrinter("CB"),
}

var aluOps = [8]func(c *CPU, v uint8){
	(*CPU).add8,
	(*CPU).adc8,
	(*CPU).sub8,
	(*CPU).sbc8,
	(*CPU).and8,
	(*CPU).xor8,
	(*CPU).or8,
	(*CPU).cp8,
}

var iALU_A_r = &Instruction{
	Name: "ALU A,r",
	Handler: func(c *CPU, op uint8) int {
		idx := (op >> 3) & 0x7
		src := op & 0x7
		v := c.operand8Get(src)
		aluOps[idx](c, v)
		if src == 6 {
			return 8
		}
		return 4
	},
	Printer: defaultPrinter("ALU A,r"),
}

var iALU_A_n = &Instruction{
	Name: "ALU A,n",
	Handler: func(c *CPU, op uint8) int {
		idx := (op >> 3) & 0x7
		n := c.readOperand()
		aluOps[idx](c, n)
		return 8
	},
	Printer: defaultPrinter("ALU A,n"),
}

var iPUSH_POP = &Instruction{
	Name: "PUSH/POP",
	Handler: func(c *CPU, op uint8) int {
		get, set := c.registerPairIndexSTK((op >> 4) & 0x3)
		if op&0x0F == 0x05 {
			c.SP -= 2
			c.bus.Write16(c.SP, get())
			return 16
		}
		set(c.bus.Read16(c.SP))
		c.SP += 2
		return 12
	},
	Printer: defaultPrinter("PUSH/POP"),
}

var iRST = &Instruction{
	Name: "RST",
	Handler: func(c *CPU, op uint8) int {
		vector := uint16(op & 0x38)
		c.SP -= 2
		c.bus.Write16(c.SP, c.PC)
		c.PC = vector
		return 16
	},
	Printer: defaultPrinter("RST"),
}

var iRET_cond = &Instruction{
	Name: "RET cond",
	Handler: func(c *CPU, op uint8) int {
		if c.condTrue((op >> 3) & 0x3) {
			c.PC = c.bus.Read16(c.SP)
			c.SP += 2
			return 20
		}
		return 8
	},
	Printer: defaultPrinter("RET cond"),
}

var iRET = &Instruction{
	Name: "RET",
	Handler: func(c *CPU, op uint8) int {
		c.PC = c.bus.Read16(c.SP)
		c.SP += 2
		return 16
	},
	Printer: defaultPrinter("RET"),
}

var iRETI = &Instruction{
	Name: "RETI",
	Handler: func(c *CPU, op uint8) int {
		c.PC = c.bus.Read16(c.SP)
		c.SP += 2
		c.ime = true
		c.imePending = 0
		return 16
	},
	Printer: defaultPrinter("RETI"),
}

var iJP = &Instruction{
	Name: "JP",
	Handler: func(c *CPU, op uint8) int {
		c.PC = c.readOperand16()
		return 16
	},
	Printer: defaultPrinter("JP"),
}

var iJP_cond = &Instruction{
	Name: "JP cond",
	Handler: func(c *CPU, op uint8) int {
		addr := c.readOperand16()
		if c.condTrue((op >> 3) & 0x3) {
			c.PC = addr
			return 16
		}
		return 12
	},
	Printer: defaultPrinter("JP cond"),
}

var iCALL = &Instruction{
	Name: "CALL",
	Handler: func(c *CPU, op uint8) int {
		addr := c.readOperand16()
		c.SP -= 2
		c.bus.Write16(c.SP, c.PC)
		c.PC = addr
		return 24
	},
	Printer: defaultPrinter("CALL"),
}

var iCALL_cond = &Instruction{
	Name: "CALL cond",
	Handler: func(c *CPU, op uint8) int {
		addr := c.readOperand16()
		if c.condTrue((op >> 3) & 0x3) {
			c.SP -= 2
			c.bus.Write16(c.SP, c.PC)
			c.PC = addr
			return 24
		}
		return 12
	},
	Printer: defaultPrinter("CALL cond"),
}

var iADD_SP_n = &Instruction{
	Name: "ADD SP,n",
	Handler: func(c *CPU, op uint8) int {
		c.SP = c.addSPSigned()
		return 16
	},
	Printer: defaultPrinter("ADD SP,n"),
}

var iLD_HL_SP_n = &Instruction{
	Name: "LD HL,SP+n",
	Handler: func(c *CPU, op uint8) int {
		c.SetHL(c.addSPSigned())
		return 12
	},
	Printer: defaultPrinter("LD HL,SP+n"),
}

// iLD_JP_HL is the combined handler for the (op & 0xEF) == 0xE9 group:
// bit4 clear (0xE9) is JP (HL); bit4 set (0xF9) is LD SP,HL.
var iLD_JP_HL = &Instruction{
	Name: "JP (HL) / LD SP,HL",
	Handler: func(c *CPU, op uint8) int {
		if op&0x10 == 0 {
			c.PC = c.HL()
			return 4
		}
		c.SP = c.HL()
		return 8
	},
	Printer: defaultPrinter("JP (HL) / LD SP,HL"),
}

var iLD_a16_A = &Instruction{
	Name: "LD (a16),A / LD A,(a16)",
	Handler: func(c *CPU, op uint8) int {
		addr := c.readOperand16()
		if op&0x10 == 0 {
			c.bus.Write8(addr, c.A)
		} else {
			c.A = c.bus.Read8(addr)
		}
		return 16
	},
	Printer: defaultPrinter("LD (a16),A"),
}

var iLDH_a8_A = &Instruction{
	Name: "LDH (a8),A / LDH A,(a8)",
	Handler: func(c *CPU, op uint8) int {
		n := c.readOperand()
		addr := 0xFF00 + uint16(n)
		if op&0x10 == 0 {
			c.bus.Write8(addr, c.A)
		} else {
			c.A = c.bus.Read8(addr)
		}
		return 12
	},
	Printer: defaultPrinter("LDH (a8),A"),
}

var iLD_C_A = &Instruction{
	Name: "LD (C),A / LD A,(C)",
	Handler: func(c *CPU, op uint8) int {
		addr := 0xFF00 + uint16(c.C)
		if op&0x10 == 0 {
			c.bus.Write8(addr, c.A)
		} else {
			c.A = c.bus.Read8(addr)
		}
		return 8
	},
	Printer: defaultPrinter("LD (C),A"),
}

var iDI = &Instruction{
	Name:    "DI",
	Handler: func(c *CPU, op uint8) int { c.DisableInterrupts(); return 4 },
	Printer: defaultPrinter("DI"),
}

var iEI = &Instruction{
	Name:    "EI",
	Handler: func(c *CPU, op uint8) int { c.EnableInterrupts(); return 4 },
	Printer: defaultPrinter("EI"),
}

// iUnused handles the eleven documented illegal opcodes (0xD3, 0xDB, 0xDD,
// 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD): on real hardware these
// encodings lock the CPU, but test ROMs are documented to never execute
// them, so this module treats them as a harmless no-op rather than
// raising DecodeMissing.
var iUnused = &Instruction{
	Name:    "UNUSED",
	Handler: func(c *CPU, op uint8) int { return 4 },
	Printer: defaultPrinter("UNUSED"),
}

// iMissing is the DecodeMissing fatal path from §7: reachable only when
// decode itself has a gap (a programming error in this module), never for
// a genuinely encoded Game Boy opcode.
var iMissing = &Instruction{
	Name: "MISSING",
	Handler: func(c *CPU, op uint8) int {
		panic(MissingOpcodeError{Opcode: op, PC: c.PC})
	},
	Printer: defaultPrinter("MISSING"),
}

// MissingOpcodeError is the panic value iMissing raises. Surrounding code
// (a Machine loop, or the debug console) may recover it to print a
// diagnostic instead of crashing the whole process.
type MissingOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e MissingOpcodeError) Error() string {
	return "cpu: no instruction defined for opcode"
}

// applyHaltBug implements §4.5: if IME is false and an interrupt is
// already pending at the moment HALT executes, the byte after HALT is
// fetched but PC is not advanced past it, so it executes twice.
func (c *CPU) applyHaltBug() {
	if !c.ime && c.io.InterruptMask() != 0 {
		c.haltBugSkip = 2
	}
}

// CB-prefixed group handlers.

func cbShiftRotate(name string, op func(c *CPU, v uint8) uint8) *Instruction {
	return &Instruction{
		Name: name,
		Handler: func(c *CPU, cb uint8) int {
			idx := cb & 0x7
			v := c.operand8Get(idx)
			c.operand8Set(idx, op(c, v))
			if idx == 6 {
				return 16
			}
			return 8
		},
		Printer: defaultPrinter(name),
	}
}

var iCB_RLC = cbShiftRotate("RLC", (*CPU).rlc)
var iCB_RRC = cbShiftRotate("RRC", (*CPU).rrc)
var iCB_RL = cbShiftRotate("RL", (*CPU).rl)
var iCB_RR = cbShiftRotate("RR", (*CPU).rr)
var iCB_SLA = cbShiftRotate("SLA", (*CPU).sla)
var iCB_SRA = cbShiftRotate("SRA", (*CPU).sra)
var iCB_SWAP = cbShiftRotate("SWAP", (*CPU).swap)
var iCB_SRL = cbShiftRotate("SRL", (*CPU).srl)

var iCB_BIT = &Instruction{
	Name: "BIT",
	Handler: func(c *CPU, cb uint8) int {
		n := (cb >> 3) & 0x7
		idx := cb & 0x7
		v := c.operand8Get(idx)
		c.bitTest(n, v)
		if idx == 6 {
			return 12
		}
		return 8
	},
	Printer: defaultPrinter("BIT"),
}

var iCB_RES = &Instruction{
	Name: "RES",
	Handler: func(c *CPU, cb uint8) int {
		n := (cb >> 3) & 0x7
		idx := cb & 0x7
		v := c.operand8Get(idx)
		c.operand8Set(idx, resBit(n, v))
		if idx == 6 {
			return 16
		}
		return 8
	},
	Printer: defaultPrinter("RES"),
}

var iCB_SET = &Instruction{
	Name: "SET",
	Handler: func(c *CPU, cb uint8) int {
		n := (cb >> 3) & 0x7
		idx := cb & 0x7
		v := c.operand8Get(idx)
		c.operand8Set(idx, setBit(n, v))
		if idx == 6 {
			return 16
		}
		return 8
	},
	Printer: defaultPrinter("SET"),
}
