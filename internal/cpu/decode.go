package cpu

// decode implements the bitmask opcode-group decoder. Groups are tested
// in the fixed order below; the first match wins. A handful of historic
// bitmask transcriptions (see DESIGN.md) have been corrected here so that
// every documented real opcode reaches a real group; the known illegal
// opcodes decode to the UNUSED no-op group, and no opcode reaches missing.
func (c *CPU) decode(op uint8) *Instruction {
	switch {
	case op == 0x00:
		return iNOP
	case op == 0x08:
		return iLD_a16_SP
	case op&0xC0 == 0x40 && op != 0x76:
		return iLD_r_r
	case op == 0x76:
		return iHALT
	case op&0xCF == 0x01:
		return iLD_rr_nn
	case op&0xE7 == 0x02:
		return iLD_indBC_DE_A
	case op&0xCF == 0x09:
		return iADD_HL_rr
	case op&0xC7 == 0x03:
		return iINC_DEC_rr
	case op&0xC7 == 0x04 || op&0xC7 == 0x0C:
		return iINC_r
	case op&0xC7 == 0x05 || op&0xC7 == 0x0D:
		return iDEC_r
	case op == 0x07:
		return iRLCA
	case op == 0x0F:
		return iRRCA
	case op == 0x17:
		return iRLA
	case op == 0x1F:
		return iRRA
	case op == 0x10:
		return iSTOP
	case op == 0x18 || op&0xE7 == 0x20:
		return iJR
	case op&0xC7 == 0x06 || op&0xC7 == 0x0E:
		return iLD_r_n
	case op == 0x22 || op == 0x2A || op == 0x32 || op == 0x3A:
		return iLDI_LDD
	case op == 0x27:
		return iDAA
	case op == 0x2F:
		return iCPL
	case op == 0x37:
		return iSCF
	case op == 0x3F:
		return iCCF
	case op == 0xCB:
		return iCBPrefix
	case op&0xC0 == 0x80:
		return iALU_A_r
	case op&0xC7 == 0xC6:
		return iALU_A_n
	case op&0xCB == 0xC1:
		return iPUSH_POP
	case op&0xC7 == 0xC7:
		return iRST
	case op&0xE7 == 0xC0 || op&0xE7 == 0xC8:
		return iRET_cond
	case op == 0xC9:
		return iRET
	case op == 0xD9:
		return iRETI
	case op == 0xC3:
		return iJP
	case op&0xE7 == 0xC2:
		return iJP_cond
	case op == 0xCD:
		return iCALL
	case op&0xE7 == 0xC4:
		return iCALL_cond
	case op == 0xE8:
		return iADD_SP_n
	case op == 0xF8:
		return iLD_HL_SP_n
	case op&0xEF == 0xE9:
		return iLD_JP_HL
	case op&0xEF == 0xEA:
		return iLD_a16_A
	case op&0xEF == 0xE0:
		return iLDH_a8_A
	case op&0xEF == 0xE2:
		return iLD_C_A
	case op == 0xF3:
		return iDI
	case op == 0xFB:
		return iEI
	case isUnused(op):
		return iUnused
	default:
		return iMissing
	}
}

var unusedOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true,
	0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true,
	0xF4: true, 0xFC: true, 0xFD: true,
}

func isUnused(op uint8) bool { return unusedOpcodes[op] }

// decodeCB implements the CB-prefix extension table: 256 further opcodes,
// each selecting a bit-operation group and a register/​(HL) operand.
func (c *CPU) decodeCB(op uint8) *Instruction {
	switch {
	case op&0xF8 == 0x00:
		return iCB_RLC
	case op&0xF8 == 0x08:
		return iCB_RRC
	case op&0xF8 == 0x10:
		return iCB_RL
	case op&0xF8 == 0x18:
		return iCB_RR
	case op&0xF8 == 0x20:
		return iCB_SLA
	case op&0xF8 == 0x28:
		return iCB_SRA
	case op&0xF8 == 0x30:
		return iCB_SWAP
	case op&0xF8 == 0x38:
		return iCB_SRL
	case op&0xC0 == 0x40:
		return iCB_BIT
	case op&0xC0 == 0x80:
		return iCB_RES
	case op&0xC0 == 0xC0:
		return iCB_SET
	default:
		return iMissing
	}
}
