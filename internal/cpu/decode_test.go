package cpu

import "testing"

// TestDecodeIsTotal walks every one of the 256 main-table opcodes and every
// one of the 256 CB-prefixed opcodes, asserting decode never returns
// iMissing for any of them. Invariant 5 requires MISSING be reachable only
// for a genuine decoder bug, never for a real, documented opcode value.
func TestDecodeIsTotal(t *testing.T) {
	c, _ := newTestCPU()
	for op := 0; op <= 0xFF; op++ {
		got := c.decode(uint8(op))
		if got == iMissing {
			t.Fatalf("decode(0x%02X) returned MISSING, want a real group or UNUSED", op)
		}
	}
	for op := 0; op <= 0xFF; op++ {
		got := c.decodeCB(uint8(op))
		if got == iMissing {
			t.Fatalf("decodeCB(0x%02X) returned MISSING, want a real group", op)
		}
	}
}

// TestDecodeUnusedOpcodesExactlyMatchDocumented confirms isUnused agrees
// with decode's classification for exactly the eleven documented illegal
// opcodes, and no others.
func TestDecodeUnusedOpcodesExactlyMatchDocumented(t *testing.T) {
	c, _ := newTestCPU()
	want := map[uint8]bool{
		0xD3: true, 0xDB: true, 0xDD: true,
		0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true,
		0xF4: true, 0xFC: true, 0xFD: true,
	}
	for op := 0; op <= 0xFF; op++ {
		got := c.decode(uint8(op)) == iUnused
		if got != want[uint8(op)] {
			t.Fatalf("decode(0x%02X) classified as UNUSED=%v, want %v", op, got, want[uint8(op)])
		}
	}
}

func TestDecodeConditionalCallMatchesExactlyFourOpcodes(t *testing.T) {
	c, _ := newTestCPU()
	want := map[uint8]bool{0xC4: true, 0xCC: true, 0xD4: true, 0xDC: true}
	for op := 0; op <= 0xFF; op++ {
		got := c.decode(uint8(op)) == iCALL_cond
		if got != want[uint8(op)] {
			t.Fatalf("decode(0x%02X) classified as CALL cond=%v, want %v", op, got, want[uint8(op)])
		}
	}
	if c.decode(0xCD) != iCALL {
		t.Fatal("decode(0xCD) should be the unconditional CALL, not CALL cond")
	}
}

func TestDecodeGroupSpotChecks(t *testing.T) {
	cases := []struct {
		op   uint8
		want *Instruction
	}{
		{0x00, iNOP},
		{0x08, iLD_a16_SP},
		{0x01, iLD_rr_nn},
		{0x02, iLD_indBC_DE_A},
		{0x0A, iLD_indBC_DE_A},
		{0x09, iADD_HL_rr},
		{0x03, iINC_DEC_rr},
		{0x0B, iINC_DEC_rr},
		{0x04, iINC_r},
		{0x0C, iINC_r},
		{0x05, iDEC_r},
		{0x0D, iDEC_r},
		{0x07, iRLCA},
		{0x0F, iRRCA},
		{0x17, iRLA},
		{0x1F, iRRA},
		{0x10, iSTOP},
		{0x18, iJR},
		{0x20, iJR},
		{0x28, iJR},
		{0x06, iLD_r_n},
		{0x0E, iLD_r_n},
		{0x22, iLDI_LDD},
		{0x2A, iLDI_LDD},
		{0x32, iLDI_LDD},
		{0x3A, iLDI_LDD},
		{0x27, iDAA},
		{0x2F, iCPL},
		{0x37, iSCF},
		{0x3F, iCCF},
		{0xCB, iCBPrefix},
		{0x80, iALU_A_r},
		{0xBF, iALU_A_r},
		{0xC6, iALU_A_n},
		{0xFE, iALU_A_n},
		{0xC1, iPUSH_POP},
		{0xC5, iPUSH_POP},
		{0xF1, iPUSH_POP},
		{0xF5, iPUSH_POP},
		{0xC7, iRST},
		{0xFF, iRST},
		{0xC0, iRET_cond},
		{0xC8, iRET_cond},
		{0xD0, iRET_cond},
		{0xD8, iRET_cond},
		{0xC9, iRET},
		{0xD9, iRETI},
		{0xC3, iJP},
		{0xC2, iJP_cond},
		{0xCA, iJP_cond},
		{0xD2, iJP_cond},
		{0xDA, iJP_cond},
		{0xCD, iCALL},
		{0xE8, iADD_SP_n},
		{0xF8, iLD_HL_SP_n},
		{0xE9, iLD_JP_HL},
		{0xF9, iLD_JP_HL},
		{0xEA, iLD_a16_A},
		{0xFA, iLD_a16_A},
		{0xE0, iLDH_a8_A},
		{0xF0, iLDH_a8_A},
		{0xE2, iLD_C_A},
		{0xF2, iLD_C_A},
		{0xF3, iDI},
		{0xFB, iEI},
	}
	c, _ := newTestCPU()
	for _, tc := range cases {
		if got := c.decode(tc.op); got != tc.want {
			t.Errorf("decode(0x%02X) = %q, want %q", tc.op, got.Name, tc.want.Name)
		}
	}
}

func TestDecodeCBGroupSpotChecks(t *testing.T) {
	cases := []struct {
		op   uint8
		want *Instruction
	}{
		{0x00, iCB_RLC},
		{0x08, iCB_RRC},
		{0x10, iCB_RL},
		{0x18, iCB_RR},
		{0x20, iCB_SLA},
		{0x28, iCB_SRA},
		{0x30, iCB_SWAP},
		{0x38, iCB_SRL},
		{0x40, iCB_BIT},
		{0x7F, iCB_BIT},
		{0x80, iCB_RES},
		{0xBF, iCB_RES},
		{0xC0, iCB_SET},
		{0xFF, iCB_SET},
	}
	c, _ := newTestCPU()
	for _, tc := range cases {
		if got := c.decodeCB(tc.op); got != tc.want {
			t.Errorf("decodeCB(0x%02X) = %q, want %q", tc.op, got.Name, tc.want.Name)
		}
	}
}
