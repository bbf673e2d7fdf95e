package cpu

import "testing"

func TestFMasking(t *testing.T) {
	var r Registers
	r.SetF(0xFF)
	if got := r.GetF(); got != 0xF0 {
		t.Fatalf("GetF() = 0x%02X, want 0xF0", got)
	}
}

func TestSetAFMasksLowNibble(t *testing.T) {
	var r Registers
	r.SetAF(0x12FF)
	if got := r.AF(); got != 0x12F0 {
		t.Fatalf("AF() = 0x%04X, want 0x12F0", got)
	}
}

func TestPairRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		set  func(r *Registers, v uint16)
		get  func(r *Registers) uint16
		v    uint16
	}{
		{"BC", (*Registers).SetBC, (*Registers).BC, 0x1234},
		{"DE", (*Registers).SetDE, (*Registers).DE, 0xBEEF},
		{"HL", (*Registers).SetHL, (*Registers).HL, 0xCAFE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var r Registers
			tc.set(&r, tc.v)
			if got := tc.get(&r); got != tc.v {
				t.Fatalf("got 0x%04X, want 0x%04X", got, tc.v)
			}
		})
	}
}

func TestFlagPredicates(t *testing.T) {
	var r Registers
	r.SetFlag(FlagZero, true)
	r.SetFlag(FlagCarry, true)
	if !r.Zero() || !r.Carry() {
		t.Fatal("expected Zero and Carry set")
	}
	if r.Subtract() || r.HalfCarry() {
		t.Fatal("expected Subtract and HalfCarry clear")
	}
	r.SetFlag(FlagZero, false)
	if r.Zero() {
		t.Fatal("expected Zero cleared")
	}
}
