package cpu

import "testing"

func TestBreakOnStepsArmsAndDisarms(t *testing.T) {
	c, _ := newTestCPU()
	c.breakOnSteps(3)
	if c.breakPeriod != 3 || c.breakRemain != 3 {
		t.Fatalf("breakPeriod/Remain = %d/%d, want 3/3", c.breakPeriod, c.breakRemain)
	}
	c.breakOnSteps(0)
	if c.breakPeriod != 0 || c.breakRemain != 0 {
		t.Fatal("breakOnSteps(0) should disarm the step counter")
	}
}

func TestBreakTimeFiresEveryPeriodSteps(t *testing.T) {
	c, _ := newTestCPU()
	c.breakOnSteps(2)

	fires := 0
	for i := 0; i < 6; i++ {
		if c.breakTime() {
			fires++
		}
	}
	if fires != 3 {
		t.Fatalf("breakTime fired %d times over 6 checks with period 2, want 3", fires)
	}
}

func TestBreakNowIsOneShot(t *testing.T) {
	c, _ := newTestCPU()
	c.breakNow = true
	if !c.breakTime() {
		t.Fatal("expected breakTime true when breakNow is set")
	}
	// breakTime itself does not clear breakNow; dispatch does. Confirm the
	// field is still true until dispatch's own reset.
	if !c.breakNow {
		t.Fatal("breakTime must not clear breakNow itself")
	}
}

func TestSetClearBreakpoint(t *testing.T) {
	c, _ := newTestCPU()
	c.SetBreakpoint(0x1234, &Breakpoint{})
	if _, ok := c.Breakpoints()[0x1234]; !ok {
		t.Fatal("expected breakpoint installed at 0x1234")
	}
	c.ClearBreakpoint(0x1234)
	if _, ok := c.Breakpoints()[0x1234]; ok {
		t.Fatal("expected breakpoint cleared")
	}
}
