package cpu

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchBreakpointsReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breakpoints.yaml")
	if err := os.WriteFile(path, []byte("breakpoints: []\n"), 0o644); err != nil {
		t.Fatalf("seeding breakpoint file: %v", err)
	}

	c, _ := newTestCPU()
	if err := c.LoadBreakpoints(path); err != nil {
		t.Fatalf("initial LoadBreakpoints: %v", err)
	}

	stop, err := c.WatchBreakpoints(path)
	if err != nil {
		t.Fatalf("WatchBreakpoints: %v", err)
	}
	defer stop()

	if err := os.WriteFile(path, []byte("breakpoints:\n  - pc: \"0x0150\"\n"), 0o644); err != nil {
		t.Fatalf("rewriting breakpoint file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := c.Breakpoints()[0x0150]; ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("breakpoint at 0x0150 was never picked up by the watcher")
}

func TestWatchBreakpointsStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breakpoints.yaml")
	if err := os.WriteFile(path, []byte("breakpoints: []\n"), 0o644); err != nil {
		t.Fatalf("seeding breakpoint file: %v", err)
	}

	c, _ := newTestCPU()
	stop, err := c.WatchBreakpoints(path)
	if err != nil {
		t.Fatalf("WatchBreakpoints: %v", err)
	}

	stop()
	stop() // must not panic on a second call
}

func TestReloadIfChangedSkipsUnchangedFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breakpoints.yaml")
	contents := "breakpoints:\n  - pc: \"0x0100\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("seeding breakpoint file: %v", err)
	}

	c, _ := newTestCPU()
	if err := c.LoadBreakpoints(path); err != nil {
		t.Fatalf("LoadBreakpoints: %v", err)
	}
	c.ClearAllBreakpoints() // mutate in-memory state without touching the file

	c.reloadIfChanged(path)

	if _, ok := c.Breakpoints()[0x0100]; ok {
		t.Fatal("reloadIfChanged should have skipped an unchanged file, not reinstalled the breakpoint")
	}
}
