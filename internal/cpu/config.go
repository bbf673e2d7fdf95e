package cpu

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// BreakpointEntry is the on-disk representation of one breakpoint, keyed
// by address so the file stays readable by hand.
type BreakpointEntry struct {
	PC      string `yaml:"pc"`
	Steps   int    `yaml:"steps,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// BreakpointFile is the root document LoadBreakpoints/SaveBreakpoints
// read and write.
type BreakpointFile struct {
	Breakpoints []BreakpointEntry `yaml:"breakpoints"`
}

// LoadBreakpoints reads a YAML breakpoint file and installs every entry
// into the CPU's breakpoint table. Malformed addresses are collected into
// a single aggregated error rather than aborting on the first bad entry,
// so one typo in a large file doesn't hide the rest.
func (c *CPU) LoadBreakpoints(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cpu: reading breakpoint file: %w", err)
	}

	var doc BreakpointFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("cpu: parsing breakpoint file: %w", err)
	}

	var result *multierror.Error
	for _, entry := range doc.Breakpoints {
		addr, err := parseAddr(entry.PC)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("entry %q: %w", entry.PC, err))
			continue
		}
		if entry.Steps < 0 {
			result = multierror.Append(result, fmt.Errorf("entry %q: steps must be >= 0, got %d", entry.PC, entry.Steps))
			continue
		}
		c.SetBreakpoint(addr, &Breakpoint{
			BreakOnSteps: entry.Steps,
			VerboseInstr: entry.Verbose,
		})
	}

	c.breakpointFingerprint = xxhash.Sum64(raw)
	return result.ErrorOrNil()
}

// SaveBreakpoints serializes the current breakpoint table to path.
func (c *CPU) SaveBreakpoints(path string) error {
	doc := BreakpointFile{}
	for addr, bp := range c.breakpoints {
		if bp.Callback != nil {
			// custom in-process callbacks cannot round-trip through YAML.
			continue
		}
		doc.Breakpoints = append(doc.Breakpoints, BreakpointEntry{
			PC:      fmt.Sprintf("0x%04X", addr),
			Steps:   bp.BreakOnSteps,
			Verbose: bp.VerboseInstr,
		})
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cpu: encoding breakpoint file: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("cpu: writing breakpoint file: %w", err)
	}
	c.breakpointFingerprint = xxhash.Sum64(raw)
	return nil
}

func parseAddr(s string) (uint16, error) {
	var v uint64
	var err error
	if strings.HasPrefix(s, "0x") {
		v, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		v, err = strconv.ParseUint(s, 10, 16)
	}
	if err != nil {
		return 0, fmt.Errorf("not a hex (0xNNNN) or decimal address in 16-bit range")
	}
	return uint16(v), nil
}
