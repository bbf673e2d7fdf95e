package cpu

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// traceLine is one entry in the execution trace ring buffer: the PC the
// instruction executed from, the opcode, and its disassembly at the time
// it ran.
type traceLine struct {
	PC   uint16
	Op   uint8
	Text string
}

// traceRing is a fixed-size circular buffer of the most recently executed
// instructions, used for both verbose console logging and the `trace`
// export command. It never allocates after construction.
type traceRing struct {
	buf  []traceLine
	next int
	full bool
}

func newTraceRing(size int) *traceRing {
	return &traceRing{buf: make([]traceLine, size)}
}

func (r *traceRing) push(line traceLine) {
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// ordered returns the ring's contents oldest-first.
func (r *traceRing) ordered() []traceLine {
	if !r.full {
		return append([]traceLine(nil), r.buf[:r.next]...)
	}
	out := make([]traceLine, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

// ExportTrace writes the current trace ring to path, gzip-compressed. It
// backs the debug console's `trace <file>` command.
func (c *CPU) ExportTrace(path string) error {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	for _, line := range c.trace.ordered() {
		fmt.Fprintf(gw, "%04X %02X %s\n", line.PC, line.Op, line.Text)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("cpu: closing trace gzip stream: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// zstdTrace reuses klauspost/compress's zstd encoder to produce a second,
// higher-ratio encoding of the same lines the gzip export writes. No
// console command or remote client calls it; it is exercised only by its
// unit test.
func (c *CPU) zstdTrace() ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("cpu: constructing zstd encoder: %w", err)
	}
	defer enc.Close()
	var raw bytes.Buffer
	for _, line := range c.trace.ordered() {
		fmt.Fprintf(&raw, "%04X %02X %s\n", line.PC, line.Op, line.Text)
	}
	return enc.EncodeAll(raw.Bytes(), nil), nil
}
