package cpu

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var consoleIn = bufio.NewScanner(os.Stdin)

const helpText = `usage: command [options]
  commands:
    ?, help               show this informational text
    c, continue           continue execution, disable stepping
    s, step [steps=1]     run [steps] instructions, then break
    v, verbose            toggle verbose instruction execution
    b, break [addr]       breakpoint on executing [addr]
    clear                 clear all breakpoints
    r, run                continue and turn verbose logging off
    reset                 reset the machine
    read, ld [addr] (len) read from [addr] (len) bytes and print
    write [addr] [value]  write [value] to memory location [addr]
    dump                  pretty-print the full register/IO state
    trace [file]          export the instruction trace, gzip-compressed
    remote listen [addr]  start mirroring verbose output over websocket
    remote                report connected remote client count and latency
    debug                 trigger the debug interrupt handler
    vblank                render current screen and call vblank
    q, quit, exit          stop the machine`

// enterConsole prints the pre-prompt dump and then drives the interactive
// command loop until a command resumes execution (continue, step, run, an
// empty line) or the machine is stopped outright.
func (c *CPU) enterConsole(opcode uint8) {
	instr := c.decode(opcode)
	fmt.Printf("\n>>> Breakpoint at [pc 0x%04X] opcode 0x%02X: %s\n", c.PC, opcode, instr.Printer(c, opcode))
	fmt.Println(c.Registers.String())
	fmt.Printf("\tIF = 0x%02X  IE = 0x%02X  IME = %v\n", c.io.IF, c.io.IE, c.ime)
	c.printIndirect()

	for c.executeOneCommand() {
	}
}

func (c *CPU) printIndirect() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("\tunable to read from (HL) or (SP)")
		}
	}()
	fmt.Printf("\t(HL) = 0x%02X  (SP) = 0x%04X\n", c.ReadHL(), c.bus.Read16(c.SP))
}

// executeOneCommand reads and runs a single console command, returning
// true if the console should keep prompting.
func (c *CPU) executeOneCommand() bool {
	fmt.Print("(dmgcpu) ")
	if !consoleIn.Scan() {
		c.Stop()
		return false
	}
	fields := strings.Fields(consoleIn.Text())
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "c", "continue":
		c.breakOnSteps(0)
		return false
	case "s", "step":
		c.Verbose = true
		steps := 1
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				steps = n
			}
		}
		fmt.Printf("stepping %d instruction(s)\n", steps)
		c.breakOnSteps(steps)
		return false
	case "v", "verbose":
		c.Verbose = !c.Verbose
		fmt.Printf("verbose instructions are now %s\n", onOff(c.Verbose))
		return true
	case "b", "break":
		if len(args) < 1 {
			fmt.Println(">>> not enough parameters: break [addr]")
			return true
		}
		addr, err := strconv.ParseUint(args[0], 16, 16)
		if err != nil {
			fmt.Printf(">>> bad address %q: %v\n", args[0], err)
			return true
		}
		c.SetBreakpoint(uint16(addr), &Breakpoint{})
		return true
	case "clear":
		c.ClearAllBreakpoints()
		return true
	case "r", "run":
		c.Verbose = false
		c.breakOnSteps(0)
		return false
	case "q", "quit", "exit":
		c.Stop()
		return false
	case "reset":
		c.Reset()
		c.breakNow = true
		return false
	case "ld", "read":
		c.cmdRead(args)
		return true
	case "write":
		c.cmdWrite(args)
		return true
	case "dump":
		spew.Dump(c.Registers, c.io)
		return true
	case "trace":
		path := "trace.gz"
		if len(args) > 0 {
			path = args[0]
		}
		if err := c.ExportTrace(path); err != nil {
			fmt.Printf(">>> trace export failed: %v\n", err)
		} else {
			fmt.Printf("trace written to %s\n", path)
		}
		return true
	case "vblank":
		c.gpu.RenderAndVBlank()
		return true
	case "remote":
		c.cmdRemote(args)
		return true
	case "debug":
		if c.io.DebugCallback != nil {
			c.io.DebugCallback()
		}
		return true
	case "help", "?":
		fmt.Println(helpText)
		return true
	default:
		fmt.Printf(">>> unknown command: %q\n", cmd)
		fmt.Println(helpText)
		return true
	}
}

func (c *CPU) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Println(">>> not enough parameters: read [addr] (length=1)")
		return
	}
	addr, err := strconv.ParseUint(args[0], 16, 16)
	if err != nil {
		fmt.Printf(">>> bad address %q: %v\n", args[0], err)
		return
	}
	length := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			length = n
		}
	}
	col := 0
	for i := 0; i < length; i++ {
		if col == 0 {
			fmt.Printf("0x%04X: ", uint16(addr)+uint16(i))
		}
		fmt.Printf("0x%02X ", c.bus.Read8(uint16(addr)+uint16(i)))
		col++
		if col == 4 {
			fmt.Println()
			col = 0
		}
	}
	if col != 0 {
		fmt.Println()
	}
}

func (c *CPU) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Println(">>> not enough parameters: write [addr] [value]")
		return
	}
	addr, err := strconv.ParseUint(args[0], 16, 16)
	if err != nil {
		fmt.Printf(">>> bad address %q: %v\n", args[0], err)
		return
	}
	value, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		fmt.Printf(">>> bad value %q: %v\n", args[1], err)
		return
	}
	fmt.Printf("0x%04X -> 0x%02X\n", addr, value&0xFF)
	c.bus.Write8(uint16(addr), uint8(value))
}

// cmdRemote implements the `remote` and `remote listen [addr]` commands:
// the former reports connected client count and per-client latency, the
// latter starts a websocket listener mirroring verbose trace lines.
func (c *CPU) cmdRemote(args []string) {
	if len(args) == 0 {
		if c.remote == nil {
			fmt.Println("remote mirroring is not active; use 'remote listen [addr]'")
			return
		}
		latencies := c.remote.Latencies()
		fmt.Printf("remote: %d client(s) connected\n", c.remote.ClientCount())
		for i, us := range latencies {
			fmt.Printf("  client %d: ~%dus round trip\n", i, us)
		}
		return
	}
	if args[0] != "listen" {
		fmt.Printf(">>> unknown remote subcommand: %q\n", args[0])
		return
	}
	addr := ":6060"
	if len(args) > 1 {
		addr = args[1]
	}
	if c.remote == nil {
		c.AttachRemote(NewRemoteHub())
	}
	mux := http.NewServeMux()
	mux.Handle("/debug", c.remote)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			c.logger.Errorf("cpu: remote listener on %s stopped: %v", addr, err)
		}
	}()
	fmt.Printf("remote mirroring listening on ws://%s/debug\n", addr)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
