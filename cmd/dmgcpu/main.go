package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/kestrelgb/dmgcpu/internal/bus"
	"github.com/kestrelgb/dmgcpu/internal/cpu"
	"github.com/kestrelgb/dmgcpu/internal/machine"
	"github.com/kestrelgb/dmgcpu/pkg/log"
)

func main() {
	romFile := flag.String("rom", "", "raw binary to load at 0x0100")
	breakpointFile := flag.String("breakpoints", "", "YAML breakpoint file to load (and watch for changes)")
	verbose := flag.Bool("verbose", false, "start with per-instruction logging on")
	remoteAddr := flag.String("remote", "", "if set, serve a remote debug websocket on this address (e.g. :8090)")
	flag.Parse()

	flatBus := bus.NewFlat()
	if *romFile != "" {
		raw, err := os.ReadFile(*romFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "dmgcpu:", err)
			os.Exit(1)
		}
		flatBus.LoadAt(0x0100, raw)
	}

	m := machine.New(flatBus,
		machine.WithGPU(cpu.NoopGPU{}),
		machine.WithCPUOptions(cpu.WithLogger(log.New()), cpu.WithVerbose(*verbose)),
	)

	if *breakpointFile != "" {
		if err := m.CPU.LoadBreakpoints(*breakpointFile); err != nil {
			fmt.Fprintln(os.Stderr, "dmgcpu: loading breakpoints:", err)
		}
		if _, err := m.CPU.WatchBreakpoints(*breakpointFile); err != nil {
			fmt.Fprintln(os.Stderr, "dmgcpu: watching breakpoints:", err)
		}
	}

	if *remoteAddr != "" {
		hub := cpu.NewRemoteHub()
		m.CPU.AttachRemote(hub)
		http.Handle("/debug", hub)
		go func() {
			if err := http.ListenAndServe(*remoteAddr, nil); err != nil {
				fmt.Fprintln(os.Stderr, "dmgcpu: remote debug server:", err)
			}
		}()
	}

	m.Run()
}
