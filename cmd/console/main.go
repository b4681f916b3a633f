// Console shell: assemble or load a ROM image, run it headless for a fixed
// number of refresh intervals, and print the register and status dump.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/asm"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/emu"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/rcp"
)

func main() {
	romPath := flag.String("rom", "", "ROM image path")
	asmPath := flag.String("asm", "", "assembly source path (assembled into a ROM image)")
	frames := flag.Int("frames", 60, "refresh intervals to run before stopping")
	screenshot := flag.String("screenshot", "", "write a PNG of the final frame to this path")
	flag.Parse()

	if (*romPath == "") == (*asmPath == "") {
		fmt.Fprintln(os.Stderr, "provide exactly one of -rom or -asm")
		flag.Usage()
		os.Exit(2)
	}

	var rom []byte
	var err error
	switch {
	case *romPath != "":
		rom, err = os.ReadFile(*romPath)
		if err != nil {
			log.Fatalf("failed to read ROM %q: %v", *romPath, err)
		}
	case *asmPath != "":
		source, rerr := os.ReadFile(*asmPath)
		if rerr != nil {
			log.Fatalf("failed to read source %q: %v", *asmPath, rerr)
		}
		rom, err = asm.AssembleImage(string(source))
		if err != nil {
			log.Fatalf("assembly failed: %v", err)
		}
		fmt.Printf("assembled %d bytes from %s\n", len(rom)-mem.HeaderSize, *asmPath)
	}

	rdp := rcp.NewRDP()
	core := emu.New(emu.Config{}, mem.NewRDRAM(0), rdp, rcp.NewRSP())
	if err := core.LoadImage(rom); err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	seen := make(chan struct{}, 1024)
	core.OnRefresh = func() {
		select {
		case seen <- struct{}{}:
		default:
		}
	}
	core.OnStatusTick = func(fps, util int) {
		fmt.Printf("VI/s: %d | CPU: %d%%\n", fps, util)
	}

	if err := core.Start(); err != nil {
		log.Fatalf("start failed: %v", err)
	}

	deadline := time.After(time.Duration(*frames+120) * time.Second / 60)
	for n := 0; n < *frames; {
		select {
		case <-seen:
			n++
		case <-deadline:
			log.Printf("timed out after %d refresh intervals", n)
			n = *frames
		}
	}
	core.Stop()

	printRegisters(core)
	fmt.Printf("Triangles rendered: %d\n", core.Triangles())

	if *screenshot != "" {
		if err := rdp.SaveScreenshot(*screenshot, 2); err != nil {
			log.Fatalf("screenshot failed: %v", err)
		}
		fmt.Printf("wrote %s\n", *screenshot)
	}
}

func printRegisters(core *emu.Emulator) {
	regs := core.DumpRegisters()
	fmt.Println("R4300i Registers:")
	for i := 0; i < 32; i++ {
		fmt.Printf("R%02d: 0x%08X", i, regs.GPR[i])
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
	fmt.Printf("PC:  0x%08X\nHI:  0x%08X\nLO:  0x%08X\n", regs.PC, regs.Hi, regs.Lo)
}
