// Monitor shell: a terminal debug monitor showing the register file and a
// memory hexdump, the successor of the original "Debug" windows.
//
// Keys: s start, x stop, r reset+reload, PgUp/PgDn scroll memory, q quit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/emu"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/rcp"
)

type monitor struct {
	emu    *emu.Emulator
	screen tcell.Screen

	memBase uint32
	fps     int
	util    int
	lastErr string
}

func main() {
	romPath := flag.String("rom", "", "ROM image path")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: monitor -rom <image>")
		os.Exit(2)
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("failed to read ROM %q: %v", *romPath, err)
	}

	core := emu.New(emu.Config{}, mem.NewRDRAM(0), rcp.NewRDP(), rcp.NewRSP())
	if err := core.LoadImage(rom); err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("terminal init: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("terminal init: %v", err)
	}
	defer screen.Fini()

	m := &monitor{emu: core, screen: screen, memBase: 0x80000000}

	status := make(chan [2]int, 1)
	core.OnStatusTick = func(fps, util int) {
		select {
		case status <- [2]int{fps, util}:
		default:
		}
	}

	keys := make(chan *tcell.EventKey, 8)
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				keys <- ev
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			m.draw()
		case st := <-status:
			m.fps, m.util = st[0], st[1]
		case ev := <-keys:
			if !m.handleKey(ev) {
				core.Stop()
				return
			}
		}
	}
}

// handleKey returns false when the monitor should exit.
func (m *monitor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyPgUp:
		if m.memBase >= 0x80000000+0x80 {
			m.memBase -= 0x80
		}
	case tcell.KeyPgDn:
		m.memBase += 0x80
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 's':
			m.lastErr = ""
			if err := m.emu.Start(); err != nil {
				m.lastErr = err.Error()
			}
		case 'x':
			m.emu.Stop()
		case 'r':
			m.emu.ResetAndReload()
		}
	}
	m.draw()
	return true
}

func (m *monitor) draw() {
	s := m.screen
	s.Clear()

	bold := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	plain := tcell.StyleDefault

	regs := m.emu.DumpRegisters()

	drawString(s, 0, 0, bold, "R4300i Registers")
	for i := 0; i < 32; i++ {
		col := i / 8
		row := i % 8
		drawString(s, col*16, 1+row, plain, fmt.Sprintf("R%02d %08X", i, regs.GPR[i]))
	}
	drawString(s, 0, 10, plain, fmt.Sprintf("PC  %08X  HI  %08X  LO  %08X", regs.PC, regs.Hi, regs.Lo))

	drawString(s, 0, 12, bold, fmt.Sprintf("Memory %08X", m.memBase))
	for row := 0; row < 8; row++ {
		addr := m.memBase + uint32(row*16)
		line := m.emu.DumpMemory(addr, 16)
		text := fmt.Sprintf("%08X: ", addr)
		ascii := ""
		for i := 0; i < 16; i++ {
			if i < len(line) {
				text += fmt.Sprintf("%02X ", line[i])
				if line[i] >= 32 && line[i] <= 126 {
					ascii += string(rune(line[i]))
				} else {
					ascii += "."
				}
			} else {
				text += "   "
				ascii += " "
			}
		}
		drawString(s, 0, 13+row, plain, text+" "+ascii)
	}

	state := "STOPPED"
	if m.emu.Running() {
		state = "RUNNING"
	}
	line := fmt.Sprintf("%s | VI/s: %d | CPU: %d%% | Tris: %d",
		state, m.fps, m.util, m.emu.Triangles())
	if m.lastErr != "" {
		line += " | " + m.lastErr
	}
	drawString(s, 0, 22, plain, line)
	drawString(s, 0, 23, dim, "s start  x stop  r reset  PgUp/PgDn memory  q quit")

	s.Show()
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}
