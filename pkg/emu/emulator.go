// Package emu drives the console core: it owns the CPU, holds the memory
// and coprocessors supplied at construction, and runs the frame-paced
// execution loop on a background goroutine.
package emu

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/cpu"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/rcp"
)

// Reference timing: a 93.75 MHz core clock paced at 60 refreshes per
// second, with a video interrupt every 1 562 500 executed cycles.
const (
	DefaultClockHz         = 93_750_000
	DefaultRefreshHz       = 60
	DefaultRefreshInterval = DefaultClockHz / DefaultRefreshHz
)

// Config tunes the frame loop. The zero value selects the reference
// timing; tests shrink it to run frames in microseconds.
type Config struct {
	ClockHz         int // executed cycles per second of emulated time
	RefreshHz       int // frame loop iterations per wall-clock second
	RefreshInterval int // executed cycles between refresh notifications
}

func (c Config) withDefaults() Config {
	if c.ClockHz <= 0 {
		c.ClockHz = DefaultClockHz
	}
	if c.RefreshHz <= 0 {
		c.RefreshHz = DefaultRefreshHz
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = c.ClockHz / c.RefreshHz
	}
	return c
}

// Emulator is the execution scheduler. The frame-loop goroutine is the only
// writer of CPU and memory state while running; the host interacts through
// the lifecycle methods and snapshot accessors. Callbacks are invoked from
// the loop goroutine — hosts must marshal to their own context before
// touching UI state.
type Emulator struct {
	cfg Config

	cpu *cpu.CPU
	mem *mem.RDRAM
	rdp *rcp.RDP
	rsp *rcp.RSP

	// OnRefresh is called at every simulated video interrupt.
	OnRefresh func()
	// OnStatusTick is called at most once per wall-clock second with the
	// refresh rate achieved and the core utilization in percent.
	OnStatusTick func(framesPerSecond, utilizationPercent int)

	mu      sync.Mutex
	image   []byte
	regs    cpu.Registers // published by the loop at frame boundaries
	running bool
	halt    atomic.Bool
	done    chan struct{}
}

// New builds a scheduler around the supplied memory and coprocessors.
// Nil components are replaced with defaults.
func New(cfg Config, m *mem.RDRAM, rdp *rcp.RDP, rsp *rcp.RSP) *Emulator {
	if m == nil {
		m = mem.NewRDRAM(0)
	}
	if rdp == nil {
		rdp = rcp.NewRDP()
	}
	if rsp == nil {
		rsp = rcp.NewRSP()
	}
	return &Emulator{
		cfg: cfg.withDefaults(),
		cpu: cpu.NewCPU(),
		mem: m,
		rdp: rdp,
		rsp: rsp,
	}
}

// LoadImage copies the ROM image into RDRAM and resets the CPU. The image
// is retained for ResetAndReload. Must not be called while running.
func (e *Emulator) LoadImage(rom []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mem.LoadImage(rom); err != nil {
		return err
	}
	e.image = append([]byte(nil), rom...)
	e.cpu.Reset()
	return nil
}

// Start launches the frame loop. A no-op when already running; fails with
// ErrNoImageLoaded when nothing has been loaded. A Start that arrives while
// a Stop is still draining the loop waits for the drain and then restarts.
func (e *Emulator) Start() error {
	e.mu.Lock()
	if e.running && e.halt.Load() {
		done := e.done
		e.mu.Unlock()
		<-done
		e.mu.Lock()
	}
	defer e.mu.Unlock()

	if e.running {
		return nil
	}
	if e.image == nil {
		return ErrNoImageLoaded
	}

	e.cpu.Running = true
	e.halt.Store(false)
	e.regs = e.cpu.Snapshot()
	e.done = make(chan struct{})
	e.running = true
	go e.loop()
	return nil
}

// Stop requests cooperative cancellation and waits for the loop to exit.
// The in-flight step completes; no further steps begin. Idempotent. The
// mutex is released while waiting so loop callbacks may still query state.
func (e *Emulator) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	done := e.done
	e.halt.Store(true)
	e.mu.Unlock()

	<-done
}

// ResetAndReload stops the loop if needed, resets the CPU and reloads the
// previously loaded image, if any.
func (e *Emulator) ResetAndReload() {
	e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cpu.Reset()
	if e.image != nil {
		_ = e.mem.LoadImage(e.image) // retained image is never empty
	}
}

// Running reports whether the frame loop is active.
func (e *Emulator) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// DumpRegisters returns a snapshot of the register file. While halted it
// reads the live registers; while running it returns the copy the loop
// published at the last frame boundary, so it never races the executing
// step.
func (e *Emulator) DumpRegisters() cpu.Registers {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return e.regs
	}
	return e.cpu.Snapshot()
}

// DumpMemory returns a bounds-checked copy of RDRAM contents.
func (e *Emulator) DumpMemory(start uint32, length int) []byte {
	return e.mem.Dump(start, length)
}

// RenderFrame produces the current display output.
func (e *Emulator) RenderFrame() (pixels []byte, width, height int) {
	return e.rdp.FrameRGBA(), rcp.FrameWidth, rcp.FrameHeight
}

// Triangles reports the display-list primitive count.
func (e *Emulator) Triangles() uint64 {
	return e.rdp.Triangles()
}

// loop runs the frame-paced execution until halted. It checks the halt
// flag once per step, so a stop request is observed within at most one
// instruction. The loop goroutine is the sole writer of CPU state; it
// hands the host a register copy under the mutex at every frame boundary
// and clears the running flag itself before signalling done.
func (e *Emulator) loop() {
	defer func() {
		e.mu.Lock()
		e.cpu.Running = false
		e.regs = e.cpu.Snapshot()
		e.running = false
		close(e.done)
		e.mu.Unlock()
	}()

	cyclesPerFrame := e.cfg.ClockHz / e.cfg.RefreshHz
	frameDur := time.Second / time.Duration(e.cfg.RefreshHz)

	frames := 0
	cyclesThisSecond := 0
	lastStatus := time.Now()

	for !e.halt.Load() {
		frameStart := time.Now()

		executed := 0
		for executed < cyclesPerFrame && !e.halt.Load() {
			e.cpu.Step(e.mem)
			executed++

			if executed%e.cfg.RefreshInterval == 0 && e.OnRefresh != nil {
				e.OnRefresh()
			}
		}

		e.mu.Lock()
		e.regs = e.cpu.Snapshot()
		e.mu.Unlock()

		frames++
		cyclesThisSecond += executed

		now := time.Now()
		if now.Sub(lastStatus) >= time.Second {
			if e.OnStatusTick != nil {
				e.OnStatusTick(frames, utilization(cyclesThisSecond, e.cfg.ClockHz))
			}
			frames = 0
			cyclesThisSecond = 0
			lastStatus = now
		}

		if e.halt.Load() {
			return
		}
		if elapsed := time.Since(frameStart); elapsed < frameDur {
			time.Sleep(frameDur - elapsed)
		}
	}
}

// utilization converts executed cycles per second into a percentage of the
// theoretical budget, clamped to [0, 100].
func utilization(cycles, clockHz int) int {
	if cycles <= 0 {
		return 0
	}
	pct := int(int64(cycles) * 100 / int64(clockHz))
	if pct > 100 {
		pct = 100
	}
	return pct
}
