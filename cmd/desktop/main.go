// Desktop shell: an ebiten window around the emulator core, standing in
// for the original toolbar/menu interface. F5 starts, F6 stops, F7 resets,
// F12 saves a screenshot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/emu"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/rcp"
)

const sampleRate = 44100

type Game struct {
	emu      *emu.Emulator
	rdp      *rcp.RDP
	frameImg *ebiten.Image // 320×240 frame, uploaded once
	player   *audio.Player

	fps  atomic.Int32
	util atomic.Int32
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := g.emu.Start(); err != nil {
			log.Printf("desktop: start: %v", err)
		} else if g.player != nil {
			g.player.Play()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.emu.Stop()
		if g.player != nil {
			g.player.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		g.emu.ResetAndReload()
		if g.player != nil {
			g.player.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if err := g.rdp.SaveScreenshot("screenshot.png", 2); err != nil {
			log.Printf("desktop: screenshot: %v", err)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Frame contents are deterministic, so one upload suffices.
	if g.frameImg == nil {
		g.frameImg = ebiten.NewImage(rcp.FrameWidth, rcp.FrameHeight)
		pixels, _, _ := g.emu.RenderFrame()
		g.frameImg.WritePixels(pixels)
	}
	screen.DrawImage(g.frameImg, nil)

	state := "Stopped (F5 to start)"
	if g.emu.Running() {
		state = "Running"
	}
	status := fmt.Sprintf("%s | VI/s: %d | CPU: %d%% | Tris: %d",
		state, g.fps.Load(), g.util.Load(), g.emu.Triangles())
	ebitenutil.DebugPrintAt(screen, status, 4, rcp.FrameHeight-16)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return rcp.FrameWidth, rcp.FrameHeight
}

func main() {
	romPath := flag.String("rom", "", "ROM image path")
	tone := flag.Bool("tone", false, "play the RSP-attenuated test tone while running")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: desktop -rom <image> [-tone]")
		os.Exit(2)
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("failed to read ROM %q: %v", *romPath, err)
	}

	memory := mem.NewRDRAM(0)
	rdp := rcp.NewRDP()
	rsp := rcp.NewRSP()
	core := emu.New(emu.Config{}, memory, rdp, rsp)
	if err := core.LoadImage(rom); err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	game := &Game{emu: core, rdp: rdp}
	core.OnStatusTick = func(fps, util int) {
		game.fps.Store(int32(fps))
		game.util.Store(int32(util))
	}

	if *tone {
		ctx := audio.NewContext(sampleRate)
		game.player, err = ctx.NewPlayer(newToneStream(rsp))
		if err != nil {
			log.Printf("desktop: audio: %v", err)
		}
	}

	ebiten.SetWindowSize(rcp.FrameWidth*2, rcp.FrameHeight*2)
	ebiten.SetWindowTitle("Samsoft Ultra 64")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
	core.Stop()
}
