// Command sandbox runs a small bouncing-boxes scene on top of a sekai World.
//
// Usage:
//
//	go run ./cmd/sandbox -config world.yaml -faulty
//
// Keys: F toggles the faulty system, C clears all boxes, Esc quits.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/edwinsyarief/sekai"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	screenWidth  = 800
	screenHeight = 600
	tick         = time.Second / 60
)

var (
	configFlag = flag.String("config", "", "Optional YAML world configuration")
	spawnFlag  = flag.Int("spawn", 4, "Boxes spawned per tick while below the limit")
	limitFlag  = flag.Int("limit", 2000, "Maximum number of live boxes")
	faultyFlag = flag.Bool("faulty", false, "Register a system that panics every second")
)

// Game adapts a sekai World to the ebiten.Game interface.
type Game struct {
	world     *sekai.World
	bodies    sekai.Component[Body]
	clear     *sekai.Filter[Body]
	faulty    *faulty
	lastFault string
	ticks     int
}

// NewGame builds the world and registers systems in execution order.
func NewGame(cfg sekai.Config) *Game {
	w := sekai.NewWorld(cfg)
	g := &Game{
		world:  w,
		bodies: sekai.Register[Body](w, "Body"),
	}
	sekai.SetResource(w, &Arena{Width: screenWidth, Height: screenHeight})
	sprites := sekai.Register[Sprite](w, "Sprite")
	lifetimes := sekai.Register[Lifetime](w, "Lifetime")

	w.AddSystem(newSpawner(w, g.bodies, sprites, lifetimes, *spawnFlag, *limitFlag))
	w.AddSystem(&motion{query: sekai.NewFilter(g.bodies)})
	w.AddSystem(&bounds{w: w, query: sekai.NewFilter(g.bodies)})
	w.AddSystem(&reaper{w: w, query: sekai.NewFilter(lifetimes)})
	w.AddSystem(newRenderer(sekai.NewFilter2(g.bodies, sprites)))
	g.clear = sekai.NewFilter(g.bodies)
	g.faulty = &faulty{}
	if *faultyFlag {
		w.AddSystem(g.faulty)
	}

	w.Scheduler().SubscribeFaults(func(f sekai.Fault) {
		g.lastFault = fmt.Sprintf("last fault: %s (%s)", f.System, f.Phase)
	})
	return g
}

// Update advances the simulation by one fixed tick.
func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.clear.RemoveEntities()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		if !g.world.RemoveSystem(g.faulty) {
			g.world.AddSystem(g.faulty)
		}
	}
	g.world.Update(tick)
	g.ticks++
	return nil
}

// Draw renders every system implementing sekai.Renderer.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})
	g.world.Render(screen)

	info := fmt.Sprintf("TPS: %0.1f  entities: %d  boxes: %d", ebiten.ActualTPS(), g.world.Len(), g.bodies.Len())
	ebitenutil.DebugPrintAt(screen, info, 10, 10)
	if s := g.world.Stats(); s.Hits+s.Recomputations > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("query hits: %d  recomputations: %d  invalidations: %d",
			s.Hits, s.Recomputations, s.Invalidations), 10, 30)
	}
	if g.lastFault != "" {
		ebitenutil.DebugPrintAt(screen, g.lastFault, 10, 50)
	}
}

// Layout keeps the arena resource in sync with the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if arena, ok := sekai.GetResource[Arena](g.world); ok {
		arena.Width, arena.Height = float64(outsideWidth), float64(outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func loadConfig() sekai.Config {
	if *configFlag == "" {
		return sekai.DefaultConfig()
	}
	cfg, err := sekai.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func main() {
	flag.Parse()

	store := openSessionStore()
	prev, err := store.load()
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	if prev.Runs > 0 {
		log.Printf("Previous run %s: %d ticks, faults: %v", prev.LastRun.Format(time.RFC3339), prev.LastTicks, prev.Faults)
	}

	game := NewGame(loadConfig())

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("sekai sandbox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(time.Second / tick))

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
	faults := game.world.Scheduler().Faults()
	log.Printf("Sandbox closed after %d ticks, faults: %v", game.ticks, faults)
	if err := store.save(Session{Runs: prev.Runs + 1, LastRun: time.Now(), LastTicks: game.ticks, Faults: faults}); err != nil {
		log.Printf("Warning: %v", err)
	}
}
