package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sketch-renderer/internal/logging"
	"sketch-renderer/internal/mathutil"
	"sketch-renderer/internal/model"
	"sketch-renderer/internal/postprocess"
	"sketch-renderer/internal/raster"
	"sketch-renderer/internal/sketch"
	"sketch-renderer/internal/texture"
	"sketch-renderer/internal/watch"
)

// wheelStep is the scroll distance in pixels for one wheel notch.
const wheelStep = 60

type game struct {
	path   string
	sk     *sketch.Sketch
	def    *sketch.Definition
	tex    texture.Resolver
	ss     int
	reload <-chan string

	start     time.Time
	scrollTop float64
	cursorX   int
	cursorY   int
	debug     bool
}

func newGame(path string, tex texture.Resolver, ss int) (*game, error) {
	g := &game{path: path, tex: tex, ss: ss, start: time.Now(), cursorX: -1}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

// load (re)builds the sketch from disk, keeping the scroll position.
func (g *game) load() error {
	def, err := sketch.Load(g.path)
	if err != nil {
		return err
	}
	sk, err := sketch.New(def, model.NewFileLoader(def.Dir()))
	if err != nil {
		return err
	}
	if g.sk != nil {
		g.sk.Close()
	}
	g.sk, g.def = sk, def
	g.scrollTop = mathutil.Clamp(g.scrollTop, 0, g.maxScroll())
	g.sk.OnScroll(g.sk.Document(g.scrollTop))
	return nil
}

func (g *game) maxScroll() float64 {
	return g.def.Document.Height - float64(g.def.Viewport.Height)
}

func (g *game) Update() error {
	select {
	case _, ok := <-g.reload:
		if ok {
			if err := g.load(); err != nil {
				logging.Logger().Warn("reload failed", "path", g.path, "err", err)
			} else {
				logging.Logger().Info("reloaded", "path", g.path)
			}
		}
	default:
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.scrollTop = mathutil.Clamp(g.scrollTop-wy*wheelStep, 0, g.maxScroll())
		g.sk.OnScroll(g.sk.Document(g.scrollTop))
	}

	vp := g.def.Viewport
	if x, y := ebiten.CursorPosition(); x != g.cursorX || y != g.cursorY {
		g.cursorX, g.cursorY = x, y
		g.sk.OnPointerMove(float64(x), float64(y), float64(vp.Width), float64(vp.Height))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	g.sk.Tick(time.Since(g.start))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	vp := g.def.Viewport
	img := raster.Render(g.sk.Snapshot(), g.tex, vp.Width, vp.Height, g.ss)
	if g.ss > 1 {
		img = postprocess.Downsample(img, vp.Width, vp.Height)
	}
	img = postprocess.Vignette(img, g.def.Post.Vignette)
	screen.WritePixels(img.Pix)

	if g.debug {
		p := g.sk.Pointer()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ratio %.3f  dpos (%.2f, %.2f)  tps %.0f",
			g.sk.Ratio(), p.DPos[0], p.DPos[1], ebiten.ActualTPS()), 8, 8)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.def.Viewport.Width, g.def.Viewport.Height
}

func main() {
	texDir := flag.String("textures", "", "Texture directory (default: next to the sketch)")
	ss := flag.Int("ss", 1, "Supersample factor")
	watchFile := flag.Bool("watch", false, "Reload the sketch when the file changes")
	verbose := flag.Bool("v", false, "Verbose diagnostics on stderr")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: preview [-watch] [-textures dir] [-ss N] sketch.yaml")
		os.Exit(2)
	}
	path := flag.Arg(0)

	logging.SetLogger(logging.NewText(os.Stderr, *verbose))

	def, err := sketch.Load(path)
	if err != nil {
		log.Fatal(err)
	}
	dir := *texDir
	if dir == "" {
		dir = def.Dir()
	}
	tex := texture.NewCache(texture.BuildIndex(dir))

	g, err := newGame(path, tex, max(*ss, 1))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { g.sk.Close() }()

	if *watchFile {
		w, err := watch.New(path)
		if err != nil {
			log.Fatal(err)
		}
		defer w.Close()
		g.reload = w.Events
	}

	ebiten.SetWindowSize(def.Viewport.Width, def.Viewport.Height)
	ebiten.SetWindowTitle("preview: " + def.Name + " (F1: debug)")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
