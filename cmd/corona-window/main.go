// corona-window - Animated procedural sun in a desktop window
//
// Controls:
//
//	Left/Right  - Orbit around the sun
//	Up/Down     - Raise/lower the camera
//	W/S or =/-  - Zoom in/out
//	Space       - Pause/resume the animation
//	R           - Reset the camera
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/corona/pkg/config"
	"github.com/taigrr/corona/pkg/render"
	"github.com/taigrr/corona/pkg/scene"
)

var (
	configPath = flag.String("config", "", "Path to JSON config file")
	winWidth   = flag.Int("width", 0, "Framebuffer width (default 800)")
	winHeight  = flag.Int("height", 0, "Framebuffer height (default 600)")
	targetFPS  = flag.Int("fps", 0, "Updates per second (default 60)")
	noiseType  = flag.String("noise", "", "Noise type: gradient or cellular")
	workers    = flag.Int("workers", 0, "Parallel row bands (default NumCPU)")
	verbose    = flag.Bool("v", false, "Log per-frame statistics")
)

// Held-key rates per update
const (
	orbitRate = 0.05
	zoomRate  = 0.05
	logEvery  = 180 // Updates between status lines
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "corona-window - Animated procedural sun\n\n")
		fmt.Fprintf(os.Stderr, "Usage: corona-window [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(config.Flags{
		Model:   flag.Arg(0),
		Width:   *winWidth,
		Height:  *winHeight,
		FPS:     *targetFPS,
		Noise:   *noiseType,
		Workers: *workers,
	})

	sc, err := scene.New(cfg)
	if err != nil {
		return err
	}
	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	g := &sunGame{
		sc:  sc,
		fb:  fb,
		pix: make([]byte, 4*cfg.Width*cfg.Height),
	}
	ebiten.SetWindowTitle("Corona")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	render.Logger().Info("window closed", slog.Int("updates", g.updates), slog.Float64("time", sc.Time()))
	return nil
}

type sunGame struct {
	sc      *scene.Scene
	fb      *render.Framebuffer
	img     *ebiten.Image
	pix     []byte
	stats   render.FrameStats
	updates int
}

func (g *sunGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	cam := g.sc.Camera
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		cam.Orbit(-orbitRate, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		cam.Orbit(orbitRate, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		cam.Orbit(0, -orbitRate)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		cam.Orbit(0, orbitRate)
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyEqual) {
		cam.Zoom(-zoomRate)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyMinus) {
		cam.Zoom(zoomRate)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sc.ResetCamera()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		paused := g.sc.TogglePause()
		render.Logger().Info("animation toggled", slog.Bool("paused", paused))
	}

	g.sc.Advance()
	g.updates++
	if g.updates%logEvery == 0 {
		render.Logger().Info("frame",
			slog.Int("n", g.updates),
			slog.Float64("time", g.sc.Time()),
			slog.Int("fragments", g.stats.Fragments),
			slog.Float64("fps", ebiten.ActualFPS()),
		)
	}
	return nil
}

func (g *sunGame) Draw(screen *ebiten.Image) {
	stats, err := g.sc.Draw(g.fb)
	if err != nil {
		render.Logger().Error("draw", slog.String("err", err.Error()))
		return
	}
	g.stats = stats

	if g.img == nil {
		g.img = ebiten.NewImage(g.fb.Width(), g.fb.Height())
	}
	if err := g.fb.CopyTo(g.pix); err != nil {
		render.Logger().Error("copy", slog.String("err", err.Error()))
		return
	}
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *sunGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width(), g.fb.Height()
}
