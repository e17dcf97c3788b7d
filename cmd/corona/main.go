// corona - Animated procedural sun in your terminal
// Renders a noise-shaded sphere (or any OBJ/GLB model) with a software
// rasterizer, either live in the terminal or headless to PNG/WebP.
//
// Controls:
//
//	Left/Right  - Orbit around the sun
//	Up/Down     - Raise/lower the camera
//	W/S or +/-  - Zoom in/out
//	Space       - Pause/resume the animation
//	R           - Reset the camera
//	?           - Toggle status line (FPS, time, triangles)
//	Esc/Ctrl+C  - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/corona/pkg/config"
	"github.com/taigrr/corona/pkg/render"
	"github.com/taigrr/corona/pkg/scene"
)

var (
	configPath  = flag.String("config", "", "Path to JSON config file")
	targetFPS   = flag.Int("fps", 0, "Target FPS (default 60)")
	bgColor     = flag.String("bg", "", "Background color (R,G,B or #RRGGBB)")
	seed        = flag.Int("seed", 0, "Noise seed (default 42)")
	noiseType   = flag.String("noise", "", "Noise type: gradient or cellular")
	composition = flag.String("composition", "", "Noise composition: single, turbulence or fbm")
	workers     = flag.Int("workers", 0, "Parallel row bands (default NumCPU)")
	cull        = flag.Bool("cull", false, "Skip drawing when the model is outside the view")
	logPath     = flag.String("log", "", "Write logs to this file (interactive mode)")
	verbose     = flag.Bool("v", false, "Log per-frame statistics")

	snapshot    = flag.String("snapshot", "", "Render headless to this .png or .webp file and exit")
	snapTime    = flag.Float64("time", 0, "Animation time for -snapshot")
	width       = flag.Int("width", 0, "Snapshot width (default 800)")
	height      = flag.Int("height", 0, "Snapshot height (default 600)")
	supersample = flag.Int("supersample", 0, "Snapshot supersampling factor")
	frames      = flag.Int("frames", 1, "Snapshot frame count; more than 1 writes an animated .webp")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "corona - Animated procedural sun\n\n")
		fmt.Fprintf(os.Stderr, "Usage: corona [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  W/S or +/-  - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  Space       - Pause animation\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle status line\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(config.Flags{
		Model:       flag.Arg(0),
		Width:       *width,
		Height:      *height,
		FPS:         *targetFPS,
		Supersample: *supersample,
		Background:  *bgColor,
		Seed:        *seed,
		Noise:       *noiseType,
		Composition: *composition,
		Workers:     *workers,
		Cull:        *cull,
	})

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	if *snapshot != "" {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return runSnapshot(cfg)
	}

	// stdout belongs to the terminal UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	render.SetLogger(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))

	return runTerminal(cfg)
}

func runSnapshot(cfg config.Config) error {
	sc, err := scene.New(cfg)
	if err != nil {
		return err
	}
	sc.SetTime(*snapTime)

	start := time.Now()
	err = sc.Snapshot(*snapshot, scene.SnapshotOptions{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Frames:      *frames,
		FrameTime:   time.Second / time.Duration(cfg.FPS),
	})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	render.Logger().Info("snapshot written",
		slog.String("path", *snapshot),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("frames", max(*frames, 1)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// SmoothAxis eases a camera parameter toward its target with a critically
// damped spring.
type SmoothAxis struct {
	Value  float64
	Target float64
	vel    float64
	spring harmonica.Spring
}

// NewSmoothAxis creates an axis resting at v.
func NewSmoothAxis(fps int, v float64) SmoothAxis {
	return SmoothAxis{
		Value:  v,
		Target: v,
		// Frequency 6.0 = quick follow, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring by one frame.
func (a *SmoothAxis) Update() {
	a.Value, a.vel = a.spring.Update(a.Value, a.vel, a.Target)
}

// OrbitControls holds the spring-smoothed camera targets driven by keys.
type OrbitControls struct {
	Yaw, Pitch, Distance SmoothAxis
	fps                  int
}

// Per key press steps
const (
	orbitStep = 0.1
	zoomStep  = 0.25
	logEvery  = 180 // Frames between status lines
)

// NewOrbitControls starts the controls at the camera's current orbit.
func NewOrbitControls(fps int, cam *render.OrbitCamera) *OrbitControls {
	c := &OrbitControls{fps: fps}
	c.Reset(cam)
	return c
}

// Reset snaps the controls to the camera without animating.
func (c *OrbitControls) Reset(cam *render.OrbitCamera) {
	c.Yaw = NewSmoothAxis(c.fps, cam.Yaw)
	c.Pitch = NewSmoothAxis(c.fps, cam.Pitch)
	c.Distance = NewSmoothAxis(c.fps, cam.Distance)
}

// Orbit moves the yaw and pitch targets; pitch stays clamped.
func (c *OrbitControls) Orbit(dYaw, dPitch float64) {
	c.Yaw.Target += dYaw
	c.Pitch.Target = render.ClampPitch(c.Pitch.Target + dPitch)
}

// Zoom moves the distance target; it stays clamped.
func (c *OrbitControls) Zoom(delta float64) {
	c.Distance.Target = render.ClampDistance(c.Distance.Target + delta)
}

// Apply advances the springs and writes the result into cam.
func (c *OrbitControls) Apply(cam *render.OrbitCamera) {
	c.Yaw.Update()
	c.Pitch.Update()
	c.Distance.Update()
	cam.Yaw = c.Yaw.Value
	cam.Pitch = render.ClampPitch(c.Pitch.Value)
	cam.Distance = render.ClampDistance(c.Distance.Value)
}

// Status tracks the frame rate for the status line.
type Status struct {
	Visible   bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewStatus creates a hidden status line.
func NewStatus() *Status {
	return &Status{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (s *Status) UpdateFPS() {
	s.fpsFrames++
	elapsed := time.Since(s.fpsTime)
	if elapsed >= time.Second {
		s.fps = float64(s.fpsFrames) / elapsed.Seconds()
		s.fpsFrames = 0
		s.fpsTime = time.Now()
	}
}

// Line formats the status for the current frame, or "" when hidden.
func (s *Status) Line(sc *scene.Scene, stats render.FrameStats) string {
	if !s.Visible {
		return ""
	}
	state := "running"
	if sc.Paused() {
		state = "paused"
	}
	return fmt.Sprintf(" %.0f FPS  t=%.2f  %s  %d tris  %d frags  dist %.2f ",
		s.fps, sc.Time(), state, stats.Triangles, stats.Fragments, sc.Camera.Distance)
}

func runTerminal(cfg config.Config) error {
	sc, err := scene.New(cfg)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fb, err := render.NewFramebuffer(termRenderer.FramebufferSize())
	if err != nil {
		return err
	}

	controls := NewOrbitControls(cfg.FPS, sc.Camera)
	status := NewStatus()

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	handle := func(ev uv.Event) error {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			w, h := termRenderer.FramebufferSize()
			if fb, err = render.NewFramebuffer(w, h); err != nil {
				return err
			}
			render.Logger().Debug("resized", slog.Int("cols", width), slog.Int("rows", height))

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				cancel()
			case ev.MatchString("left"):
				controls.Orbit(-orbitStep, 0)
			case ev.MatchString("right"):
				controls.Orbit(orbitStep, 0)
			case ev.MatchString("up"):
				controls.Orbit(0, -orbitStep)
			case ev.MatchString("down"):
				controls.Orbit(0, orbitStep)
			case ev.MatchString("w", "+", "="):
				controls.Zoom(-zoomStep)
			case ev.MatchString("s", "-", "_"):
				controls.Zoom(zoomStep)
			case ev.MatchString("space"):
				paused := sc.TogglePause()
				render.Logger().Info("animation toggled", slog.Bool("paused", paused))
			case ev.MatchString("r"):
				sc.ResetCamera()
				controls.Reset(sc.Camera)
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				status.Visible = !status.Visible
			}
		}
		return nil
	}

	// Main loop
	targetDuration := time.Second / time.Duration(cfg.FPS)
	frame := 0

	for {
		// Drain pending input before drawing
	events:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-term.Events():
				if err := handle(ev); err != nil {
					return err
				}
			default:
				break events
			}
		}

		now := time.Now()

		controls.Apply(sc.Camera)
		sc.Advance()

		stats, err := sc.Draw(fb)
		if err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		status.UpdateFPS()
		termRenderer.SetStatus(status.Line(sc, stats))
		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		frame++
		if frame%logEvery == 0 {
			render.Logger().Info("frame",
				slog.Int("n", frame),
				slog.Float64("time", sc.Time()),
				slog.Int("fragments", stats.Fragments),
			)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
