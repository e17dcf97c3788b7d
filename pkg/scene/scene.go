// Package scene ties a mesh, the sun shader and an orbit camera into an
// animated scene that drivers render frame by frame.
package scene

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/taigrr/corona/pkg/config"
	"github.com/taigrr/corona/pkg/models"
	"github.com/taigrr/corona/pkg/render"
)

// Scene is the state shared by every driver: what is drawn, from where, and
// at which animation time. It is not safe for concurrent use.
type Scene struct {
	Mesh       *models.Mesh
	Pipeline   *render.Pipeline
	Camera     *render.OrbitCamera
	Background render.Color
	Seed       int32
	TimeStep   float64 // Animation seconds per Advance

	distance float64 // Initial camera distance, restored by ResetCamera
	fov      float64
	time     float64
	paused   bool
}

// New builds a scene from a resolved config: it loads or generates the mesh
// and prepares the pipeline.
func New(cfg config.Config) (*Scene, error) {
	shader, err := cfg.Shader()
	if err != nil {
		return nil, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}

	mesh, err := loadMesh(cfg)
	if err != nil {
		return nil, err
	}
	render.Logger().Info("mesh ready",
		slog.String("name", mesh.Name),
		slog.Int("vertices", mesh.VertexCount()),
		slog.Int("triangles", mesh.TriangleCount()),
	)

	p := render.NewPipeline(cfg.Workers)
	p.Shader = shader
	p.Cull = cfg.Cull

	s := &Scene{
		Mesh:       mesh,
		Pipeline:   p,
		Background: bg,
		Seed:       cfg.Seed,
		TimeStep:   cfg.TimeStep,
		distance:   render.ClampDistance(cfg.Distance),
		fov:        cfg.FOV * math.Pi / 180,
	}
	s.Camera = render.NewOrbitCamera(float64(cfg.Width) / float64(cfg.Height))
	s.ResetCamera()
	return s, nil
}

func loadMesh(cfg config.Config) (*models.Mesh, error) {
	if cfg.Model == "" {
		return models.GenerateSphere(cfg.Rings, cfg.Sectors, 1)
	}
	mesh, err := models.Load(cfg.Model, models.LoadOptions{
		SmoothNormals: cfg.SmoothNormals,
		Normalize:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return mesh, nil
}

// ResetCamera returns the camera to its initial orbit.
func (s *Scene) ResetCamera() {
	s.Camera.Yaw, s.Camera.Pitch = 0, 0
	s.Camera.Distance = s.distance
	s.Camera.FOV = s.fov
}

// Time returns the current animation time.
func (s *Scene) Time() float64 { return s.time }

// SetTime jumps the animation to t.
func (s *Scene) SetTime(t float64) { s.time = t }

// Paused reports whether Advance is currently a no-op.
func (s *Scene) Paused() bool { return s.paused }

// TogglePause pauses or resumes the animation and returns the new state.
func (s *Scene) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// Advance moves the animation forward by one time step unless paused.
func (s *Scene) Advance() {
	if !s.paused {
		s.time += s.TimeStep
	}
}

// Draw clears fb and renders the scene into it at the current time.
func (s *Scene) Draw(fb *render.Framebuffer) (render.FrameStats, error) {
	fb.Clear(s.Background)
	s.Camera.SetAspectRatio(float64(fb.Width()) / float64(fb.Height()))
	u := s.Camera.Uniforms(render.SunSpin(s.time), s.time, s.Seed)
	return s.Pipeline.DrawMesh(fb, s.Mesh, u)
}

// RenderImage renders one frame at width x height. With supersample > 1 the
// frame is drawn that many times larger and filtered down.
func (s *Scene) RenderImage(width, height, supersample int) (*image.RGBA, error) {
	supersample = max(supersample, 1)
	fb, err := render.NewFramebuffer(width*supersample, height*supersample)
	if err != nil {
		return nil, err
	}
	if _, err := s.Draw(fb); err != nil {
		return nil, err
	}
	return render.Downsample(fb.ToImage(), width, height), nil
}

// SnapshotOptions describes a headless render.
type SnapshotOptions struct {
	Width, Height int
	Supersample   int
	Frames        int           // More than one needs a .webp path
	FrameTime     time.Duration // Display time per animated frame
}

// Snapshot renders the scene to path starting at the current time. A single
// frame is written as PNG or WebP by extension; several frames advance the
// animation between them and are written as an animated WebP.
func (s *Scene) Snapshot(path string, opts SnapshotOptions) error {
	if opts.Frames <= 1 {
		img, err := s.RenderImage(opts.Width, opts.Height, opts.Supersample)
		if err != nil {
			return err
		}
		return render.SaveImage(path, img)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".webp" {
		return fmt.Errorf("animation needs a .webp output, got %q", ext)
	}

	frames := make([]image.Image, 0, opts.Frames)
	for i := range opts.Frames {
		img, err := s.RenderImage(opts.Width, opts.Height, opts.Supersample)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, img)
		s.Advance()
	}
	return render.SaveAnimatedWebP(path, frames, opts.FrameTime)
}
