// Package render provides the software rasterization pipeline for Corona.
package render

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidSize is returned when a framebuffer cannot be allocated for the
// requested dimensions.
var ErrInvalidSize = errors.New("render: invalid framebuffer size")

// Framebuffer is a color buffer paired with a per-pixel depth buffer.
// Cells are only ever changed through Clear and the depth-tested SetPixel.
type Framebuffer struct {
	width  int
	height int
	pixels []Color   // Row-major color data
	depth  []float64 // Row-major depth, +Inf when empty
}

// NewFramebuffer creates a framebuffer cleared to black with every depth cell
// at +Inf. When rendering to a terminal, height should be 2x the desired
// terminal rows for half-block output.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width > math.MaxInt/height {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidSize, width, height)
	}
	fb := &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]Color, width*height),
		depth:  make([]float64, width*height),
	}
	fb.Clear(ColorBlack)
	return fb, nil
}

// Width returns the width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Clear fills the color buffer with bg and resets every depth cell to +Inf.
// Call it once at the start of every frame.
func (fb *Framebuffer) Clear(bg Color) {
	n := len(fb.pixels)
	if n == 0 {
		return
	}
	// Use copy-doubling for faster clearing
	fb.pixels[0] = bg
	fb.depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.pixels[i:], fb.pixels[:i])
		copy(fb.depth[i:], fb.depth[:i])
	}
}

// SetPixel writes c at (x, y) iff depth is strictly less than the stored
// depth. Out-of-bounds coordinates are ignored. A NaN depth never passes.
func (fb *Framebuffer) SetPixel(x, y int, c Color, depth float64) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.setIndex(y*fb.width+x, c, depth)
}

func (fb *Framebuffer) setIndex(i int, c Color, depth float64) bool {
	if depth < fb.depth[i] {
		fb.pixels[i] = c
		fb.depth[i] = depth
		return true
	}
	return false
}

// GetPixel returns the color at (x, y), or black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return ColorBlack
	}
	return fb.pixels[y*fb.width+x]
}

// Depth returns the stored depth at (x, y), or +Inf if out of bounds.
func (fb *Framebuffer) Depth(x, y int) float64 {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return math.Inf(1)
	}
	return fb.depth[y*fb.width+x]
}

// Buffer returns the row-major color buffer for presentation. The slice
// aliases the framebuffer and must not be modified.
func (fb *Framebuffer) Buffer() []Color {
	return fb.pixels
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	_ = fb.CopyTo(img.Pix) // Sized to fit
	return img
}

// CopyTo writes the color buffer into dst as tightly packed RGBA bytes, the
// layout expected by image.RGBA and ebiten's WritePixels. A dst shorter than
// 4*Width*Height bytes is an error and is left untouched.
func (fb *Framebuffer) CopyTo(dst []byte) error {
	if need := 4 * len(fb.pixels); len(dst) < need {
		return fmt.Errorf("render: copy needs %d bytes, got %d", need, len(dst))
	}
	for i, c := range fb.pixels {
		o := i * 4
		dst[o] = c.R()
		dst[o+1] = c.G()
		dst[o+2] = c.B()
		dst[o+3] = 255
	}
	return nil
}
