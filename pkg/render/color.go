package render

import "image/color"

// Color is a packed 24-bit color in 0xRRGGBB form. It is the single color
// representation shared by shading, the framebuffer and presentation.
type Color uint32

// Colors for convenience
const (
	ColorBlack Color = 0x000000
	ColorWhite Color = 0xFFFFFF
)

// RGB packs three channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	r |= r << 8
	g = uint32(c.G())
	g |= g << 8
	b = uint32(c.B())
	b |= b << 8
	return r, g, b, 0xffff
}

// ToRGBA converts to an opaque color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{c.R(), c.G(), c.B(), 255}
}

// Lerp blends c towards o by t. Channels are clamped to [0, 255]; t is not
// clamped, so callers may extrapolate and still get a valid color.
func (c Color) Lerp(o Color, t float64) Color {
	mix := func(a, b uint8) uint8 {
		return clampChannel(float64(a) + (float64(b)-float64(a))*t)
	}
	return RGB(mix(c.R(), o.R()), mix(c.G(), o.G()), mix(c.B(), o.B()))
}

// Brighten raises every channel by 255*amount, saturating at 255.
func (c Color) Brighten(amount float64) Color {
	add := 255 * amount
	return RGB(
		clampChannel(float64(c.R())+add),
		clampChannel(float64(c.G())+add),
		clampChannel(float64(c.B())+add),
	)
}

// clampChannel truncates v into a channel value. NaN maps to 0.
func clampChannel(v float64) uint8 {
	switch {
	case v >= 255:
		return 255
	case v > 0:
		return uint8(v)
	default:
		return 0
	}
}
