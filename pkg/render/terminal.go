package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: fb.GetPixel(x, topY),
					Bg: fb.GetPixel(x, botY),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// displayer is implemented by screens that present their contents
// explicitly, such as *uv.Terminal.
type displayer interface {
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal screen, optionally
// overlaying a one-line status on the bottom row.
type TerminalRenderer struct {
	scr    uv.Screen
	width  int // Terminal columns
	height int // Terminal rows
	status string
}

// NewTerminalRenderer creates a renderer for a screen of width x height
// cells.
func NewTerminalRenderer(scr uv.Screen, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: max(width, 1), height: max(height, 1)}
}

// FramebufferSize returns the framebuffer dimensions that fill the screen:
// one pixel per column and two per row.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// SetStatus sets the status line. An empty string hides it.
func (t *TerminalRenderer) SetStatus(s string) {
	t.status = s
}

// Render draws fb and the status line into the screen buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rect(0, 0, t.width, t.height))
	if t.status != "" {
		uv.NewStyledString(t.status).Draw(t.scr, uv.Rect(0, t.height-1, t.width, 1))
	}
}

// Flush presents the screen buffer if the screen supports it.
func (t *TerminalRenderer) Flush() error {
	if d, ok := t.scr.(displayer); ok {
		return d.Display()
	}
	return nil
}
